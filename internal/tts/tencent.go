package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hajimehoshi/go-mp3"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tencenttts "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tts/v20190823"

	"github.com/solos99999/txt2voice/internal/audio"
	"github.com/solos99999/txt2voice/internal/logger"
)

// tencentVoiceTypes 将语音包标识映射到腾讯云音色编号。
var tencentVoiceTypes = map[string]int64{
	"zhiyu":   1001, // 智瑜（女声）
	"zhiling": 1002, // 智聆（女声）
	"zhijing": 1018, // 智靖（男声）
}

// TencentEngine 使用腾讯云 TTS 实现语音合成。
// 适用于中国大陆网络环境，支持多种中文音色。
type TencentEngine struct {
	client *tencenttts.Client
}

// TencentOptions 腾讯云 TTS 凭据与地域。
type TencentOptions struct {
	SecretID  string
	SecretKey string
	Region    string
}

// NewTencentEngine 创建腾讯云 TTS 引擎。
func NewTencentEngine(opts TencentOptions) (*TencentEngine, error) {
	if opts.SecretID == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("%w: 腾讯云 TTS 需要 SecretID 和 SecretKey", ErrConfig)
	}
	if opts.Region == "" {
		opts.Region = "ap-guangzhou"
	}

	credential := common.NewCredential(opts.SecretID, opts.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tts.tencentcloudapi.com"

	client, err := tencenttts.NewClient(credential, opts.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("创建腾讯云 TTS 客户端失败: %w", err)
	}

	logger.Infof("[tts] 腾讯云 TTS 引擎已初始化 (region=%s)", opts.Region)

	return &TencentEngine{client: client}, nil
}

// Name 实现 Engine 接口。
func (e *TencentEngine) Name() string { return EngineTencent }

// Synthesize 将文本合成为单声道 float32 音频样本。
// 腾讯云 TTS 返回 MP3 格式，需要解码为 PCM。
func (e *TencentEngine) Synthesize(ctx context.Context, text, voice string) ([]float32, int, error) {
	voiceType, ok := tencentVoiceTypes[voice]
	if !ok {
		voiceType = 1001
	}

	logger.Debugf("[tts] 腾讯云 TTS: 正在合成 %d 个字符，音色=%d", len([]rune(text)), voiceType)

	request := tencenttts.NewTextToVoiceRequest()
	request.Text = common.StringPtr(text)
	request.VoiceType = common.Int64Ptr(voiceType)
	request.Codec = common.StringPtr("mp3")
	request.Speed = common.Float64Ptr(1.0)
	request.Volume = common.Float64Ptr(5.0)

	response, err := e.client.TextToVoice(request)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: 腾讯云 TTS 合成失败: %v", ErrNetwork, err)
	}

	if response.Response == nil || response.Response.Audio == nil {
		return nil, 0, fmt.Errorf("%w: 腾讯云 TTS 未返回音频数据", ErrNetwork)
	}

	// Base64 解码
	mp3Data, err := base64.StdEncoding.DecodeString(*response.Response.Audio)
	if err != nil {
		return nil, 0, fmt.Errorf("[tts] Base64 解码失败: %w", err)
	}

	logger.Debugf("[tts] 腾讯云 TTS: 收到 %d 字节 MP3 数据", len(mp3Data))

	// 解码 MP3 为原始 PCM
	decoder, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return nil, 0, fmt.Errorf("[tts] MP3 解码失败: %w", err)
	}

	sampleRate := decoder.SampleRate()

	pcmBuf := new(bytes.Buffer)
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}
		n, err := decoder.Read(buf)
		if n > 0 {
			pcmBuf.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}

	pcmData := pcmBuf.Bytes()
	logger.Debugf("[tts] 腾讯云 TTS: 解码得到 %d 字节 PCM，采样率 %d Hz", len(pcmData), sampleRate)

	samples := audio.StereoBytesToMono(pcmData)

	logger.Debugf("[tts] 腾讯云 TTS: 生成 %d 个单声道 float32 样本", len(samples))

	return samples, sampleRate, nil
}
