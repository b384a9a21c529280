package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/solos99999/txt2voice/internal/audio"
	"github.com/solos99999/txt2voice/internal/logger"
)

// EdgeEngine 使用微软 Edge TTS 实现语音合成，
// 通过 edge-tts-go 获取 MP3 音频，再用 go-mp3 解码为 PCM。
type EdgeEngine struct {
	defaultVoice string
}

// NewEdgeEngine 创建 Edge TTS 引擎。
// defaultVoice 在调用方未指定语音时使用。
func NewEdgeEngine(defaultVoice string) *EdgeEngine {
	return &EdgeEngine{defaultVoice: defaultVoice}
}

// Name 实现 Engine 接口。
func (e *EdgeEngine) Name() string { return EngineEdge }

// Synthesize 将文本合成为单声道 float32 音频样本。
// 返回样本数据、采样率和错误。所有失败都归类为网络错误，
// 因为 Edge TTS 是纯云端服务，失败原因几乎总在网络侧。
func (e *EdgeEngine) Synthesize(ctx context.Context, text, voice string) ([]float32, int, error) {
	if voice == "" {
		voice = e.defaultVoice
	}
	logger.Debugf("[tts] edge-tts: 正在合成 %d 个字符，语音=%s", len([]rune(text)), voice)

	// 创建 Communicate 实例并通过 Stream() 获取 MP3 音频块
	comm, err := edge.NewCommunicate(text, edge.WithVoice(voice))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: edge-tts 创建实例失败: %v", ErrNetwork, err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: edge-tts 开始流式合成失败: %v", ErrNetwork, err)
	}

	// 从 channel 收集所有音频数据
	var mp3Buf bytes.Buffer
	for msg := range ch {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}
		// Stream() 返回的 map 中，type=="audio" 的条目包含音频数据
		if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
			if data, ok := msg["data"].([]byte); ok {
				mp3Buf.Write(data)
			}
		}
	}

	mp3Data := mp3Buf.Bytes()
	if len(mp3Data) == 0 {
		return nil, 0, fmt.Errorf("%w: edge-tts 未收到音频数据", ErrNetwork)
	}

	logger.Debugf("[tts] edge-tts: 收到 %d 字节 MP3 数据", len(mp3Data))

	// 解码 MP3 为原始 PCM
	decoder, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return nil, 0, fmt.Errorf("[tts] MP3 解码失败: %w", err)
	}

	sampleRate := decoder.SampleRate()

	pcmData, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("[tts] 读取 PCM 数据失败: %w", err)
	}

	logger.Debugf("[tts] edge-tts: 解码得到 %d 字节 PCM，采样率 %d Hz", len(pcmData), sampleRate)

	// go-mp3 固定输出立体声 signed 16-bit LE PCM
	samples := audio.StereoBytesToMono(pcmData)

	logger.Debugf("[tts] edge-tts: 生成 %d 个单声道 float32 样本", len(samples))

	return samples, sampleRate, nil
}
