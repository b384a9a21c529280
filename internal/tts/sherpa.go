package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/solos99999/txt2voice/internal/logger"
)

// sherpaSpeakers 将语音包标识映射到 VITS 模型的说话人 id。
var sherpaSpeakers = map[string]int{
	"default":      0,
	"female_warm":  1,
	"male_deep":    2,
	"child_cute":   3,
	"professional": 4,
	"emotional":    5,
}

// SherpaEngine 封装 sherpa-onnx 离线 TTS（VITS 中文模型），
// 在本机完成推理，不依赖网络。
// 模型加载失败不会阻止程序启动：Synthesize 会返回推理错误，
// 由上层降级到占位合成。
type SherpaEngine struct {
	impl  *sherpa.OfflineTts
	speed float32
	mu    sync.Mutex
}

// NewSherpaEngine 创建本地 VITS 合成引擎。
// modelDir: 包含 model.onnx、lexicon.txt、tokens.txt（及可选 dict 目录）的模型目录
// numThreads: 推理线程数
// speed: 语速因子，1.0 为原速
func NewSherpaEngine(modelDir string, numThreads int, speed float32) *SherpaEngine {
	e := &SherpaEngine{speed: speed}
	if e.speed <= 0 {
		e.speed = 1.0
	}

	if modelDir == "" {
		logger.Warn("[tts] sherpa: 未配置模型目录，本地引擎不可用")
		return e
	}
	if _, err := os.Stat(modelDir); err != nil {
		logger.Warnf("[tts] sherpa: 模型目录 %s 不可访问: %v", modelDir, err)
		return e
	}

	config := sherpa.OfflineTtsConfig{}
	config.Model.Vits.Model = filepath.Join(modelDir, "model.onnx")
	config.Model.Vits.Lexicon = filepath.Join(modelDir, "lexicon.txt")
	config.Model.Vits.Tokens = filepath.Join(modelDir, "tokens.txt")

	// 中文 VITS 模型通常附带 jieba 词典目录
	dictDir := filepath.Join(modelDir, "dict")
	if _, err := os.Stat(dictDir); err == nil {
		config.Model.Vits.DictDir = dictDir
	}

	config.Model.NumThreads = numThreads
	config.Model.Provider = "cpu"
	config.Model.Debug = 0
	config.MaxNumSentences = 2

	impl := sherpa.NewOfflineTts(&config)
	if impl == nil {
		logger.Warnf("[tts] sherpa: 创建离线合成器失败，模型目录: %s", modelDir)
		return e
	}

	logger.Infof("[tts] sherpa: 本地合成引擎已初始化 (model_dir=%s, threads=%d)", modelDir, numThreads)
	e.impl = impl
	return e
}

// Name 实现 Engine 接口。
func (e *SherpaEngine) Name() string { return EngineSherpa }

// Loaded 返回模型是否加载成功。
func (e *SherpaEngine) Loaded() bool {
	return e.impl != nil
}

// Synthesize 在本机将文本转换为单声道 float32 音频样本。
// 模型未加载或推理产出为空时返回 ErrInference。
func (e *SherpaEngine) Synthesize(ctx context.Context, text, voice string) ([]float32, int, error) {
	if e.impl == nil {
		return nil, 0, fmt.Errorf("%w: 模型未加载", ErrInference)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	sid, ok := sherpaSpeakers[voice]
	if !ok {
		sid = 0
	}

	logger.Debugf("[tts] sherpa: 正在合成 %d 个字符，speaker=%d", len([]rune(text)), sid)

	// OfflineTts 的 Generate 不可重入，需要串行化
	e.mu.Lock()
	generated := e.impl.Generate(text, sid, e.speed)
	e.mu.Unlock()

	if generated == nil || len(generated.Samples) == 0 {
		return nil, 0, fmt.Errorf("%w: 推理未产出音频（文本可能含不支持的字符）", ErrInference)
	}

	logger.Debugf("[tts] sherpa: 生成 %d 个样本，采样率 %d Hz",
		len(generated.Samples), generated.SampleRate)

	return generated.Samples, generated.SampleRate, nil
}

// Close 释放模型资源。
func (e *SherpaEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.impl != nil {
		sherpa.DeleteOfflineTts(e.impl)
		e.impl = nil
	}
}
