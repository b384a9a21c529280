package tts

import "context"

// 引擎标识。引擎集合是封闭的：两个云端引擎、一个本地模型引擎，
// 以及一个不对用户暴露的占位合成引擎。
const (
	EngineEdge        = "edge"
	EngineSherpa      = "sherpa"
	EngineTencent     = "tencent"
	EnginePlaceholder = "placeholder"
)

// Engine 定义语音合成后端接口。
type Engine interface {
	// Name 返回引擎标识（如 "edge"）。
	Name() string

	// Synthesize 将文本用指定语音转换为音频。
	// 返回单声道 float32 音频样本、采样率（Hz）和错误。
	Synthesize(ctx context.Context, text, voice string) ([]float32, int, error)
}
