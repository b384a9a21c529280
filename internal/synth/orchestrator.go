package synth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/solos99999/txt2voice/internal/audio"
	"github.com/solos99999/txt2voice/internal/history"
	"github.com/solos99999/txt2voice/internal/logger"
	"github.com/solos99999/txt2voice/internal/tts"
	"github.com/solos99999/txt2voice/internal/voice"
)

// outputSampleRate 输出 WAV 文件的统一采样率。
// 各引擎返回的采样率不同（Edge 24000、腾讯 16000），落盘前统一重采样。
const outputSampleRate = 22050

// Request 一次合成请求：引擎、语音包、文本。
type Request struct {
	Engine string
	Voice  string
	Text   string
}

// Result 一次合成的产出。
type Result struct {
	Path       string
	Samples    []float32
	SampleRate int
	Channels   int
	Engine     string
	Voice      string
	Duration   time.Duration
	// Degraded 为 true 表示本地引擎失败后使用了占位合成。
	Degraded bool
}

// Engines 编排器可分发的引擎集合。引擎集合是封闭的：
// 按标识 switch 分发，而不是开放式的插件注册。
// 未配置的引擎留 nil 即可。
type Engines struct {
	Edge        tts.Engine
	Sherpa      tts.Engine
	Tencent     tts.Engine
	Placeholder tts.Engine
}

// Orchestrator 负责把一次合成请求路由到正确的引擎、
// 处理降级、统一采样率、生成输出文件并记录历史。
type Orchestrator struct {
	voices  *voice.Manager
	engines Engines
	outDir  string
	store   *history.Store // 可为 nil

	// now 可在测试中替换以固定时间戳。
	now func() time.Time
}

// New 创建编排器。store 传 nil 则不记录历史。
func New(voices *voice.Manager, engines Engines, outDir string, store *history.Store) *Orchestrator {
	return &Orchestrator{
		voices:  voices,
		engines: engines,
		outDir:  outDir,
		store:   store,
		now:     time.Now,
	}
}

// Synthesize 执行一次完整的合成：
// 校验选择 → 引擎分发（本地失败降级占位）→ 样本校验 → 写 WAV → 记历史。
// 网络错误原样返回且不产生任何文件。
func (o *Orchestrator) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("合成文本为空")
	}

	// 语音包必须属于所选引擎，校验失败不会触达任何引擎客户端
	if err := o.voices.Validate(req.Engine, req.Voice); err != nil {
		return nil, err
	}

	samples, rate, degraded, err := o.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := audio.ValidateSamples(samples); err != nil {
		return nil, err
	}

	if rate != outputSampleRate {
		logger.Debugf("[synth] 重采样 %d Hz -> %d Hz", rate, outputSampleRate)
		samples = audio.Resample(samples, rate, outputSampleRate)
		rate = outputSampleRate
	}

	path, err := o.writeFile(req, samples, rate)
	if err != nil {
		return nil, err
	}

	dur := time.Duration(len(samples)) * time.Second / time.Duration(rate)
	res := &Result{
		Path:       path,
		Samples:    samples,
		SampleRate: rate,
		Channels:   1,
		Engine:     req.Engine,
		Voice:      req.Voice,
		Duration:   dur,
		Degraded:   degraded,
	}

	if o.store != nil {
		rec := history.Record{
			Engine:     req.Engine,
			Voice:      req.Voice,
			Text:       req.Text,
			FilePath:   path,
			DurationMs: dur.Milliseconds(),
			SampleRate: rate,
		}
		if err := o.store.Add(rec); err != nil {
			// 历史只是附加功能，写入失败不影响本次结果
			logger.Warnf("[synth] %v", err)
		}
	}

	logger.Infof("[synth] 合成完成: engine=%s voice=%s 时长=%.2fs 文件=%s",
		req.Engine, req.Voice, dur.Seconds(), path)
	return res, nil
}

// dispatch 按引擎标识分发到对应客户端。
// 本地引擎推理失败时降级到占位合成（可用性优先于保真度）；
// 云端引擎失败不降级，错误原样上抛由用户决定重试或换引擎。
func (o *Orchestrator) dispatch(ctx context.Context, req Request) (samples []float32, rate int, degraded bool, err error) {
	switch req.Engine {
	case tts.EngineEdge:
		if o.engines.Edge == nil {
			return nil, 0, false, fmt.Errorf("%w: 引擎 %s 未初始化", tts.ErrConfig, req.Engine)
		}
		samples, rate, err = o.engines.Edge.Synthesize(ctx, req.Text, req.Voice)

	case tts.EngineTencent:
		if o.engines.Tencent == nil {
			return nil, 0, false, fmt.Errorf("%w: 引擎 %s 未初始化", tts.ErrConfig, req.Engine)
		}
		samples, rate, err = o.engines.Tencent.Synthesize(ctx, req.Text, req.Voice)

	case tts.EngineSherpa:
		if o.engines.Sherpa == nil {
			return nil, 0, false, fmt.Errorf("%w: 引擎 %s 未初始化", tts.ErrConfig, req.Engine)
		}
		samples, rate, err = o.engines.Sherpa.Synthesize(ctx, req.Text, req.Voice)
		if err != nil && errors.Is(err, tts.ErrInference) && o.engines.Placeholder != nil {
			if ctx.Err() != nil {
				return nil, 0, false, ctx.Err()
			}
			logger.Warnf("[synth] 本地引擎失败，降级到占位合成: %v", err)
			samples, rate, err = o.engines.Placeholder.Synthesize(ctx, req.Text, req.Voice)
			degraded = true
		}

	default:
		return nil, 0, false, fmt.Errorf("%w: 未知引擎 %s", tts.ErrInvalidSelection, req.Engine)
	}

	return samples, rate, degraded, err
}

// writeFile 生成唯一文件名并写出 WAV。
func (o *Orchestrator) writeFile(req Request, samples []float32, rate int) (string, error) {
	if err := os.MkdirAll(o.outDir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录 %s 失败: %w", o.outDir, err)
	}

	path := o.uniquePath(Filename(req.Engine, req.Voice, o.now()))
	if err := audio.WriteWAV(path, samples, rate, 1); err != nil {
		return "", err
	}
	return path, nil
}

// uniquePath 同一秒内重名时追加 _N 后缀。
// 极端竞争下仍可能覆盖同名文件，覆盖是可接受的（文件内容等价）。
func (o *Orchestrator) uniquePath(name string) string {
	path := filepath.Join(o.outDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	base := strings.TrimSuffix(name, ".wav")
	for i := 1; ; i++ {
		candidate := filepath.Join(o.outDir, fmt.Sprintf("%s_%d.wav", base, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Filename 按引擎、语音包和时间戳生成确定性的输出文件名：
// <engine>_<voice>_<YYYYmmdd_HHMMSS>.wav。
// 语音包标识中的特殊字符会被清理，保证跨平台文件名合法。
func Filename(engine, voiceID string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.wav", engine, sanitize(voiceID), t.Format("20060102_150405"))
}

// sanitize 只保留字母、数字、下划线和连字符。
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, s)
}
