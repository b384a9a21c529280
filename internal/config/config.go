package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 txt2voice 的顶层配置结构。
type Config struct {
	Audio  AudioConfig  `yaml:"audio"`
	Output OutputConfig `yaml:"output"`
	TTS    TTSConfig    `yaml:"tts"`
	Log    LogConfig    `yaml:"log"`
}

// AudioConfig 音频输出配置。
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

// OutputConfig 合成结果输出配置。
type OutputConfig struct {
	// Dir 生成的 WAV 文件所在目录。
	Dir string `yaml:"dir"`
	// HistoryDB 合成历史数据库路径，为空则使用 <dir>/history.db。
	HistoryDB string `yaml:"history_db"`
}

// TTSConfig 语音合成配置。
type TTSConfig struct {
	// EnginesFile 引擎描述文件（JSON）路径。
	EnginesFile string        `yaml:"engines_file"`
	Edge        EdgeConfig    `yaml:"edge"`
	Sherpa      SherpaConfig  `yaml:"sherpa"`
	Tencent     TencentConfig `yaml:"tencent"`
}

// EdgeConfig Edge TTS 配置。
type EdgeConfig struct {
	// DefaultVoice 未选择语音时使用的默认语音。
	DefaultVoice string `yaml:"default_voice"`
}

// SherpaConfig 本地 sherpa-onnx VITS 模型配置。
type SherpaConfig struct {
	// ModelDir 包含 model.onnx、lexicon.txt、tokens.txt 的模型目录。
	ModelDir   string  `yaml:"model_dir"`
	NumThreads int     `yaml:"num_threads"`
	Speed      float32 `yaml:"speed"`
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	ErrorFile string `yaml:"error_file"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
// 文件不存在时返回全默认配置，保证程序可以零配置启动。
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			setDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${TXT2VOICE_TENCENT_SECRET_KEY}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = 22050
	}
	if cfg.Audio.Channels == 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Output.HistoryDB == "" {
		cfg.Output.HistoryDB = cfg.Output.Dir + "/history.db"
	}
	if cfg.TTS.EnginesFile == "" {
		cfg.TTS.EnginesFile = "configs/engines.json"
	}
	if cfg.TTS.Edge.DefaultVoice == "" {
		cfg.TTS.Edge.DefaultVoice = "zh-CN-XiaoxiaoNeural"
	}
	if cfg.TTS.Sherpa.NumThreads == 0 {
		cfg.TTS.Sherpa.NumThreads = 2
	}
	if cfg.TTS.Sherpa.Speed == 0 {
		cfg.TTS.Sherpa.Speed = 1.0
	}
	if cfg.TTS.Tencent.Region == "" {
		cfg.TTS.Tencent.Region = "ap-guangzhou"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "logs/txt2voice.log"
	}
	if cfg.Log.ErrorFile == "" {
		cfg.Log.ErrorFile = "logs/error.log"
	}

	// 去除凭据两端可能的空白（环境变量展开后常见）
	cfg.TTS.Tencent.SecretID = strings.TrimSpace(cfg.TTS.Tencent.SecretID)
	cfg.TTS.Tencent.SecretKey = strings.TrimSpace(cfg.TTS.Tencent.SecretKey)
}
