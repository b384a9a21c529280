package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// EngineEntry 是引擎描述文件中的一条记录。
type EngineEntry struct {
	DisplayName string `json:"display_name"`
	Enabled     bool   `json:"enabled"`
	Order       int    `json:"order"`
}

// EngineFile 对应引擎描述文件（JSON）的顶层结构：
//
//	{ "engines": { "<id>": { "display_name": "...", "enabled": true, "order": 1 } } }
type EngineFile struct {
	Engines map[string]EngineEntry `json:"engines"`
}

// LoadEngineFile 读取并解析引擎描述文件。
// 文件缺失、JSON 损坏或没有任何引擎条目都视为配置错误，
// 由调用方降级到 DefaultEngineFile。
func LoadEngineFile(path string) (*EngineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取引擎描述文件 %s 失败: %w", path, err)
	}

	ef := &EngineFile{}
	if err := json.Unmarshal(data, ef); err != nil {
		return nil, fmt.Errorf("解析引擎描述文件 %s 失败: %w", path, err)
	}

	if len(ef.Engines) == 0 {
		return nil, fmt.Errorf("引擎描述文件 %s 中没有 engines 条目", path)
	}

	for id, e := range ef.Engines {
		if e.DisplayName == "" {
			return nil, fmt.Errorf("引擎描述文件 %s 中引擎 %s 缺少 display_name", path, id)
		}
	}

	return ef, nil
}

// DefaultEngineFile 返回内置的最小引擎集合：只启用 Edge TTS。
// 配置损坏时用它保证界面仍然可用。
func DefaultEngineFile() *EngineFile {
	return &EngineFile{
		Engines: map[string]EngineEntry{
			"edge": {DisplayName: "Edge TTS（微软云端）", Enabled: true, Order: 1},
		},
	}
}
