package voice

import (
	"fmt"
	"sort"

	"github.com/solos99999/txt2voice/internal/config"
	"github.com/solos99999/txt2voice/internal/logger"
	"github.com/solos99999/txt2voice/internal/tts"
)

// Engine 描述一个对用户可见的合成引擎。
type Engine struct {
	ID          string
	DisplayName string
	Order       int
}

// Manager 维护引擎与语音包的对应关系，在启动时构建后只读。
type Manager struct {
	engines []Engine
	voices  map[string][]Voice
}

// NewManager 根据引擎描述文件构建管理器。
// 只保留 enabled 且内置目录中存在的引擎，按 order 排序（order 相同按 id）。
// 描述文件引用了未知引擎时记录警告并跳过。
func NewManager(ef *config.EngineFile) *Manager {
	m := &Manager{voices: make(map[string][]Voice)}

	for id, entry := range ef.Engines {
		if !entry.Enabled {
			continue
		}
		vs, ok := catalog[id]
		if !ok {
			logger.Warnf("[voice] 引擎描述文件引用了未知引擎 %s，已跳过", id)
			continue
		}
		m.engines = append(m.engines, Engine{
			ID:          id,
			DisplayName: entry.DisplayName,
			Order:       entry.Order,
		})
		m.voices[id] = vs
	}

	sort.Slice(m.engines, func(i, j int) bool {
		if m.engines[i].Order != m.engines[j].Order {
			return m.engines[i].Order < m.engines[j].Order
		}
		return m.engines[i].ID < m.engines[j].ID
	})

	return m
}

// LoadManager 读取引擎描述文件并构建管理器。
// 文件缺失或损坏时记录警告，降级到内置的最小引擎集合，
// 返回的 error 包装了 tts.ErrConfig 供调用方上报，但管理器始终可用。
func LoadManager(path string) (*Manager, error) {
	ef, err := config.LoadEngineFile(path)
	if err != nil {
		logger.Warnf("[voice] %v，使用内置默认引擎集合", err)
		return NewManager(config.DefaultEngineFile()), fmt.Errorf("%w: %v", tts.ErrConfig, err)
	}

	m := NewManager(ef)
	if len(m.engines) == 0 {
		logger.Warn("[voice] 引擎描述文件未启用任何已知引擎，使用内置默认引擎集合")
		return NewManager(config.DefaultEngineFile()),
			fmt.Errorf("%w: 没有可用引擎", tts.ErrConfig)
	}
	return m, nil
}

// Engines 返回启用的引擎列表（已按 order 排序）。
func (m *Manager) Engines() []Engine {
	return m.engines
}

// Voices 返回指定引擎拥有的语音包列表。
// 引擎未启用或未知时返回 ErrInvalidSelection。
func (m *Manager) Voices(engineID string) ([]Voice, error) {
	vs, ok := m.voices[engineID]
	if !ok {
		return nil, fmt.Errorf("%w: 引擎 %s 未启用", tts.ErrInvalidSelection, engineID)
	}
	return vs, nil
}

// Validate 校验 (engine, voice) 组合：语音包必须属于该引擎。
func (m *Manager) Validate(engineID, voiceID string) error {
	vs, err := m.Voices(engineID)
	if err != nil {
		return err
	}
	for _, v := range vs {
		if v.ID == voiceID {
			return nil
		}
	}
	return fmt.Errorf("%w: 语音 %s 不属于引擎 %s", tts.ErrInvalidSelection, voiceID, engineID)
}

// DefaultVoice 返回引擎的第一个语音包 id，引擎无语音时返回空串。
func (m *Manager) DefaultVoice(engineID string) string {
	vs := m.voices[engineID]
	if len(vs) == 0 {
		return ""
	}
	return vs[0].ID
}

// Find 按 id 查找语音包。
func (m *Manager) Find(engineID, voiceID string) (Voice, bool) {
	for _, v := range m.voices[engineID] {
		if v.ID == voiceID {
			return v, true
		}
	}
	return Voice{}, false
}
