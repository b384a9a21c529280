package voice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solos99999/txt2voice/internal/config"
	"github.com/solos99999/txt2voice/internal/tts"
)

func testEngineFile() *config.EngineFile {
	return &config.EngineFile{
		Engines: map[string]config.EngineEntry{
			"sherpa":  {DisplayName: "本地模型", Enabled: true, Order: 2},
			"edge":    {DisplayName: "Edge TTS", Enabled: true, Order: 1},
			"tencent": {DisplayName: "腾讯云", Enabled: false, Order: 3},
		},
	}
}

func TestNewManager_OrderAndFiltering(t *testing.T) {
	m := NewManager(testEngineFile())

	es := m.Engines()
	if len(es) != 2 {
		t.Fatalf("expected 2 enabled engines, got %d", len(es))
	}
	if es[0].ID != "edge" || es[1].ID != "sherpa" {
		t.Fatalf("engines not sorted by order: %v", es)
	}
	// 禁用的引擎对外不可见
	if _, err := m.Voices("tencent"); !errors.Is(err, tts.ErrInvalidSelection) {
		t.Fatalf("disabled engine should yield ErrInvalidSelection, got %v", err)
	}
}

func TestNewManager_SkipsUnknownEngine(t *testing.T) {
	ef := &config.EngineFile{
		Engines: map[string]config.EngineEntry{
			"edge":    {DisplayName: "Edge TTS", Enabled: true, Order: 1},
			"unknown": {DisplayName: "不存在的引擎", Enabled: true, Order: 2},
		},
	}
	m := NewManager(ef)
	if len(m.Engines()) != 1 {
		t.Fatalf("unknown engine should be skipped, got %v", m.Engines())
	}
}

func TestVoices_BelongToEngine(t *testing.T) {
	m := NewManager(testEngineFile())

	vs, err := m.Voices("edge")
	if err != nil {
		t.Fatalf("voices failed: %v", err)
	}
	if len(vs) == 0 {
		t.Fatal("edge should have voices")
	}
	for _, v := range vs {
		if v.Engine != "edge" {
			t.Fatalf("voice %s reports wrong engine %s", v.ID, v.Engine)
		}
	}
}

func TestValidate(t *testing.T) {
	m := NewManager(testEngineFile())

	if err := m.Validate("edge", "zh-CN-XiaoxiaoNeural"); err != nil {
		t.Fatalf("valid pair rejected: %v", err)
	}
	// 语音属于 sherpa 而不是 edge
	if err := m.Validate("edge", "female_warm"); !errors.Is(err, tts.ErrInvalidSelection) {
		t.Fatalf("cross-engine voice should be rejected, got %v", err)
	}
	if err := m.Validate("nope", "x"); !errors.Is(err, tts.ErrInvalidSelection) {
		t.Fatalf("unknown engine should be rejected, got %v", err)
	}
}

func TestDefaultVoice(t *testing.T) {
	m := NewManager(testEngineFile())
	if got := m.DefaultVoice("sherpa"); got != "default" {
		t.Fatalf("expected first sherpa voice, got %s", got)
	}
	if got := m.DefaultVoice("tencent"); got != "" {
		t.Fatalf("disabled engine should have no default voice, got %s", got)
	}
}

func TestFind(t *testing.T) {
	m := NewManager(testEngineFile())
	v, ok := m.Find("edge", "zh-CN-YunxiNeural")
	if !ok {
		t.Fatal("expected to find voice")
	}
	if v.Gender != GenderMale {
		t.Fatalf("unexpected gender %s", v.Gender)
	}
	if _, ok := m.Find("edge", "absent"); ok {
		t.Fatal("expected miss for absent voice")
	}
}

func TestLoadManager_FallsBackOnBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engines.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManager(path)
	if !errors.Is(err, tts.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	// 降级后管理器仍然可用
	if m == nil || len(m.Engines()) == 0 {
		t.Fatal("fallback manager must stay usable")
	}
	if m.Engines()[0].ID != "edge" {
		t.Fatalf("fallback should enable edge, got %v", m.Engines())
	}
}

func TestLoadManager_FallsBackWhenNothingEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engines.json")
	content := `{"engines": {"edge": {"display_name": "Edge", "enabled": false, "order": 1}}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManager(path)
	if !errors.Is(err, tts.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if len(m.Engines()) == 0 {
		t.Fatal("fallback manager must enable at least one engine")
	}
}
