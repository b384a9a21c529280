package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEngineFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engines.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEngineFile_Valid(t *testing.T) {
	path := writeEngineFile(t, `{
		"engines": {
			"edge": {"display_name": "Edge TTS", "enabled": true, "order": 1},
			"sherpa": {"display_name": "本地模型", "enabled": false, "order": 2}
		}
	}`)

	ef, err := LoadEngineFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ef.Engines) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(ef.Engines))
	}
	edge := ef.Engines["edge"]
	if edge.DisplayName != "Edge TTS" || !edge.Enabled || edge.Order != 1 {
		t.Fatalf("unexpected edge entry: %+v", edge)
	}
	if ef.Engines["sherpa"].Enabled {
		t.Fatal("sherpa should be disabled")
	}
}

func TestLoadEngineFile_Missing(t *testing.T) {
	if _, err := LoadEngineFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEngineFile_MalformedJSON(t *testing.T) {
	path := writeEngineFile(t, `{"engines": {`)
	if _, err := LoadEngineFile(path); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestLoadEngineFile_NoEntries(t *testing.T) {
	path := writeEngineFile(t, `{"engines": {}}`)
	if _, err := LoadEngineFile(path); err == nil {
		t.Fatal("expected error for empty engines map")
	}
}

func TestLoadEngineFile_MissingDisplayName(t *testing.T) {
	path := writeEngineFile(t, `{"engines": {"edge": {"enabled": true, "order": 1}}}`)
	if _, err := LoadEngineFile(path); err == nil {
		t.Fatal("expected error for entry without display_name")
	}
}

func TestDefaultEngineFile(t *testing.T) {
	ef := DefaultEngineFile()
	edge, ok := ef.Engines["edge"]
	if !ok {
		t.Fatal("default set must contain edge")
	}
	if !edge.Enabled || edge.DisplayName == "" {
		t.Fatalf("unexpected default edge entry: %+v", edge)
	}
}
