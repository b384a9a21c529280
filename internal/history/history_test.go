package history

import (
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 3; i++ {
		err := store.Add(Record{
			Engine:     "edge",
			Voice:      "zh-CN-XiaoxiaoNeural",
			Text:       fmt.Sprintf("第%d条", i),
			FilePath:   fmt.Sprintf("output/%d.wav", i),
			DurationMs: int64(i * 1000),
			SampleRate: 22050,
		})
		if err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// 倒序：最新的在前
	if records[0].Text != "第3条" || records[2].Text != "第1条" {
		t.Fatalf("records not in reverse order: %v", records)
	}
	if records[0].Engine != "edge" || records[0].SampleRate != 22050 {
		t.Fatalf("fields not persisted: %+v", records[0])
	}
}

func TestRecent_Limit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(Record{
			Engine: "sherpa", Voice: "default", Text: "文本",
			FilePath: "output/a.wav", DurationMs: 100, SampleRate: 22050,
		}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestRecent_Empty(t *testing.T) {
	store := openTestStore(t)
	records, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Add(Record{
		Engine: "edge", Voice: "v", Text: "t",
		FilePath: "f.wav", DurationMs: 1, SampleRate: 22050,
	}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	records, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected persisted record after reopen, got %d", len(records))
	}
}
