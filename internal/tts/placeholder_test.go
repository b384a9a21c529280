package tts

import (
	"context"
	"testing"
)

func TestPlaceholder_Deterministic(t *testing.T) {
	p := NewPlaceholderEngine()

	a, rateA, err := p.Synthesize(context.Background(), "你好世界", "")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	b, rateB, err := p.Synthesize(context.Background(), "你好世界", "")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}

	if rateA != placeholderSampleRate || rateB != placeholderSampleRate {
		t.Fatalf("unexpected sample rates %d/%d", rateA, rateB)
	}
	if len(a) != len(b) {
		t.Fatalf("same text produced different lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same text produced different samples at %d", i)
		}
	}
}

func TestPlaceholder_EmptyTextStillProducesAudio(t *testing.T) {
	p := NewPlaceholderEngine()
	samples, rate, err := p.Synthesize(context.Background(), "", "")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("empty text must still produce audio")
	}
	if rate != placeholderSampleRate {
		t.Fatalf("unexpected rate %d", rate)
	}
}

func TestPlaceholder_SyllableCount(t *testing.T) {
	p := NewPlaceholderEngine()

	cases := []struct {
		text string
		want int
	}{
		{"你好", 2},
		{"你好123", 3},    // 两个汉字 + 一个数字串
		{"hello 世界", 3}, // 字母串 + 两个汉字
		{"，。！", 0},       // 纯标点无音节
		{"abc,def", 2},  // 标点切断字母串
	}
	for _, c := range cases {
		got := len(p.syllables(c.text))
		if got != c.want {
			t.Errorf("syllables(%q): expected %d, got %d", c.text, c.want, got)
		}
	}
}

func TestPlaceholder_LengthGrowsWithText(t *testing.T) {
	p := NewPlaceholderEngine()
	short, _, _ := p.Synthesize(context.Background(), "你", "")
	long, _, _ := p.Synthesize(context.Background(), "你好世界", "")
	if len(long) <= len(short) {
		t.Fatalf("longer text should produce longer audio: %d <= %d", len(long), len(short))
	}
}

func TestPlaceholder_CancelledContext(t *testing.T) {
	p := NewPlaceholderEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := p.Synthesize(ctx, "你好", ""); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestSyllablePitch_Deterministic(t *testing.T) {
	if syllablePitch("ni") != syllablePitch("ni") {
		t.Fatal("pitch must be deterministic")
	}
	if p := syllablePitch("hao"); p < 220.0 || p >= 440.0 {
		t.Fatalf("pitch %f outside expected octave [220, 440)", p)
	}
}
