package audio

import "testing"

func TestWaveform_Envelope(t *testing.T) {
	// 4 个样本分到 2 个桶，每桶记录最小/最大值
	samples := []float32{0.1, -0.9, 0.8, 0.2}
	peaks := Waveform(samples, 2)
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks, got %d", len(peaks))
	}
	if peaks[0].Min != -0.9 || peaks[0].Max != 0.1 {
		t.Fatalf("bucket 0: expected [-0.9, 0.1], got [%f, %f]", peaks[0].Min, peaks[0].Max)
	}
	if peaks[1].Min != 0.2 || peaks[1].Max != 0.8 {
		t.Fatalf("bucket 1: expected [0.2, 0.8], got [%f, %f]", peaks[1].Min, peaks[1].Max)
	}
}

func TestWaveform_FewerSamplesThanBuckets(t *testing.T) {
	peaks := Waveform([]float32{0.5, -0.5}, 10)
	if len(peaks) != 2 {
		t.Fatalf("expected bucket count clamped to sample count, got %d", len(peaks))
	}
}

func TestWaveform_EmptyInput(t *testing.T) {
	if peaks := Waveform(nil, 8); peaks != nil {
		t.Fatalf("expected nil for empty input, got %v", peaks)
	}
	if peaks := Waveform([]float32{0.1}, 0); peaks != nil {
		t.Fatalf("expected nil for zero buckets, got %v", peaks)
	}
}

func TestResample_SameRateReturnsInput(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := Resample(in, 22050, 22050)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d changed: %f != %f", i, out[i], in[i])
		}
	}
}

func TestResample_Downsample(t *testing.T) {
	in := make([]float32, 24000)
	out := Resample(in, 24000, 22050)
	if len(out) != 22050 {
		t.Fatalf("expected 22050 samples, got %d", len(out))
	}
}

func TestResample_Upsample(t *testing.T) {
	// 线性信号插值后仍应是线性的
	in := []float32{0, 1}
	out := Resample(in, 1, 2)
	if len(out) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(out))
	}
	if out[0] != 0 || out[1] != 0.5 {
		t.Fatalf("expected interpolated [0, 0.5, ...], got %v", out)
	}
}
