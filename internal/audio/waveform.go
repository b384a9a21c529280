package audio

// Peak 是一段样本的波形包络点（最小值/最大值）。
type Peak struct {
	Min float32
	Max float32
}

// Waveform 将样本降采样为 buckets 个包络点，用于波形展示。
// 每个桶记录该区间内的最小/最大幅值，比简单抽样更能保留瞬态。
// 样本数不足 buckets 时每个样本占一个桶。
func Waveform(samples []float32, buckets int) []Peak {
	if buckets <= 0 || len(samples) == 0 {
		return nil
	}
	if buckets > len(samples) {
		buckets = len(samples)
	}

	peaks := make([]Peak, buckets)
	bucketSize := float64(len(samples)) / float64(buckets)

	for b := 0; b < buckets; b++ {
		start := int(float64(b) * bucketSize)
		end := int(float64(b+1) * bucketSize)
		if end <= start {
			end = start + 1
		}
		if end > len(samples) {
			end = len(samples)
		}

		p := Peak{Min: samples[start], Max: samples[start]}
		for _, s := range samples[start:end] {
			if s < p.Min {
				p.Min = s
			}
			if s > p.Max {
				p.Max = s
			}
		}
		peaks[b] = p
	}
	return peaks
}
