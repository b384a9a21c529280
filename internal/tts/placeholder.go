package tts

import (
	"context"
	"math"
	"unicode"

	"github.com/mozillazg/go-pinyin"

	"github.com/solos99999/txt2voice/internal/logger"
)

// placeholderSampleRate 占位合成输出的固定采样率。
const placeholderSampleRate = 22050

// PlaceholderEngine 是降级用的占位合成引擎：本地模型推理失败时，
// 用确定性的音调序列代替真实语音，保证用户总能得到一段音频。
// 每个音节对应一个短促的正弦音，音高由音节内容决定，
// 因此同样的文本永远产生同样的输出。
type PlaceholderEngine struct {
	args pinyin.Args
}

// NewPlaceholderEngine 创建占位合成引擎。
func NewPlaceholderEngine() *PlaceholderEngine {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	return &PlaceholderEngine{args: args}
}

// Name 实现 Engine 接口。
func (p *PlaceholderEngine) Name() string { return EnginePlaceholder }

// Synthesize 生成占位音频。voice 参数被忽略，永不失败（空文本也产出一个提示音）。
func (p *PlaceholderEngine) Synthesize(ctx context.Context, text, voice string) ([]float32, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	sylls := p.syllables(text)
	if len(sylls) == 0 {
		sylls = []string{"-"}
	}

	logger.Debugf("[tts] placeholder: 文本切分为 %d 个音节", len(sylls))

	const (
		toneMs = 110 // 每个音节的发声时长
		gapMs  = 40  // 音节间静音
	)
	toneLen := placeholderSampleRate * toneMs / 1000
	gapLen := placeholderSampleRate * gapMs / 1000

	samples := make([]float32, 0, len(sylls)*(toneLen+gapLen))
	for _, s := range sylls {
		samples = append(samples, toneBurst(syllablePitch(s), toneLen)...)
		samples = append(samples, make([]float32, gapLen)...)
	}

	return samples, placeholderSampleRate, nil
}

// syllables 将文本切分为音节序列：
// 汉字逐字转为拼音音节，连续的字母/数字作为一个音节，其余字符忽略。
func (p *PlaceholderEngine) syllables(text string) []string {
	var out []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			out = append(out, string(word))
			word = word[:0]
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			if py := pinyin.LazyPinyin(string(r), p.args); len(py) > 0 {
				out = append(out, py[0])
			} else {
				// 生僻字不在拼音表中，按单音节处理
				out = append(out, string(r))
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word = append(word, r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// syllablePitch 根据音节内容确定性地选择音高（Hz）。
// 基准 220Hz，按音节字节和在一个八度内取半音。
func syllablePitch(syll string) float64 {
	sum := 0
	for _, b := range []byte(syll) {
		sum += int(b)
	}
	semitone := sum % 12
	return 220.0 * math.Pow(2, float64(semitone)/12.0)
}

// toneBurst 生成指定频率的正弦音，带 5ms 淡入淡出避免爆音。
func toneBurst(freq float64, length int) []float32 {
	out := make([]float32, length)
	fade := placeholderSampleRate * 5 / 1000
	if fade*2 > length {
		fade = length / 2
	}

	for i := range out {
		v := 0.4 * math.Sin(2*math.Pi*freq*float64(i)/placeholderSampleRate)
		switch {
		case i < fade:
			v *= float64(i) / float64(fade)
		case i >= length-fade:
			v *= float64(length-1-i) / float64(fade)
		}
		out[i] = float32(v)
	}
	return out
}
