package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrFormat 表示样本缓冲区损坏或不是合法的音频数据。
var ErrFormat = errors.New("音频数据格式无效")

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// ValidateSamples 检查样本缓冲区是否有效：
// 非空、不含 NaN/Inf。无效时返回包装了 ErrFormat 的错误。
func ValidateSamples(samples []float32) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: 样本缓冲区为空", ErrFormat)
	}
	for i, s := range samples {
		f := float64(s)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: 样本 %d 为 NaN/Inf", ErrFormat, i)
		}
	}
	return nil
}

// EncodeWAV 将 float32 样本编码为 16-bit PCM WAV 写入 w。
func EncodeWAV(w io.Writer, samples []float32, sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("%w: 非法采样率 %d 或声道数 %d", ErrFormat, sampleRate, channels)
	}
	if err := ValidateSamples(samples); err != nil {
		return err
	}

	pcm := Float32ToBytes(Normalize(samples))
	dataLen := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM fmt 块长度
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM 编码
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("写入 WAV 头失败: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("写入 PCM 数据失败: %w", err)
	}
	return nil
}

// WriteWAV 将样本写入 path 指定的 WAV 文件。
// 文件句柄在所有路径上都会关闭；写入失败时删除残留文件。
func WriteWAV(path string, samples []float32, sampleRate, channels int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建音频文件 %s 失败: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("关闭音频文件 %s 失败: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return EncodeWAV(f, samples, sampleRate, channels)
}

// ReadWAV 读取 16-bit PCM WAV 文件，返回单声道 float32 样本和采样率。
// 只支持本程序自己写出的简单 44 字节头格式。
func ReadWAV(path string) ([]float32, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("读取音频文件 %s 失败: %w", path, err)
	}
	if len(data) < wavHeaderSize {
		return nil, 0, fmt.Errorf("%w: 文件 %s 过小", ErrFormat, path)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("%w: 文件 %s 不是 WAV", ErrFormat, path)
	}

	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	if channels <= 0 || sampleRate <= 0 {
		return nil, 0, fmt.Errorf("%w: 文件 %s 头部损坏", ErrFormat, path)
	}

	pcm := data[wavHeaderSize:]
	if channels == 2 {
		return StereoBytesToMono(pcm), sampleRate, nil
	}
	return BytesToFloat32(pcm), sampleRate, nil
}
