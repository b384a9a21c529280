package tts

import (
	"errors"
	"strings"
)

// 错误分类。调用方用 errors.Is 判断失败类型并决定降级策略：
// 配置错误降级到内置引擎集合，本地推理失败降级到占位合成，
// 网络错误原样上报给用户（不自动重试）。
var (
	// ErrConfig 引擎描述文件缺失或损坏。
	ErrConfig = errors.New("引擎配置无效")
	// ErrInvalidSelection 所选语音不属于所选引擎。
	ErrInvalidSelection = errors.New("语音与引擎不匹配")
	// ErrNetwork 云端引擎不可达或请求失败。
	ErrNetwork = errors.New("网络错误")
	// ErrInference 本地模型推理失败（模型未加载、字符不支持等）。
	ErrInference = errors.New("本地推理失败")
)

// IsNetworkError 判断底层错误是否为网络错误。
// 云端引擎的 SDK 不提供统一的错误类型，只能按错误文本分类。
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	errStr := strings.ToLower(err.Error())

	networkErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
		"403",
		"invalid response status",
	}

	for _, pattern := range networkErrors {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
