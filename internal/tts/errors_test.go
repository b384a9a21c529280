package tts

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNetworkError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrNetwork, true},
		{fmt.Errorf("%w: 请求失败", ErrNetwork), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read: i/o timeout"), true},
		{errors.New("lookup speech.platform.bing.com: no such host"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("invalid response status 403"), true},
		{errors.New("模型未加载"), false},
		{ErrInference, false},
		{ErrConfig, false},
	}
	for _, c := range cases {
		if got := IsNetworkError(c.err); got != c.want {
			t.Errorf("IsNetworkError(%v): expected %v, got %v", c.err, c.want, got)
		}
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrConfig, ErrInvalidSelection, ErrNetwork, ErrInference}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinel %d matches sentinel %d", i, j)
			}
		}
	}
}
