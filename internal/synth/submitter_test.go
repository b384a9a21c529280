package synth

import (
	"context"
	"testing"
	"time"
)

// blockingEngine 测试用引擎：收到请求后阻塞，直到 release 关闭或 ctx 取消。
type blockingEngine struct {
	name    string
	release chan struct{}
}

func (b *blockingEngine) Name() string { return b.name }

func (b *blockingEngine) Synthesize(ctx context.Context, text, voice string) ([]float32, int, error) {
	select {
	case <-b.release:
		return []float32{0.1, 0.2}, 22050, nil
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

func TestSubmitter_DeliversCompletion(t *testing.T) {
	edge := &stubEngine{name: "edge", samples: []float32{0.1}, rate: 22050}
	sub := NewSubmitter(newTestOrchestrator(t, Engines{Edge: edge}))
	defer sub.Close()

	seq := sub.Submit(Request{Engine: "edge", Voice: "zh-CN-XiaoxiaoNeural", Text: "你好"})

	select {
	case c := <-sub.Completions():
		if c.Seq != seq {
			t.Fatalf("expected seq %d, got %d", seq, c.Seq)
		}
		if c.Err != nil {
			t.Fatalf("unexpected error: %v", c.Err)
		}
		if c.Result == nil || len(c.Result.Samples) == 0 {
			t.Fatal("expected a result with samples")
		}
		if c.ReqID == "" {
			t.Fatal("expected non-empty request id")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
}

func TestSubmitter_LastRequestWins(t *testing.T) {
	// 第一个请求阻塞在引擎中；第二个请求提交后第一个被取消，
	// 界面侧只能收到第二个请求的完成通知。
	release := make(chan struct{})
	edge := &blockingEngine{name: "edge", release: release}
	sub := NewSubmitter(newTestOrchestrator(t, Engines{Edge: edge}))
	defer sub.Close()

	first := sub.Submit(Request{Engine: "edge", Voice: "zh-CN-XiaoxiaoNeural", Text: "第一条"})
	second := sub.Submit(Request{Engine: "edge", Voice: "zh-CN-XiaoxiaoNeural", Text: "第二条"})
	if second <= first {
		t.Fatalf("sequence must increase: %d then %d", first, second)
	}
	close(release)

	select {
	case c := <-sub.Completions():
		if c.Seq != second {
			t.Fatalf("stale completion leaked: expected seq %d, got %d", second, c.Seq)
		}
		if c.Request.Text != "第二条" {
			t.Fatalf("expected latest request, got %q", c.Request.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for completion")
	}

	// 第一个请求的结果不应随后到达
	select {
	case c := <-sub.Completions():
		t.Fatalf("unexpected second completion: seq=%d", c.Seq)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubmitter_Latest(t *testing.T) {
	edge := &stubEngine{name: "edge", samples: []float32{0.1}, rate: 22050}
	sub := NewSubmitter(newTestOrchestrator(t, Engines{Edge: edge}))
	defer sub.Close()

	if sub.Latest() != 0 {
		t.Fatal("expected zero before any submit")
	}
	seq := sub.Submit(Request{Engine: "edge", Voice: "zh-CN-XiaoxiaoNeural", Text: "你好"})
	if sub.Latest() != seq {
		t.Fatalf("expected latest %d, got %d", seq, sub.Latest())
	}
}

func TestSubmitter_CloseCancelsInflight(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	edge := &blockingEngine{name: "edge", release: release}
	sub := NewSubmitter(newTestOrchestrator(t, Engines{Edge: edge}))

	sub.Submit(Request{Engine: "edge", Voice: "zh-CN-XiaoxiaoNeural", Text: "你好"})
	sub.Close()

	// 关闭后 channel 被关闭，消费端读到零值
	if _, ok := <-sub.Completions(); ok {
		t.Fatal("expected closed channel after Close")
	}
	// 重复关闭必须安全
	sub.Close()
}
