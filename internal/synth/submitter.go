package synth

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/solos99999/txt2voice/internal/logger"
)

// Completion 一次后台合成的完成通知。
type Completion struct {
	Seq     uint64
	ReqID   string
	Request Request
	Result  *Result
	Err     error
}

// Submitter 把阻塞的合成调用派发到后台 goroutine，
// 通过 channel 把完成结果送回界面线程。
// 并发语义是"最后请求获胜"：每次 Submit 递增请求序号并取消上一个
// 在途请求；过期请求的完成结果直接丢弃，不会送达界面。
type Submitter struct {
	orch *Orchestrator

	seq atomic.Uint64
	ch  chan Completion

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewSubmitter 创建后台派发器。
func NewSubmitter(orch *Orchestrator) *Submitter {
	return &Submitter{
		orch: orch,
		ch:   make(chan Completion, 1),
	}
}

// Completions 返回完成通知 channel，由界面侧消费。
func (s *Submitter) Completions() <-chan Completion {
	return s.ch
}

// Submit 派发一次合成请求，立即返回请求序号。
// 上一个在途请求会被取消，其结果被废弃。
func (s *Submitter) Submit(req Request) uint64 {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	seq := s.seq.Add(1)
	reqID := uuid.NewString()
	logger.Debugf("[synth] 提交请求 #%d (%s): engine=%s voice=%s", seq, reqID, req.Engine, req.Voice)

	go func() {
		res, err := s.orch.Synthesize(ctx, req)

		// 过期检查：期间有新请求提交则丢弃本次结果
		if seq != s.seq.Load() {
			logger.Debugf("[synth] 请求 #%d 已过期，结果被丢弃", seq)
			return
		}

		s.deliver(Completion{Seq: seq, ReqID: reqID, Request: req, Result: res, Err: err})
	}()

	return seq
}

// Latest 返回最近一次提交的请求序号。
func (s *Submitter) Latest() uint64 {
	return s.seq.Load()
}

// deliver 投递完成通知。channel 中残留的旧通知先被挤掉，
// 保证消费端下一次收到的一定是最新结果。
func (s *Submitter) deliver(c Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for {
		select {
		case s.ch <- c:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// Close 取消在途请求并关闭通知 channel。
func (s *Submitter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	close(s.ch)
}
