package xpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
)

const (
	maxWorkers   = 1024
	maxQueueSize = 1 << 20
)

var _ io.Closer = (*Pool[int])(nil)

// Pool 泛型 worker pool。
type Pool[T any] struct {
	handler func(T)
	opts    options[T]
	workers int

	queue   chan T
	stopped chan struct{}
	// mu 保证 close(queue) 不与正在进行的发送并发
	mu        sync.RWMutex
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New 创建并启动 pool。
func New[T any](workers, queueSize int, handler func(T), opts ...Option[T]) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueSize, queueSize)
	}

	o := options[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}
	if o.name != "" {
		o.logger = o.logger.With(xlog.Component(o.name))
	}

	p := &Pool[T]{
		handler: handler,
		opts:    o,
		workers: workers,
		queue:   make(chan T, queueSize),
		stopped: make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p, nil
}

// worker 只在 queue 关闭后退出，保证 Close 前入队的任务都被处理。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

func (p *Pool[T]) run(task T) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		p.opts.logger.Error(context.Background(), "xpool: handler panic recovered",
			slog.Any("panic", r),
			slog.String("task_type", fmt.Sprintf("%T", task)),
			slog.String("stack", string(debug.Stack())))
		if p.opts.onPanic != nil {
			p.opts.onPanic(task, r)
		}
	}()
	p.handler(task)
}

// Submit 提交任务。队列满时阻塞，直到入队、ctx 结束或 pool 关闭。
func (p *Pool[T]) Submit(ctx context.Context, task T) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	select {
	case <-p.stopped:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	case p.queue <- task:
		return nil
	}
}

// TrySubmit 非阻塞提交，队列满时返回 [ErrQueueFull]。
func (p *Pool[T]) TrySubmit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close 停止接收任务，等待已入队任务处理完毕。可重复调用。
func (p *Pool[T]) Close() error {
	p.closeOnce.Do(func() {
		close(p.stopped)
		p.mu.Lock()
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
	})
	return nil
}

// Workers 返回 worker 数量。
func (p *Pool[T]) Workers() int { return p.workers }

// QueueSize 返回队列容量。
func (p *Pool[T]) QueueSize() int { return cap(p.queue) }
