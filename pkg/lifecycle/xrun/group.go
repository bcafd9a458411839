package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
)

// Group 一组共享取消的任务。Go、GoWithName、Cancel 可并发调用；Wait 只调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	logger   xlog.Logger
	opts     options
}

// NewGroup 创建 Group 并返回其 ctx。nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = xlog.Default()
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		logger:   logger.With(xlog.Component(o.name)),
		opts:     o,
	}, egCtx
}

// Go 启动任务。fn 返回非 nil 错误时取消其余任务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，并在任务开始和结束时记录日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		task := slog.String("task", name)
		g.logger.Debug(g.ctx, "task starting", task)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn(g.ctx, "task exited with error", task, xlog.Err(err))
		} else {
			g.logger.Debug(g.ctx, "task stopped", task)
		}
		return err
	})
}

// Wait 等待全部任务结束。
//
// 返回第一个非取消类错误；若 Group 经 Cancel(cause) 或信号退出，返回该 cause；
// 单纯的取消返回 nil。任务自身产生的 context.Canceled（Group 未被取消）原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	cancelled := g.causeCtx.Err() != nil
	cause := context.Cause(g.causeCtx)
	explicit := cancelled && cause != nil && !errors.Is(cause, context.Canceled)

	switch {
	case errors.Is(err, context.Canceled) && cancelled:
		if explicit {
			return cause
		}
		return nil
	case err == nil && explicit:
		return cause
	default:
		return err
	}
}

// Cancel 以 cause 取消全部任务。cause 不应包装 context.Canceled，否则 Wait 视其为普通取消。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 ctx。
func (g *Group) Context() context.Context {
	return g.ctx
}

// Run 运行 tasks 并监听信号，收到信号后以 [*SignalError] 取消全部任务。
// 所有 tasks 返回后信号监听随之结束。
func Run(ctx context.Context, opts []Option, tasks ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		g.Go(func(ctx context.Context) error {
			defer wg.Done()
			if task == nil {
				return ErrNilFunc
			}
			return task(ctx)
		})
	}
	tasksDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(tasksDone)
	}()

	sigs := g.opts.signals
	if len(sigs) == 0 {
		sigs = DefaultSignals()
	}
	g.Go(func(ctx context.Context) error {
		src := g.opts.sigSource
		if src == nil {
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, sigs...)
			defer signal.Stop(ch)
			src = ch
		}
		select {
		case sig := <-src:
			g.logger.Info(ctx, "received signal", slog.String("signal", sig.String()))
			g.cancel(&SignalError{Signal: sig})
			return nil
		case <-tasksDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return g.Wait()
}
