package xextract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
	"github.com/omeyang/xipscan/pkg/util/xfile"
)

// DefaultDebounce 同一文件连续变化合并为一次提取的时间窗口。
const DefaultDebounce = 100 * time.Millisecond

// 文件暂时不存在时的默认重读参数。
const (
	DefaultReadAttempts = 3
	DefaultReadDelay    = 50 * time.Millisecond
)

// WatchOption 配置 [Watcher]。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce     time.Duration
	initialScan  bool
	readAttempts uint
	readDelay    time.Duration
}

// WithDebounce 设置防抖窗口，<= 0 时使用 [DefaultDebounce]。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithInitialScan 设置 Run 开始时是否先提取一遍所有文件，默认开启。
func WithInitialScan(enable bool) WatchOption {
	return func(o *watchOptions) {
		o.initialScan = enable
	}
}

// WithReadRetry 设置文件暂时不存在时的读取次数与间隔。
// rename 式保存会在新文件就位前短暂删除原文件。attempts < 1 视为 1，即不重试。
func WithReadRetry(attempts int, delay time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.readAttempts = uint(max(attempts, 1))
		if delay >= 0 {
			o.readDelay = delay
		}
	}
}

// Watcher 监视文件变化并重新提取。
//
// 监视的是文件所在目录而不是文件本身，编辑器先写临时文件再 rename 的保存方式也能捕获。
// 回调只在 Run 所在的 goroutine 中串行调用。
type Watcher struct {
	ex       *Extractor
	fsw      *fsnotify.Watcher
	onResult func(Result)
	opts     watchOptions
	logger   xlog.Logger

	// 绝对路径 → 调用方给出的路径
	targets map[string]string
	order   []string

	pending chan string
	stop    chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer

	started   atomic.Bool
	stopOnce  sync.Once
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher 为 paths 创建 Watcher。onResult 不能为 nil。
func NewWatcher(ex *Extractor, paths []string, onResult func(Result), opts ...WatchOption) (*Watcher, error) {
	if ex == nil {
		return nil, errors.New("xextract: nil extractor")
	}
	if onResult == nil {
		return nil, errors.New("xextract: nil result callback")
	}
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	o := watchOptions{
		debounce:     DefaultDebounce,
		initialScan:  true,
		readAttempts: DefaultReadAttempts,
		readDelay:    DefaultReadDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	targets := make(map[string]string, len(paths))
	order := make([]string, 0, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		clean, err := xfile.SanitizePath(p)
		if err != nil {
			return nil, fmt.Errorf("xextract: watch %q: %w", p, err)
		}
		abs, err := filepath.Abs(clean)
		if err != nil {
			return nil, fmt.Errorf("xextract: watch %q: %w", p, err)
		}
		if _, dup := targets[abs]; dup {
			continue
		}
		targets[abs] = p
		order = append(order, abs)
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xextract: create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return nil, errors.Join(fmt.Errorf("xextract: watch directory %s: %w", dir, err), fsw.Close())
		}
	}

	return &Watcher{
		ex:       ex,
		fsw:      fsw,
		onResult: onResult,
		opts:     o,
		logger:   ex.logger,
		targets:  targets,
		order:    order,
		pending:  make(chan string),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run 阻塞直到 ctx 结束（返回 ctx.Err()）或 Stop 被调用（返回 nil）。
// 只能调用一次。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer w.shutdown()

	select {
	case <-w.stop:
		return nil
	default:
	}

	if w.opts.initialScan {
		for _, abs := range w.order {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.extract(ctx, abs)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watch error", xlog.Err(err))
		case abs := <-w.pending:
			w.extract(ctx, abs)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	if _, ok := w.targets[abs]; !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[abs]; ok {
		t.Stop()
	}
	w.timers[abs] = time.AfterFunc(w.opts.debounce, func() {
		select {
		case w.pending <- abs:
		case <-w.done:
		}
	})
}

func (w *Watcher) extract(ctx context.Context, abs string) {
	name := w.targets[abs]
	res, err := retry.NewWithData[Result](
		retry.Context(ctx),
		retry.Attempts(w.opts.readAttempts),
		retry.Delay(w.opts.readDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, fs.ErrNotExist) }),
	).Do(func() (Result, error) {
		return w.ex.ExtractFile(ctx, name)
	})
	if err != nil {
		res = Result{Source: name, Err: err}
		w.logger.Warn(xlog.ContextWithSource(ctx, name), "extract failed", xlog.Err(err))
	}
	w.onResult(res)
}

// Stop 让 Run 返回；Run 未启动时直接释放资源。可重复调用。
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })
	if !w.started.Load() {
		return w.closeFS()
	}
	<-w.done
	return w.closeErr
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	_ = w.closeFS()
	close(w.done)
}

func (w *Watcher) closeFS() error {
	w.closeOnce.Do(func() { w.closeErr = w.fsw.Close() })
	return w.closeErr
}
