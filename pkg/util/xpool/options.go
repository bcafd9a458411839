package xpool

import "github.com/omeyang/xipscan/pkg/observability/xlog"

// Option 配置 Pool。
type Option[T any] func(*options[T])

type options[T any] struct {
	logger  xlog.Logger
	name    string
	onPanic func(task T, recovered any)
}

// WithLogger 设置记录 panic 的 logger，nil 被忽略。默认使用 xlog.Default()。
func WithLogger[T any](logger xlog.Logger) Option[T] {
	return func(o *options[T]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，出现在日志的 component 字段。
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		o.name = name
	}
}

// WithPanicHandler 在 handler panic 被恢复后回调。回调自身的 panic 不再恢复。
func WithPanicHandler[T any](fn func(task T, recovered any)) Option[T] {
	return func(o *options[T]) {
		o.onPanic = fn
	}
}
