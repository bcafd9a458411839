package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
)

// DefaultSignals 返回默认监听的信号：SIGINT、SIGTERM、SIGHUP。每次返回新切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}
}

// Option 配置 Group 与 Run。
type Option func(*options)

type options struct {
	logger  xlog.Logger
	name    string
	signals []os.Signal
	// sigSource 非 nil 时替代 signal.Notify，仅测试使用
	sigSource <-chan os.Signal
}

func defaultOptions() options {
	return options{name: "xrun"}
}

// WithLogger 设置生命周期日志的 logger，默认 xlog.Default()。nil 被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置出现在日志 component 字段的名称，默认 "xrun"。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run 监听的信号，空列表表示使用 [DefaultSignals]。
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}
