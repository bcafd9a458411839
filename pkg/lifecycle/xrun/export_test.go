package xrun

import "os"

// withSignalSource 用 c 替代真实信号
func withSignalSource(c <-chan os.Signal) Option {
	return func(o *options) {
		o.sigSource = c
	}
}
