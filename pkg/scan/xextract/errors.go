package xextract

import "errors"

var (
	// ErrClosed Extractor 已关闭。
	ErrClosed = errors.New("xextract: extractor is closed")

	// ErrNoFamilies 没有配置任何地址族。
	ErrNoFamilies = errors.New("xextract: no address family configured")

	// ErrPanic 提取过程 panic，已恢复。
	ErrPanic = errors.New("xextract: extraction panicked")

	// ErrNoPaths Watcher 没有要监视的文件。
	ErrNoPaths = errors.New("xextract: no paths to watch")

	// ErrWatcherRunning Watcher 已在运行或已停止。
	ErrWatcherRunning = errors.New("xextract: watcher already running or stopped")
)
