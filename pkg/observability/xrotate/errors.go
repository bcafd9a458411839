package xrotate

import "errors"

var (
	// ErrEmptyFilename 文件名为空。
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize 单文件大小超出 1~1024 MB。
	ErrInvalidMaxSize = errors.New("xrotate: invalid max size")

	// ErrInvalidMaxBackups 备份数量超出 0~256。
	ErrInvalidMaxBackups = errors.New("xrotate: invalid max backups")

	// ErrInvalidMaxAge 保留天数超出 0~365。
	ErrInvalidMaxAge = errors.New("xrotate: invalid max age")

	// ErrNoCleanupPolicy 备份数量和保留天数同时为 0，备份会无限增长。
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")

	// ErrClosed 文件已关闭。
	ErrClosed = errors.New("xrotate: file is closed")
)
