package xrotate

import (
	"fmt"
	"io"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xipscan/pkg/util/xfile"
)

// 默认轮转参数
const (
	DefaultMaxSizeMB  = 20
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7

	maxSizeMB  = 1024
	maxBackups = 256
	maxAgeDays = 365
)

var _ io.WriteCloser = (*File)(nil)

type config struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// Option 配置 [Open]。
type Option func(*config)

// WithMaxSize 设置单个文件的大小上限（MB），超过后自动轮转。
func WithMaxSize(mb int) Option {
	return func(c *config) { c.maxSizeMB = mb }
}

// WithMaxBackups 设置保留的备份数量，0 表示只按天数清理。
func WithMaxBackups(n int) Option {
	return func(c *config) { c.maxBackups = n }
}

// WithMaxAge 设置备份保留天数，0 表示只按数量清理。
func WithMaxAge(days int) Option {
	return func(c *config) { c.maxAgeDays = days }
}

// WithCompress 设置是否 gzip 压缩备份。
func WithCompress(compress bool) Option {
	return func(c *config) { c.compress = compress }
}

// WithLocalTime 设置备份文件名中的时间戳是否使用本地时区。
func WithLocalTime(local bool) Option {
	return func(c *config) { c.localTime = local }
}

// File 按大小轮转的日志文件，并发安全。
type File struct {
	lj     *lumberjack.Logger
	path   string
	closed atomic.Bool
}

// Open 创建轮转文件。文件本身在首次写入时才创建。
func Open(filename string, opts ...Option) (*File, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := config{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	path, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("xrotate: prepare %s: %w", path, err)
	}

	return &File{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
			LocalTime:  cfg.localTime,
		},
		path: path,
	}, nil
}

func (c *config) validate() error {
	if c.maxSizeMB <= 0 || c.maxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, c.maxSizeMB, maxSizeMB)
	}
	if c.maxBackups < 0 || c.maxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, c.maxBackups, maxBackups)
	}
	if c.maxAgeDays < 0 || c.maxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, c.maxAgeDays, maxAgeDays)
	}
	if c.maxBackups == 0 && c.maxAgeDays == 0 {
		return ErrNoCleanupPolicy
	}
	return nil
}

// Path 返回净化后的文件路径。
func (f *File) Path() string { return f.path }

// Write 实现 io.Writer。
func (f *File) Write(p []byte) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}
	n, err := f.lj.Write(p)
	if err != nil && f.closed.Load() {
		// Write 执行期间被 Close
		return n, ErrClosed
	}
	return n, err
}

// Rotate 立即轮转当前文件。
func (f *File) Rotate() error {
	if f.closed.Load() {
		return ErrClosed
	}
	return f.lj.Rotate()
}

// Close 关闭文件。重复关闭返回 [ErrClosed]。
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return ErrClosed
	}
	return f.lj.Close()
}
