package xlru

import "errors"

var (
	// ErrInvalidSize 缓存大小不在 [1, 1<<20] 内。
	ErrInvalidSize = errors.New("xlru: invalid size")

	// ErrInvalidTTL TTL 为负。
	ErrInvalidTTL = errors.New("xlru: TTL must not be negative")
)
