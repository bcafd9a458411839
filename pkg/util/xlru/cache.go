package xlru

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxSize = 1 << 20

// Stats 命中统计。
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// Cache 带 TTL 的 LRU 缓存，必须通过 [New] 创建。
// Close 之后读操作总是未命中，写操作被忽略。
type Cache[K comparable, V any] struct {
	lru       *expirable.LRU[K, V]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// New 创建缓存。ttl 为 0 表示条目不过期。
func New[K comparable, V any](size int, ttl time.Duration) (*Cache[K, V], error) {
	if size <= 0 || size > maxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if ttl < 0 {
		return nil, ErrInvalidTTL
	}
	c := &Cache[K, V]{}
	c.lru = expirable.NewLRU[K, V](size, nil, ttl)
	return c, nil
}

// Get 读取并刷新 LRU 顺序。
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set 写入，key 已存在时覆盖并刷新 TTL。返回是否淘汰了最旧条目。
func (c *Cache[K, V]) Set(key K, value V) bool {
	if c.closed.Load() {
		return false
	}
	evicted := c.lru.Add(key, value)
	if evicted {
		c.evictions.Add(1)
	}
	return evicted
}

// Delete 删除条目，返回 key 是否存在。
func (c *Cache[K, V]) Delete(key K) bool {
	if c.closed.Load() {
		return false
	}
	return c.lru.Remove(key)
}

// Len 返回条目数，可能包含已过期但尚未清理的条目。
func (c *Cache[K, V]) Len() int {
	if c.closed.Load() {
		return 0
	}
	return c.lru.Len()
}

// Stats 返回累计统计。
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.Len(),
	}
}

// Close 清空缓存并停止后台清理 goroutine，可重复调用。
func (c *Cache[K, V]) Close() {
	c.closed.Store(true)
	c.closeOnce.Do(func() {
		c.lru.Purge()
		stopCleanup(c.lru)
	})
}

// stopCleanup 关闭 expirable.LRU 未导出的 done 通道，使清理 goroutine 退出。
// golang-lru v2.0.7 没有公开的停止方法；字段名或类型变化时返回 false。
// 升级 golang-lru 后需重新确认字段。
func stopCleanup(lru any) (stopped bool) {
	defer func() {
		if recover() != nil {
			stopped = false
		}
	}()

	v := reflect.ValueOf(lru)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return false
	}
	done := v.Elem().FieldByName("done")
	if !done.IsValid() || done.Type() != reflect.TypeFor[chan struct{}]() || done.IsNil() {
		return false
	}
	ch := *(*chan struct{})(unsafe.Pointer(done.UnsafeAddr())) //nolint:gosec // 访问上游未导出字段
	close(ch)
	return true
}
