package xextract

import (
	"time"

	"go4.org/netipx"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
	"github.com/omeyang/xipscan/pkg/util/xnet"
)

// 默认参数
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 64
	DefaultMaxBytes  = 64 << 20
)

type options struct {
	families  []xnet.Version
	workers   int
	queueSize int
	cacheSize int
	cacheTTL  time.Duration
	ranges    *netipx.IPSet
	maxBytes  int64
	logger    xlog.Logger
}

func defaultOptions() options {
	return options{
		families:  []xnet.Version{xnet.V4, xnet.V6},
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
		maxBytes:  DefaultMaxBytes,
	}
}

// Option 配置 [Extractor]。参数在 [New] 中统一校验。
type Option func(*options)

// WithFamilies 设置扫描的地址族，重复项被忽略。
func WithFamilies(families ...xnet.Version) Option {
	return func(o *options) {
		o.families = append([]xnet.Version(nil), families...)
	}
}

// WithWorkers 设置 ExtractAll 的并发数。
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithQueueSize 设置 worker pool 的队列容量。
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithCache 启用结果缓存。size 为 0 关闭缓存；ttl 为 0 表示条目不过期。
func WithCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

// WithRanges 只保留落在 set 内的地址。nil 表示不过滤。
func WithRanges(set *netipx.IPSet) Option {
	return func(o *options) { o.ranges = set }
}

// WithMaxBytes 设置 ExtractFile 与 ExtractReader 读取的大小上限，<= 0 表示不限制。
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

// WithLogger 设置 logger，默认 xlog.Default()。nil 被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
