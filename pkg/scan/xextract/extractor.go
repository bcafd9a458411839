package xextract

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go4.org/netipx"

	"github.com/omeyang/xipscan/pkg/observability/xlog"
	"github.com/omeyang/xipscan/pkg/util/xfile"
	"github.com/omeyang/xipscan/pkg/util/xlru"
	"github.com/omeyang/xipscan/pkg/util/xnet"
	"github.com/omeyang/xipscan/pkg/util/xpool"
)

// Source 一个待提取的输入。Name 用于日志与输出，Data 为 nil 表示缺失输入。
type Source struct {
	Name string
	Data []byte
}

// Result 一个输入的提取结果。
type Result struct {
	Source  string
	Matches []xnet.Match
	Err     error
	Cached  bool
}

// cacheKey 内容哈希加长度加地址族掩码
type cacheKey struct {
	sum    uint64
	size   int
	family uint8
}

type job struct {
	ctx     context.Context
	path    string
	src     Source
	slot    *Result
	pending *sync.WaitGroup
}

// Extractor 并发安全的地址提取器，必须通过 [New] 创建并在用完后 Close。
type Extractor struct {
	families []xnet.Version
	mask     uint8
	family   string
	ranges   *netipx.IPSet
	maxBytes int64
	logger   xlog.Logger

	// beforeHandle 在 worker 处理任务前调用，仅测试使用。
	beforeHandle func(Source)

	cache  *xlru.Cache[cacheKey, []xnet.Match]
	pool   *xpool.Pool[job]
	closed atomic.Bool
	once   sync.Once
}

// New 创建 Extractor。
func New(opts ...Option) (*Extractor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	families, mask, err := normalizeFamilies(o.families)
	if err != nil {
		return nil, err
	}
	if o.cacheSize < 0 {
		return nil, fmt.Errorf("xextract: cache: %w", xlru.ErrInvalidSize)
	}
	logger := o.logger
	if logger == nil {
		logger = xlog.Default()
	}
	logger = logger.With(xlog.Component("xextract"))

	e := &Extractor{
		families: families,
		mask:     mask,
		family:   familyName(families),
		ranges:   o.ranges,
		maxBytes: o.maxBytes,
		logger:   logger,
	}

	if o.cacheSize > 0 {
		e.cache, err = xlru.New[cacheKey, []xnet.Match](o.cacheSize, o.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("xextract: cache: %w", err)
		}
	}

	e.pool, err = xpool.New(o.workers, o.queueSize, e.handle,
		xpool.WithLogger[job](logger),
		xpool.WithName[job]("xextract-pool"),
		xpool.WithPanicHandler(func(j job, r any) {
			*j.slot = Result{Source: j.src.Name, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
			j.pending.Done()
		}),
	)
	if err != nil {
		if e.cache != nil {
			e.cache.Close()
		}
		return nil, fmt.Errorf("xextract: pool: %w", err)
	}
	return e, nil
}

func normalizeFamilies(in []xnet.Version) ([]xnet.Version, uint8, error) {
	var mask uint8
	out := make([]xnet.Version, 0, 2)
	for _, v := range in {
		bit, err := familyBit(v)
		if err != nil {
			return nil, 0, err
		}
		if mask&bit == 0 {
			mask |= bit
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, 0, ErrNoFamilies
	}
	return out, mask, nil
}

func familyBit(v xnet.Version) (uint8, error) {
	switch v {
	case xnet.V4:
		return 1, nil
	case xnet.V6:
		return 2, nil
	default:
		return 0, fmt.Errorf("xextract: %w: %d", xnet.ErrInvalidVersion, v)
	}
}

// familyName 返回日志中使用的地址族名：ipv4、ipv6 或 all。
func familyName(families []xnet.Version) string {
	if len(families) > 1 {
		return "all"
	}
	return strings.ToLower(families[0].String())
}

// Families 返回扫描的地址族。
func (e *Extractor) Families() []xnet.Version {
	return slices.Clone(e.families)
}

// Extract 提取单个输入中的地址。
//
// 缺失输入（Data 为 nil）返回 xnet.ErrNilInput；空输入返回空结果。
// 返回的 Matches 属于调用方，可以修改。
func (e *Extractor) Extract(ctx context.Context, src Source) (Result, error) {
	res := e.extract(ctx, src)
	return res, res.Err
}

func (e *Extractor) extract(ctx context.Context, src Source) Result {
	res := Result{Source: src.Name}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.closed.Load() {
		res.Err = ErrClosed
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if src.Data == nil {
		res.Err = fmt.Errorf("xextract: %s: %w", src.Name, xnet.ErrNilInput)
		return res
	}

	ctx = xlog.ContextWithSource(ctx, src.Name)
	start := time.Now()
	key := cacheKey{sum: xxhash.Sum64(src.Data), size: len(src.Data), family: e.mask}
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			res.Matches = slices.Clone(cached)
			res.Cached = true
			e.logDone(ctx, res, len(src.Data), start)
			return res
		}
	}

	res.Matches = e.scan(string(src.Data))
	if e.cache != nil {
		e.cache.Set(key, slices.Clone(res.Matches))
	}
	e.logDone(ctx, res, len(src.Data), start)
	return res
}

// scan 按地址族扫描并按偏移合并，同一偏移 IPv4 在前。
func (e *Extractor) scan(text string) []xnet.Match {
	var merged []xnet.Match
	for _, v := range e.families {
		matches, _ := xnet.Scan(text, v) // 地址族已在 New 中校验
		merged = append(merged, matches...)
	}
	if len(e.families) > 1 {
		slices.SortStableFunc(merged, func(a, b xnet.Match) int {
			if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
				return c
			}
			return cmp.Compare(a.Version, b.Version)
		})
	}
	merged = xnet.FilterMatches(merged, e.ranges)
	if merged == nil {
		merged = []xnet.Match{}
	}
	return merged
}

func (e *Extractor) logDone(ctx context.Context, res Result, size int, start time.Time) {
	if !e.debugEnabled(ctx) {
		return
	}
	e.logger.Debug(ctx, "extracted",
		xlog.Family(e.family),
		xlog.Matches(len(res.Matches)),
		xlog.Bytes(size),
		xlog.Cached(res.Cached),
		xlog.Duration(time.Since(start)))
}

func (e *Extractor) debugEnabled(ctx context.Context) bool {
	if l, ok := e.logger.(xlog.Leveler); ok {
		return l.Enabled(ctx, xlog.LevelDebug)
	}
	return true
}

// ExtractFile 读取并提取文件。Result.Source 为传入的 path。
func (e *Extractor) ExtractFile(ctx context.Context, path string) (Result, error) {
	data, err := xfile.ReadLimited(path, e.maxBytes)
	if err != nil {
		if e.debugEnabled(ctx) {
			e.logger.Debug(ctx, "read failed", xlog.Path(path), xlog.Err(err))
		}
		res := Result{Source: path, Err: fmt.Errorf("xextract: read %s: %w", path, err)}
		return res, res.Err
	}
	return e.Extract(ctx, Source{Name: path, Data: data})
}

// ExtractReader 读取 r 的全部内容并提取，name 用作 Result.Source。
// nil reader 返回 xnet.ErrNilInput。
func (e *Extractor) ExtractReader(ctx context.Context, name string, r io.Reader) (Result, error) {
	res := Result{Source: name}
	if r == nil {
		res.Err = fmt.Errorf("xextract: %s: %w", name, xnet.ErrNilInput)
		return res, res.Err
	}
	if e.maxBytes > 0 {
		r = io.LimitReader(r, e.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		res.Err = fmt.Errorf("xextract: read %s: %w", name, err)
		return res, res.Err
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		res.Err = fmt.Errorf("xextract: read %s: %w", name, xfile.ErrTooLarge)
		return res, res.Err
	}
	return e.Extract(ctx, Source{Name: name, Data: data})
}

// ExtractAll 并发提取多个输入，结果与 sources 一一对应。
//
// 单个输入的错误写入对应 Result.Err，所有错误以 errors.Join 汇总返回。
// ctx 结束后尚未开始的输入以 ctx 的错误结束。
func (e *Extractor) ExtractAll(ctx context.Context, sources []Source) ([]Result, error) {
	jobs := make([]job, len(sources))
	for i, src := range sources {
		jobs[i] = job{src: src}
	}
	return e.fanOut(ctx, jobs)
}

// ExtractFiles 与 ExtractAll 相同，但文件的读取也在 worker 中并发进行。
func (e *Extractor) ExtractFiles(ctx context.Context, paths []string) ([]Result, error) {
	jobs := make([]job, len(paths))
	for i, p := range paths {
		jobs[i] = job{path: p, src: Source{Name: p}}
	}
	return e.fanOut(ctx, jobs)
}

func (e *Extractor) fanOut(ctx context.Context, jobs []job) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.closed.Load() {
		return nil, ErrClosed
	}

	results := make([]Result, len(jobs))
	var pending sync.WaitGroup
	for i := range jobs {
		j := jobs[i]
		j.ctx, j.slot, j.pending = ctx, &results[i], &pending
		pending.Add(1)
		if err := e.pool.Submit(ctx, j); err != nil {
			pending.Done()
			if errors.Is(err, xpool.ErrPoolStopped) {
				err = ErrClosed
			}
			results[i] = Result{Source: j.src.Name, Err: err}
		}
	}
	pending.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if e.debugEnabled(ctx) {
		e.logger.Debug(ctx, "batch done",
			xlog.Count(len(jobs)),
			slog.Int("failed", len(errs)))
	}
	return results, errors.Join(errs...)
}

func (e *Extractor) handle(j job) {
	if e.beforeHandle != nil {
		e.beforeHandle(j.src)
	}
	if j.path != "" {
		*j.slot, _ = e.ExtractFile(j.ctx, j.path)
	} else {
		*j.slot = e.extract(j.ctx, j.src)
	}
	j.pending.Done()
}

// CacheStats 返回缓存统计，未启用缓存时返回零值。
func (e *Extractor) CacheStats() xlru.Stats {
	if e.cache == nil {
		return xlru.Stats{}
	}
	return e.cache.Stats()
}

// Close 等待进行中的任务结束并释放资源，可重复调用。
func (e *Extractor) Close() error {
	e.once.Do(func() {
		// 先排空队列，已提交的任务正常完成
		_ = e.pool.Close()
		e.closed.Store(true)
		if e.cache != nil {
			e.cache.Close()
		}
	})
	return nil
}
