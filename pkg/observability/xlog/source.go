package xlog

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNilHandler SourceHandler 的底层 handler 为 nil
var ErrNilHandler = errors.New("xlog: base handler is nil")

type sourceKey struct{}

// ContextWithSource 返回携带输入来源名的 context。空名返回原 ctx。
func ContextWithSource(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey{}, name)
}

// SourceFromContext 取出 [ContextWithSource] 放入的来源名。
func SourceFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, ok := ctx.Value(sourceKey{}).(string)
	return name, ok
}

// SourceHandler 把 context 中的来源名作为 source 字段追加到每条记录。
//
// 对 logger 调用 WithGroup 后，source 字段也会落在该分组下。
type SourceHandler struct {
	base slog.Handler
}

// NewSourceHandler 包装 base。
func NewSourceHandler(base slog.Handler) (*SourceHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &SourceHandler{base: base}, nil
}

func (h *SourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle 按 slog 约定先 Clone 再追加属性。
func (h *SourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if name, ok := SourceFromContext(ctx); ok {
		r = r.Clone()
		r.AddAttrs(slog.String(KeySource, name))
	}
	return h.base.Handle(ctx, r)
}

func (h *SourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SourceHandler{base: h.base.WithAttrs(attrs)}
}

func (h *SourceHandler) WithGroup(name string) slog.Handler {
	return &SourceHandler{base: h.base.WithGroup(name)}
}
