package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口。
//
// 所有方法都带 context.Context，属性只接受 slog.Attr。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger，后续属性归入该分组
	WithGroup(name string) Logger
}

// Leveler 级别控制接口。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level

	// Enabled 检查指定级别是否启用，用于跳过昂贵的属性构造
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合 Logger 与 Leveler，[Builder.Build] 返回此接口。
type LoggerWithLevel interface {
	Logger
	Leveler
}
