package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，数值与 slog.Level 相同。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelNames 接受的级别名，含别名 warning。
var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// Level 实现 slog.Leveler。
func (l Level) Level() slog.Level { return slog.Level(l) }

// String 与 slog.Level 一致，如 "WARN"、"INFO+2"。
func (l Level) String() string { return l.Level().String() }

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 供配置文件解析 log.level，失败时 l 不变。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err == nil {
		*l = parsed
	}
	return err
}

// ParseLevel 按名字查表，大小写不敏感，忽略首尾空白。
// 未知名字返回 LevelInfo 与错误。
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
}
