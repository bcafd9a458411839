package xlog

import (
	"log/slog"
	"time"
)

// 扫描日志中使用的标准字段名
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeySource    = "source"
	KeyPath      = "path"
	KeyFamily    = "family"
	KeyMatches   = "matches"
	KeyBytes     = "bytes"
	KeyCached    = "cached"
)

// Err 创建错误属性。err 为 nil 时返回空属性，slog 会忽略它。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 以人类可读格式（如 "1.5ms"）记录耗时。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Path 记录文件路径。
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Family 记录地址族，接受 "ipv4"、"ipv6" 或 "all" 这类名称。
func Family(name string) slog.Attr {
	return slog.String(KeyFamily, name)
}

// Matches 记录找到的地址数量。
func Matches(n int) slog.Attr {
	return slog.Int(KeyMatches, n)
}

// Bytes 记录输入大小。
func Bytes(n int) slog.Attr {
	return slog.Int(KeyBytes, n)
}

// Cached 记录结果是否来自缓存。
func Cached(hit bool) slog.Attr {
	return slog.Bool(KeyCached, hit)
}
