package xnet

import (
	"fmt"
	"strings"
)

// Version 表示 IP 协议版本，也用作扫描的地址族选择器。
type Version uint8

const (
	// V0 表示无效或未知的 IP 版本。
	V0 Version = 0
	// V4 表示 IPv4。
	V4 Version = 4
	// V6 表示 IPv6。
	V6 Version = 6
)

// String 返回版本的字符串表示。
func (v Version) String() string {
	switch v {
	case V4:
		return "IPv4"
	case V6:
		return "IPv6"
	default:
		return "unknown"
	}
}

// IsValid 报告 v 是否为可扫描的地址族（V4 或 V6）。
func (v Version) IsValid() bool {
	return v == V4 || v == V6
}

// MarshalText 实现 encoding.TextMarshaler，JSON 输出为 "IPv4"/"IPv6"。
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，接受 [ParseVersion] 支持的所有写法。
func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := ParseVersion(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVersion 解析版本字符串。
// 支持 "4"/"v4"/"ipv4" 与 "6"/"v6"/"ipv6"（大小写不敏感，自动 TrimSpace）。
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4", "v4", "ipv4":
		return V4, nil
	case "6", "v6", "ipv6":
		return V6, nil
	default:
		return V0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
}
