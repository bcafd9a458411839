package xnet

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// ParseRange 解析用于结果过滤的 IP 范围。支持 4 种写法：
//   - 单 IP: "192.168.1.1"
//   - CIDR: "192.168.1.0/24"
//   - 掩码: "192.168.1.0/255.255.255.0"（仅 IPv4）
//   - 范围: "192.168.1.1-192.168.1.100"
//
// 输入会去除首尾空白。带 zone ID 的地址被拒绝。
func ParseRange(s string) (netipx.IPRange, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "%") {
		return netipx.IPRange{}, fmt.Errorf("%w: zone ID is not supported: %s", ErrInvalidRange, s)
	}

	if idx := strings.Index(s, "-"); idx >= 0 {
		start, err := netip.ParseAddr(strings.TrimSpace(s[:idx]))
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid range start: %w", ErrInvalidRange, err)
		}
		end, err := netip.ParseAddr(strings.TrimSpace(s[idx+1:]))
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid range end: %w", ErrInvalidRange, err)
		}
		r := netipx.IPRangeFrom(start.Unmap(), end.Unmap())
		if !r.IsValid() {
			return netipx.IPRange{}, fmt.Errorf("%w: %s", ErrInvalidRange, s)
		}
		return r, nil
	}

	if idx := strings.Index(s, "/"); idx >= 0 {
		addrPart := strings.TrimSpace(s[:idx])
		maskPart := strings.TrimSpace(s[idx+1:])
		if strings.Contains(maskPart, ".") {
			return parseRangeWithMask(addrPart, maskPart)
		}
		prefix, err := netip.ParsePrefix(addrPart + "/" + maskPart)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid CIDR: %w", ErrInvalidRange, err)
		}
		return netipx.RangeOfPrefix(prefix.Masked()), nil
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	addr = addr.Unmap()
	return netipx.IPRangeFrom(addr, addr), nil
}

// parseRangeWithMask 解析 "addr/mask" 写法（仅 IPv4），拒绝非连续掩码如 "255.0.255.0"。
func parseRangeWithMask(addrStr, maskStr string) (netipx.IPRange, error) {
	addr, err := netip.ParseAddr(addrStr)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: invalid address: %w", ErrInvalidRange, err)
	}
	mask, err := netip.ParseAddr(maskStr)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: invalid mask: %w", ErrInvalidRange, err)
	}
	addr, mask = addr.Unmap(), mask.Unmap()
	if !addr.Is4() || !mask.Is4() {
		return netipx.IPRange{}, fmt.Errorf("%w: mask notation only supports IPv4", ErrInvalidRange)
	}

	a, m := addr.As4(), mask.As4()
	addrU := binary.BigEndian.Uint32(a[:])
	maskU := binary.BigEndian.Uint32(m[:])

	// 合法掩码为前缀全 1、后缀全 0。
	inverted := ^maskU
	if inverted&(inverted+1) != 0 {
		return netipx.IPRange{}, fmt.Errorf("%w: non-contiguous mask: %s", ErrInvalidRange, maskStr)
	}

	var from, to [4]byte
	binary.BigEndian.PutUint32(from[:], addrU&maskU)
	binary.BigEndian.PutUint32(to[:], addrU&maskU|inverted)
	return netipx.IPRangeFrom(netip.AddrFrom4(from), netip.AddrFrom4(to)), nil
}

// ParseRanges 解析多个范围并合并为 [*netipx.IPSet]，重叠范围自动合并。
// 空切片返回空的 IPSet。
func ParseRanges(strs []string) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, s := range strs {
		r, err := ParseRange(s)
		if err != nil {
			return nil, fmt.Errorf("parse range %q: %w", s, err)
		}
		b.AddRange(r)
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("%w: build IPSet: %w", ErrInvalidRange, err)
	}
	return set, nil
}

// FilterMatches 返回落在 set 内的匹配，保持原有顺序。
//
// 扫描器语法比 [netip.ParseAddr] 更严格，因此每个匹配都能被解析；
// 万一解析失败（理论上不会发生）则丢弃该匹配。set 为 nil 时原样返回。
func FilterMatches(matches []Match, set *netipx.IPSet) []Match {
	if set == nil {
		return matches
	}
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		addr, err := netip.ParseAddr(m.Text)
		if err != nil {
			continue
		}
		if set.Contains(addr) {
			out = append(out, m)
		}
	}
	return out
}
