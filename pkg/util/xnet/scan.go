package xnet

import (
	"fmt"
	"io"
)

// Match 是扫描得到的一个地址字面量。
//
// Offset 与 Length 以 Unicode 码点计；ByteOffset 是匹配起点在原始字符串中的字节下标，
// 便于直接对 Go 字符串切片。字面量只含 ASCII，因此其字节长度等于 Length。
type Match struct {
	Text       string  `json:"text"`
	Version    Version `json:"version"`
	Offset     int     `json:"offset"`
	Length     int     `json:"length"`
	ByteOffset int     `json:"byte_offset"`
}

// End 返回匹配结束位置（码点，不含）。
func (m Match) End() int {
	return m.Offset + m.Length
}

// matcher 尝试在 offset 处匹配一个完整字面量，返回重建的文本与消费的码点数。
type matcher func(text []rune, offset int) (lit string, n int, ok bool)

func matcherFor(v Version) (matcher, error) {
	switch v {
	case V4:
		return matchIPv4, nil
	case V6:
		return matchIPv6, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}
}

// scan 是扫描驱动器：逐码点尝试 match，成功则记录并跳过整个匹配区间，
// 失败则只前进一个码点。
//
// 单码点恢复意味着畸形字面量内部仍可能匹配出更短的合法字面量，
// 例如 "999.1.1.1" 得到 "99.1.1.1"。这是有意保留的行为。
func scan(text string, v Version, match matcher) []Match {
	runes := []rune(text)
	// range 遍历字符串时每个码点（包括非法 UTF-8 字节）产生一个起始下标，
	// 与 []rune 转换的元素一一对应。
	starts := make([]int, 0, len(runes))
	for i := range text {
		starts = append(starts, i)
	}

	matches := make([]Match, 0)
	for i := 0; i < len(runes); {
		lit, n, ok := match(runes, i)
		if !ok {
			i++
			continue
		}
		matches = append(matches, Match{
			Text:       lit,
			Version:    v,
			Offset:     i,
			Length:     n,
			ByteOffset: starts[i],
		})
		i += n
	}
	return matches
}

// ScanIPv4 返回 text 中所有 IPv4 字面量及其位置，按出现顺序排列。
func ScanIPv4(text string) []Match {
	return scan(text, V4, matchIPv4)
}

// ScanIPv6 返回 text 中所有 IPv6 字面量及其位置，按出现顺序排列。
func ScanIPv6(text string) []Match {
	return scan(text, V6, matchIPv6)
}

// Scan 按地址族 v 扫描 text。v 不是 V4/V6 时返回 [ErrInvalidVersion]。
func Scan(text string, v Version) ([]Match, error) {
	m, err := matcherFor(v)
	if err != nil {
		return nil, err
	}
	return scan(text, v, m), nil
}

// ScanBytes 按地址族 v 扫描 data。
// data 为 nil 表示输入缺失，返回 [ErrNilInput]；空切片返回空结果。
func ScanBytes(data []byte, v Version) ([]Match, error) {
	if data == nil {
		return nil, ErrNilInput
	}
	return Scan(string(data), v)
}

// ScanReader 读取 r 的全部内容后按地址族 v 扫描。
// r 为 nil 时返回 [ErrNilInput]。
func ScanReader(r io.Reader, v Version) ([]Match, error) {
	if r == nil {
		return nil, ErrNilInput
	}
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xnet: read input: %w", err)
	}
	return Scan(string(data), v)
}

// FindAllIPv4Addresses 返回 text 中所有 IPv4 字面量，按出现顺序排列，重复出现的地址会重复返回。
// 无匹配时返回空切片（非 nil）。
func FindAllIPv4Addresses(text string) []string {
	return texts(ScanIPv4(text))
}

// FindAllIPv6Addresses 返回 text 中所有 IPv6 字面量，语义同 [FindAllIPv4Addresses]。
func FindAllIPv6Addresses(text string) []string {
	return texts(ScanIPv6(text))
}

// FindAll 按地址族 v 返回 text 中的所有字面量。
func FindAll(text string, v Version) ([]string, error) {
	matches, err := Scan(text, v)
	if err != nil {
		return nil, err
	}
	return texts(matches), nil
}

// IsLiteral 报告 s 整体是否恰好是一个 v 族的地址字面量。
// 与 [netip.ParseAddr] 不同，它使用扫描器的语法（IPv4 拒绝前导零，IPv6 不支持内嵌 IPv4 与 zone）。
func IsLiteral(s string, v Version) bool {
	m, err := matcherFor(v)
	if err != nil {
		return false
	}
	runes := []rune(s)
	lit, n, ok := m(runes, 0)
	return ok && n == len(runes) && lit == s
}

func texts(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}
	return out
}
