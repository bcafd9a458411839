package xnet

import "strings"

// matchIPv6 尝试在 offset 处读取完整的 IPv6 字面量。
//
// 最多读取 8 个以 ':' 分隔的分段；某段之后不是 ':'（包括到达输入末尾）时
// 立即停止。任一分段超过 4 位十六进制即失败。读取结束后由
// [validCompression] 校验空分段的位置和数量。
//
// 返回的文本是所有分段以 ':' 重新拼接的结果，不从输入切片。
// 第 8 段后紧跟的 ':' 会被读取但不属于字面量，驱动器按字面量长度前进。
func matchIPv6(text []rune, offset int) (string, int, bool) {
	components := make([]string, 0, ipv6MaxComponents)
	pos := offset
	for range ipv6MaxComponents {
		c, ok := readIPv6Component(text, pos)
		if !ok {
			return "", 0, false
		}
		pos += len(c)
		components = append(components, c)

		if pos >= len(text) || text[pos] != ':' {
			break
		}
		pos++
	}

	if !validCompression(components) {
		return "", 0, false
	}

	lit := strings.Join(components, ":")
	return lit, len(lit), true
}

// validCompression 校验 IPv6 分段列表中空分段（压缩）的模式。
//
// 恰好 8 段时不允许任何空段。少于 8 段时按顺序匹配：
//  1. 恰好 3 段且全部为空："::"
//  2. 多于 2 段，前两段为空，空段数恰为 2："::1:2"
//  3. 多于 2 段，后两段为空，空段数恰为 2："1:2::"
//  4. 多于 2 段，首尾均非空，空段数恰为 1："1::2"
//
// 其余情况均无效，例如 "abcd"、"abcd:"、":abcd:"、"0::0::0"。
func validCompression(components []string) bool {
	n := len(components)
	empty := emptyCount(components)

	if n == ipv6MaxComponents {
		return empty == 0
	}
	if n > ipv6MaxComponents || n <= 2 {
		return false
	}

	first, second := components[0], components[1]
	last, beforeLast := components[n-1], components[n-2]

	switch {
	case n == 3 && empty == 3:
		return true
	case first == "" && second == "":
		return empty == 2
	case beforeLast == "" && last == "":
		return empty == 2
	case first != "" && last != "":
		return empty == 1
	default:
		return false
	}
}

func emptyCount(components []string) int {
	n := 0
	for _, c := range components {
		if c == "" {
			n++
		}
	}
	return n
}
