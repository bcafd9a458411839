package xnet

import "strings"

// matchIPv4 尝试在 offset 处读取完整的 IPv4 字面量。
//
// 四个八位段之间必须恰好是一个 '.'，不允许跳过任何字符；第四段后不要求分隔符。
// 任一段或分隔符缺失/无效时整体失败，不返回更短的前缀。
// 返回的文本由解析出的各段重新拼接，长度单位为码点。
func matchIPv4(text []rune, offset int) (string, int, bool) {
	var parts [ipv4Components]string
	pos := offset
	for i := range parts {
		if i > 0 {
			if pos >= len(text) || text[pos] != '.' {
				return "", 0, false
			}
			pos++
		}
		c, ok := readIPv4Component(text, pos)
		if !ok {
			return "", 0, false
		}
		parts[i] = c
		pos += len(c)
	}
	return strings.Join(parts[:], "."), pos - offset, true
}
