package xnet

import "strconv"

const (
	ipv4ComponentMax     = 255
	ipv4ComponentMaxSize = 3
	ipv4Components       = 4

	ipv6MaxComponents    = 8
	ipv6ComponentMaxSize = 4
)

// readComponent 从 offset 起贪婪读取属于 isDigit 字母表的码点，读完后再检查长度。
//
// 返回读取到的分段（IPv6 下可能为空）。数字个数超过 maxSize 时返回 ok=false，
// 调用方必须将其视为本位置的硬失败，不能截断后继续。
// 读到第 maxSize+1 个数字即可判定过长，无需继续消费整段数字，
// 这保证长数字串上的扫描仍为线性。
func readComponent(text []rune, offset, maxSize int, isDigit func(rune) bool) (string, bool) {
	end := offset
	for end < len(text) && isDigit(text[end]) {
		end++
		if end-offset > maxSize {
			return "", false
		}
	}
	return string(text[offset:end]), true
}

func isDecDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}

// readIPv4Component 读取一个 IPv4 八位段：1~3 位十进制，值不超过 255，
// 且必须是数值的规范十进制写法（拒绝 "01"，接受 "0"）。
func readIPv4Component(text []rune, offset int) (string, bool) {
	s, ok := readComponent(text, offset, ipv4ComponentMaxSize, isDecDigit)
	if !ok || s == "" {
		return "", false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > ipv4ComponentMax {
		return "", false
	}
	if strconv.Itoa(n) != s {
		return "", false
	}
	return s, true
}

// readIPv6Component 读取一个 IPv6 分段：0~4 位十六进制（大小写不敏感）。
// 空分段合法，表示被压缩的零。
func readIPv6Component(text []rune, offset int) (string, bool) {
	return readComponent(text, offset, ipv6ComponentMaxSize, isHexDigit)
}
