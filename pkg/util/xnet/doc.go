// Package xnet 从任意文本中扫描 IPv4/IPv6 地址字面量。
//
// 扫描器是手写的最小递归下降匹配器，不依赖正则表达式，也不做语义分类
// （组播、回环、私有地址等）。它只关心语法：
//
//   - IPv4: 恰好 4 个十进制段、3 个 '.'，每段 1~3 位、值 0~255，且不允许前导零（"0" 本身合法）
//   - IPv6: 最多 8 个以 ':' 分隔的十六进制段，每段 0~4 位；压缩（空段）最多出现一处，
//     且只能出现在开头、结尾或中间的特定位置；恰好 8 段时不允许空段
//
// # 核心功能
//
//   - scan.go: 扫描驱动器 [ScanIPv4] / [ScanIPv6] / [Scan]，以及便捷函数
//     [FindAllIPv4Addresses] / [FindAllIPv6Addresses] / [FindAll]
//   - ipv4.go / ipv6.go: 字面量匹配器与 IPv6 压缩校验
//   - component.go: 分段读取器（贪婪读取后再校验长度）
//   - ranges.go: 基于 [go4.org/netipx] 的结果过滤（[ParseRanges] + [FilterMatches]）
//   - version.go: 地址族 [Version]
//
// # 快速示例
//
//	xnet.FindAllIPv4Addresses("gw=192.168.1.1 dns=8.8.8.8")
//	// [192.168.1.1 8.8.8.8]
//
//	xnet.FindAllIPv6Addresses("LOCATION: http://[fe80::1]:5000/desc.xml")
//	// [fe80::1]
//
// # 扫描与恢复
//
// 驱动器从偏移 0 开始逐码点尝试匹配：成功则记录匹配并跳过整个匹配区间，
// 失败则只前进一个码点重试。不回溯、不缓存、除匹配器自身需要外不做前瞻。
// 因此畸形字面量内部仍可能匹配出更短的合法字面量：
//
//	xnet.FindAllIPv4Addresses("999.1.1.1") // [99.1.1.1]
//
// 含两处压缩的文本同样如此：整体不合法，但从第二个段开始的后缀合法，
// 输入结束即终止该字面量：
//
//	xnet.FindAllIPv6Addresses("0::0::0") // [0::0]
//
// 需要判断整段文本是否为一个合法字面量时使用 [IsLiteral]。
//
// 这是单码点恢复的直接结果，属于保留行为。
//
// # 偏移与编码
//
// 所有偏移和长度均以 Unicode 码点计。非法 UTF-8 字节按 U+FFFD 处理，各占一个码点。
// [Match.ByteOffset] 给出匹配在原始字符串中的字节下标。
//
// # 错误处理
//
// 语法不匹配属于扫描内部的控制流，永远不会返回给调用方，结果最多为空切片。
// 只有输入缺失（[ScanBytes] 的 nil 切片、[ScanReader] 的 nil Reader）返回 [ErrNilInput]，
// 无效地址族返回 [ErrInvalidVersion]，均支持 errors.Is。
//
// # 并发
//
// 所有函数都是纯函数，无共享可变状态，可在多个 goroutine 中并发调用。
package xnet
