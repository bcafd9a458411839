// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，路径净化、目录创建、限长读取
//   - xlru: LRU 缓存，泛型支持、自动 TTL 过期、命中统计
//   - xnet: IP 地址字面量扫描，以及基于 go4.org/netipx 的范围过滤
//   - xpool: 泛型 Worker Pool，可配置 worker/队列大小、优雅关闭
//
// 设计原则：
//   - 安全处理路径遍历与超大输入
//   - 零值不可用的类型一律通过构造函数创建并校验参数
package util
