// Package xlru 提供带 TTL 的并发安全 LRU 缓存，基于 hashicorp/golang-lru/v2 的 expirable 实现。
//
// xextract 用它缓存同一内容的扫描结果。[Cache.Stats] 返回命中统计，
// 用于在日志中报告缓存效果。
//
// TTL > 0 时上游会启动后台清理 goroutine，且未提供停止方法；
// [Cache.Close] 负责让它退出，用完必须调用。
package xlru
