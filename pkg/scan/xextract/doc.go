// Package xextract 在 xnet 扫描器之上提供面向输入源的提取服务。
//
// [Extractor] 对一个输入按配置的地址族（默认 IPv4 与 IPv6）分别扫描，
// 按码点偏移合并结果（同一偏移 IPv4 在前），可选按地址范围过滤，
// 并以内容的 xxhash64 加地址族为键缓存结果。
//
//	ex, err := xextract.New(
//		xextract.WithWorkers(4),
//		xextract.WithCache(256, 10*time.Minute),
//	)
//	defer ex.Close()
//	results, err := ex.ExtractAll(ctx, sources)
//
// [Extractor.ExtractAll] 通过 xpool 并发处理多个输入，结果顺序与输入一致；
// 单个输入的失败记录在对应 [Result.Err] 中，并汇总到返回的 error。
//
// [Watcher] 基于 fsnotify 监视文件，内容变化（经防抖）后重新提取并回调。
// rename 式保存期间文件会短暂缺失，读取失败时按 [WithReadRetry] 重试。
package xextract
