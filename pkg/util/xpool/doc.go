// Package xpool 提供泛型 worker pool，xextract 用它并发扫描多个输入。
//
// [New] 创建后 worker 立即启动：
//   - [Pool.Submit] 在队列满时阻塞，直到入队、ctx 结束或 pool 关闭
//   - [Pool.TrySubmit] 不阻塞，队列满时返回 [ErrQueueFull]
//   - [Pool.Close] 拒绝新任务，处理完队列中的剩余任务后返回
//
// handler panic 会被恢复并记录日志，可通过 [WithPanicHandler] 得到通知，
// 例如为该任务填入错误结果。Close 不可在 handler 内调用，否则会死锁。
package xpool
