// Package xrun 协调 xipscan 的长时间运行任务（watch 模式）与进程信号。
//
// [Group] 基于 errgroup：任一任务返回错误或被 [Group.Cancel] 时，其余任务的 ctx 被取消。
// [Run] 在 Group 之上加一个信号任务，收到 SIGINT/SIGTERM/SIGHUP 后以 [*SignalError]
// 作为退出原因取消全部任务：
//
//	err := xrun.Run(ctx, nil, watcher.Run)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常退出
//	}
package xrun
