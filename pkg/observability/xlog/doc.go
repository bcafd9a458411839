// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建 Logger
//
// 使用 Builder 模式，遇到第一个配置错误后后续 Set 操作不再生效，错误在 [Builder.Build] 时返回：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xipscan/scan.log").
//		Build()
//	defer cleanup()
//
// # 输入来源注入
//
// [ContextWithSource] 把当前处理的输入名（文件路径或 "-"）放进 context，
// 日志记录时由 [SourceHandler] 自动追加 source 字段，调用方无需在每条日志里重复。
//
// # 全局 Logger
//
// 命令行入口构建好 Logger 后可用 [SetDefault] 安装；库代码通过 [Default] 或
// [Debug]、[Info]、[Warn]、[Error] 使用。未安装时默认写 stderr、Info 级别、text 格式。
//
// # 派生 Logger
//
// [Logger.With] 和 [Logger.WithGroup] 返回的派生 Logger 共享父级的 LevelVar，
// 动态级别变更同步生效。
package xlog
