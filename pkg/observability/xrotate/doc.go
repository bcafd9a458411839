// Package xrotate 为 xipscan 的诊断日志提供按大小轮转的文件输出。
//
// [Open] 返回的 [File] 实现 io.WriteCloser，可直接作为 xlog 的输出目标。
// 底层基于 lumberjack v2；路径经 xfile 净化，父目录按需创建。
//
// 扫描器是短命的命令行进程，默认阈值比常驻服务小：
// 单文件 [DefaultMaxSizeMB] MB，保留 [DefaultMaxBackups] 个备份，
// 备份最多保留 [DefaultMaxAgeDays] 天。
package xrotate
