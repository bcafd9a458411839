// Package xfile 提供扫描输入与日志文件所需的路径和读取工具。
//
//   - [SanitizePath]: 路径格式净化（空路径、空字节、相对路径穿越、目录路径）
//   - [EnsureDir]: 确保文件的父目录存在（日志文件使用）
//   - [ReadLimited]: 净化路径后读取文件，超过上限时拒绝
//
// 所有错误均为预定义变量的包装，可用 [errors.Is] 判断。
package xfile
