package xnet

import "errors"

var (
	// ErrNilInput 表示待扫描的输入缺失（nil 切片或 nil Reader）。
	// 空输入不是错误，返回空结果。
	ErrNilInput = errors.New("xnet: nil input")

	// ErrInvalidVersion 表示无效的 IP 版本。
	ErrInvalidVersion = errors.New("xnet: invalid IP version")

	// ErrInvalidRange 表示无效的 IP 范围格式。
	ErrInvalidRange = errors.New("xnet: invalid IP range")
)
