package xfile

import (
	"fmt"
	"io"
	"os"
)

// ReadLimited 净化 filename 后读取整个文件。
//
// maxBytes > 0 时文件超过该大小返回 [ErrTooLarge]；maxBytes <= 0 表示不限制。
// 先按 Stat 大小判断，再以 LimitReader 兜底，避免读取过程中文件增长越过上限。
// 返回的切片非 nil（空文件返回长度为 0 的切片）。
func ReadLimited(filename string, maxBytes int64) ([]byte, error) {
	path, err := SanitizePath(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //#nosec G304 -- 路径已净化，读取任意输入文件是扫描器的职责
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrInvalidPath)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("%s: %d bytes exceeds %d: %w", path, info.Size(), maxBytes, ErrTooLarge)
	}

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: grew beyond %d bytes: %w", path, maxBytes, ErrTooLarge)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
