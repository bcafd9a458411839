package xextract

// SetBeforeHandle 设置 worker 处理每个任务前的回调。
func SetBeforeHandle(e *Extractor, fn func(Source)) {
	e.beforeHandle = fn
}
