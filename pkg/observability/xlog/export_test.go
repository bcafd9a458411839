package xlog

// SetNewBuilderForTest 替换默认 Logger 使用的构建器工厂，返回恢复函数。
func SetNewBuilderForTest(fn func() *Builder) func() {
	old := newBuilder
	newBuilder = fn
	return func() { newBuilder = old }
}
