package xconf

// 默认配置文件大小上限 1 MiB
const defaultMaxBytes = 1 << 20

type options struct {
	delim    string
	tag      string
	strict   bool
	maxBytes int64
}

func defaultOptions() options {
	return options{
		delim:    ".",
		tag:      "koanf",
		maxBytes: defaultMaxBytes,
	}
}

// Option 配置加载选项。
type Option func(*options)

// WithDelim 设置键路径分隔符，默认 "."。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置结构体标签名，默认 "koanf"。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithStrict 打开后 Unmarshal 遇到目标结构体不认识的键时报错。
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithMaxBytes 设置配置文件大小上限，<= 0 表示不限制。
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}
