// Package xconf 基于 koanf v2 加载 YAML/JSON 配置文件。
//
//	cfg, err := xconf.Load("xipscan.yaml")
//	var s Settings
//	err = cfg.Unmarshal("", &s)
//
// 格式由扩展名决定（.yaml/.yml/.json），[LoadBytes] 需显式指定格式。
// 反序列化使用 koanf 结构体标签，字符串形式的时长（"10m"）和实现了
// encoding.TextUnmarshaler 的类型会自动转换。[WithStrict] 打开后，
// 配置中出现目标结构体没有的键会报错，便于发现拼写错误。
//
// [Config.Reload] 重新读取文件并原子替换内容，并发安全。
package xconf
