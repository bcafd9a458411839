package xconf_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xipscan/pkg/config/xconf"
)

func ExampleLoadBytes() {
	cfg, err := xconf.LoadBytes([]byte("scan:\n  family: v6\n  cache_ttl: 5m\n"), xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}

	var scan struct {
		Family   string        `koanf:"family"`
		CacheTTL time.Duration `koanf:"cache_ttl"`
	}
	if err := cfg.Unmarshal("scan", &scan); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(scan.Family, scan.CacheTTL)
	// Output: v6 5m0s
}
