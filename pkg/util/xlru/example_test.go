package xlru_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xipscan/pkg/util/xlru"
)

func ExampleCache() {
	c, err := xlru.New[string, []string](128, time.Minute)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	c.Set("gateway.conf", []string{"10.0.0.1", "fe80::1"})
	addrs, ok := c.Get("gateway.conf")
	fmt.Println(addrs, ok, c.Stats().Hits)
	// Output: [10.0.0.1 fe80::1] true 1
}
