package xlru

import (
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

func expirableForTest(t *testing.T) *expirable.LRU[string, int] {
	t.Helper()
	return expirable.NewLRU[string, int](1, nil, time.Minute)
}
