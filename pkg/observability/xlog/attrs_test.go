package xlog

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.True(t, Err(nil).Equal(slog.Attr{}))
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "1.5s", Duration(1500*time.Millisecond).Value.String())
	assert.Equal(t, KeyMatches, Matches(2).Key)
	assert.EqualValues(t, 2, Matches(2).Value.Int64())
	assert.Equal(t, KeyFamily, Family("ipv6").Key)
	assert.Equal(t, KeyPath, Path("x").Key)
	assert.Equal(t, KeyBytes, Bytes(1).Key)
	assert.Equal(t, KeyCount, Count(1).Key)
	assert.Equal(t, KeyComponent, Component("c").Key)
	assert.True(t, Cached(true).Value.Bool())
}
