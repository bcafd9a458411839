package xextract

import (
	"context"
	"strings"
	"testing"
	"time"
)

var benchData = []byte(strings.Repeat("2024-05-01 accept 10.20.30.40 -> 2001:db8::17 port 443\n", 200))

func BenchmarkExtract(b *testing.B) {
	ex, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer ex.Close()
	ctx := context.Background()
	b.SetBytes(int64(len(benchData)))
	for b.Loop() {
		_, _ = ex.Extract(ctx, Source{Data: benchData})
	}
}

func BenchmarkExtract_Cached(b *testing.B) {
	ex, err := New(WithCache(16, time.Minute))
	if err != nil {
		b.Fatal(err)
	}
	defer ex.Close()
	ctx := context.Background()
	b.SetBytes(int64(len(benchData)))
	for b.Loop() {
		_, _ = ex.Extract(ctx, Source{Data: benchData})
	}
}
