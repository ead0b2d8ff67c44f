package flagmask

import (
	"context"
	"testing"

	"github.com/hupe1980/flagmask/testutil"
)

// Run with: go test -bench=. -benchmem .

func benchManager(b *testing.B, size, flags int) (*Manager, []Mask) {
	b.Helper()
	rng := testutil.NewRNG(42)
	fm, err := New(size)
	if err != nil {
		b.Fatal(err)
	}
	masks := make([]Mask, flags)
	for i, name := range testutil.FlagNames("f", flags) {
		masks[i] = fm.MustFlag(name)
		if err := fm.Set(masks[i], rng.SampleIDs(size, size/4)...); err != nil {
			b.Fatal(err)
		}
	}
	return fm, masks
}

func BenchmarkFilterAll(b *testing.B) {
	fm, masks := benchManager(b, 100_000, 12)
	mask := masks[0] | masks[5]

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		n := 0
		for range fm.FilterAll(mask) {
			n++
		}
	}
}

func BenchmarkFilterBitmap(b *testing.B) {
	fm, masks := benchManager(b, 1_000_000, 40)
	mask := masks[3] | masks[33]

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := fm.FilterBitmap(context.Background(), mask); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetAll(b *testing.B) {
	fm, masks := benchManager(b, 100_000, 20)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		fm.SetAll(masks[i%len(masks)])
	}
}

func BenchmarkPromotion(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		fm, _ := New(100_000)
		for _, name := range testutil.FlagNames("f", 33) {
			fm.MustFlag(name)
		}
	}
}
