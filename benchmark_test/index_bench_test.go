package benchmark_test

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/hupe1980/bimindex"
	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/resource"
	"github.com/hupe1980/bimindex/search"
	"github.com/hupe1980/bimindex/testutil"
)

// Setup happens before runtime.GC and b.ResetTimer so that fixture
// allocations do not leak into the measurement.

func fixture(b *testing.B, n int) (*testutil.ModelBuilder, []model.ID) {
	b.Helper()
	return testutil.RandomModel(testutil.NewRNG(1), n)
}

func BenchmarkRelationshipIndex(b *testing.B) {
	for _, n := range []int{1_000, 10_000} {
		b.Run(fmt.Sprintf("elements=%d", n), func(b *testing.B) {
			m, _ := fixture(b, n)
			runtime.GC()
			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				if _, err := relindex.Build(m.Store(), m.ModelID()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkResolve compares the fast path against the per-call scan.
func BenchmarkResolve(b *testing.B) {
	m, ids := fixture(b, 2_000)
	idx, err := bimindex.BuildRelationshipIndex(m.Store(), m.ModelID())
	if err != nil {
		b.Fatal(err)
	}

	for _, tc := range []struct {
		name string
		idx  *relindex.Index
	}{
		{"indexed", idx},
		{"scan", nil},
	} {
		b.Run(tc.name, func(b *testing.B) {
			runtime.GC()
			b.ReportAllocs()
			b.ResetTimer()

			i := 0
			for b.Loop() {
				if _, err := bimindex.GetElementProperties(m.Store(), m.ModelID(), ids[i%len(ids)], tc.idx); err != nil {
					b.Fatal(err)
				}
				i++
			}
		})
	}
}

func BenchmarkElementIndex(b *testing.B) {
	m, ids := fixture(b, 5_000)
	idx, err := bimindex.BuildRelationshipIndex(m.Store(), m.ModelID())
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	noYield := func() {}

	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			opts := []bimindex.Option{
				bimindex.WithRelationshipIndex(idx),
				bimindex.WithWorkers(workers),
				bimindex.WithYield(noYield),
			}
			if workers > 1 {
				opts = append(opts, bimindex.WithResourceController(resource.NewController(resource.Config{
					MaxWorkers: int64(workers),
				})))
			}
			runtime.GC()
			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				if _, err := bimindex.BuildElementIndex(ctx, m.Store(), m.ModelID(), ids, opts...); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSearch compares the linear predicate with the facet bitmap index.
func BenchmarkSearch(b *testing.B) {
	m, ids := fixture(b, 20_000)
	entries, err := bimindex.BuildElementIndex(context.Background(), m.Store(), m.ModelID(), ids,
		bimindex.WithYield(func() {}),
	)
	if err != nil {
		b.Fatal(err)
	}
	si := search.NewIndex(entries)

	criteria := map[string]search.Criteria{
		"type":      {Types: []string{"IfcWall"}},
		"type+text": {Types: []string{"IfcWall", "IfcSlab"}, TextQuery: "element 1"},
		"prop":      {PropFilters: []search.PropFilter{{Property: "Volume", Operator: search.OpGreaterThan, Value: "10"}}},
	}

	for name, c := range criteria {
		b.Run(name+"/filter", func(b *testing.B) {
			runtime.GC()
			b.ResetTimer()
			for b.Loop() {
				_ = search.Filter(entries, c)
			}
		})
		b.Run(name+"/index", func(b *testing.B) {
			runtime.GC()
			b.ResetTimer()
			for b.Loop() {
				_ = si.Search(c)
			}
		})
	}
}
