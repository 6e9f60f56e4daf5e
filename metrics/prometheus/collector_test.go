package prometheus

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bimindex"
	bimtest "github.com/hupe1980/bimindex/testutil"
)

func TestCollector(t *testing.T) {
	reg := prom.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	boom := errors.New("boom")
	c.RecordRelationshipIndex(12, time.Millisecond, nil)
	c.RecordResolve(time.Microsecond, true, nil)
	c.RecordResolve(time.Microsecond, false, nil)
	c.RecordResolve(time.Microsecond, false, boom)
	c.RecordBatch(50, 3, time.Millisecond)
	c.RecordElementIndex(50, 47, time.Millisecond, nil)
	c.RecordElementIndex(10, 0, time.Millisecond, boom)
	c.RecordSearch(4, time.Microsecond)

	assert.InDelta(t, 12, testutil.ToFloat64(c.relRecords), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.resolves.WithLabelValues("found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.resolves.WithLabelValues("missing")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.resolves.WithLabelValues("error")), 0)
	assert.InDelta(t, 47, testutil.ToFloat64(c.elements.WithLabelValues("indexed")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.elements.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.elementRuns.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.elementRuns.WithLabelValues("error")), 0)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP bimindex_relationship_records_total Relationship records scanned by index builds
# TYPE bimindex_relationship_records_total counter
bimindex_relationship_records_total 12
`), "bimindex_relationship_records_total")
	assert.NoError(t, err)
}

func TestNewErrors(t *testing.T) {
	_, err := New(prom.NewRegistry(), WithNamespace(""))
	assert.Error(t, err)

	reg := prom.NewRegistry()
	_, err = New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)

	_, err = New(reg, WithNamespace("other"), WithLatencyBuckets([]float64{0.001, 0.01}))
	assert.NoError(t, err)

	assert.Panics(t, func() { MustNew(reg) })
}

func TestWithBatchBuckets(t *testing.T) {
	reg := prom.NewRegistry()
	c, err := New(reg, WithBatchBuckets([]float64{10, 100}))
	require.NoError(t, err)

	c.RecordBatch(50, 0, time.Millisecond)
	c.RecordBatch(5, 0, time.Millisecond)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP bimindex_batch_size Element IDs per index batch
# TYPE bimindex_batch_size histogram
bimindex_batch_size_bucket{le="10"} 1
bimindex_batch_size_bucket{le="100"} 2
bimindex_batch_size_bucket{le="+Inf"} 2
bimindex_batch_size_sum 55
bimindex_batch_size_count 2
`), "bimindex_batch_size")
	assert.NoError(t, err)
}

func TestCollectorWithModel(t *testing.T) {
	reg := prom.NewRegistry()
	c := MustNew(reg)

	b, ids := bimtest.RandomModel(bimtest.NewRNG(7), 30)
	m := bimindex.Open(b.Store(), b.ModelID(),
		bimindex.WithMetricsCollector(c),
		bimindex.WithBatchSize(10),
	)
	defer m.Close()

	entries, err := m.BuildIndex(context.Background(), ids)
	require.NoError(t, err)

	indexed := testutil.ToFloat64(c.elements.WithLabelValues("indexed"))
	skipped := testutil.ToFloat64(c.elements.WithLabelValues("skipped"))
	assert.InDelta(t, float64(len(entries)), indexed, 0)
	assert.InDelta(t, float64(len(ids)), indexed+skipped, 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.elementRuns))
}
