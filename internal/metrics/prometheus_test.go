package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) (*PrometheusSink, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPrometheusSink(reg), reg
}

func TestPrometheusSink_Load(t *testing.T) {
	sink, _ := newTestSink(t)

	sink.LoadCompleted(20*time.Millisecond, 4)
	sink.LoadCompleted(30*time.Millisecond, 6)
	sink.LoadFailed()
	sink.LoadDiscarded()

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.loadsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.loadErrorsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.loadsDiscarded))
	assert.Equal(t, 6.0, testutil.ToFloat64(sink.snapshotEntries))
}

func TestPrometheusSink_Mutations(t *testing.T) {
	sink, _ := newTestSink(t)

	sink.MutationCompleted(OpAdd)
	sink.MutationCompleted(OpAdd)
	sink.MutationFailed(OpRemove)
	sink.NotificationReceived("redis")

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.mutationsTotal.WithLabelValues(OpAdd)))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.mutationsTotal.WithLabelValues(OpUpdate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.mutationErrorsTotal.WithLabelValues(OpRemove)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.notificationsTotal.WithLabelValues("redis")))
}

func TestPrometheusSink_Gather(t *testing.T) {
	sink, reg := newTestSink(t)
	sink.LoadCompleted(time.Millisecond, 1)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["board_timeline_loads_total"])
	assert.True(t, names["board_timeline_load_duration_seconds"])
}

func TestPrometheusSink_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewPrometheusSink(reg)

	assert.NotPanics(t, func() {
		second := NewPrometheusSink(reg)
		second.LoadFailed()
	})
}

func TestNoopSink(t *testing.T) {
	var s Sink = NewNoopSink()
	assert.NotPanics(t, func() {
		s.LoadCompleted(time.Second, 3)
		s.LoadFailed()
		s.LoadDiscarded()
		s.MutationCompleted(OpUpdate)
		s.MutationFailed(OpUpdate)
		s.NotificationReceived("postgres")
	})
}
