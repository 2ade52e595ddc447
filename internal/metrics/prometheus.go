package metrics

import (
	"time"

	"github.com/penwyp/go-hackathon-board/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	loadsTotal          prometheus.Counter
	loadErrorsTotal     prometheus.Counter
	loadsDiscarded      prometheus.Counter
	loadDuration        prometheus.Histogram
	snapshotEntries     prometheus.Gauge
	mutationsTotal      *prometheus.CounterVec
	mutationErrorsTotal *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
}

// NewPrometheusSink creates the board's collectors on reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initStoreMetrics(reg)
	s.initFeedMetrics(reg)
	return s
}

func (s *PrometheusSink) initStoreMetrics(reg prometheus.Registerer) {
	s.loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_timeline_loads_total",
		Help: "Total number of schedule loads applied to the timeline.",
	})
	s.loadErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_timeline_load_errors_total",
		Help: "Total number of schedule loads that failed to fetch.",
	})
	s.loadsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_timeline_loads_discarded_total",
		Help: "Total number of fetch results discarded because a newer result was applied.",
	})
	s.loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "board_timeline_load_duration_seconds",
		Help:    "Duration of each schedule fetch in seconds.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
	s.snapshotEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_timeline_entries",
		Help: "Number of entries in the current snapshot.",
	})
	s.mutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_timeline_mutations_total",
		Help: "Total number of successful schedule mutations.",
	}, []string{"op"})
	s.mutationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_timeline_mutation_errors_total",
		Help: "Total number of rejected or failed schedule mutations.",
	}, []string{"op"})

	s.register(reg, s.loadsTotal, "board_timeline_loads_total")
	s.register(reg, s.loadErrorsTotal, "board_timeline_load_errors_total")
	s.register(reg, s.loadsDiscarded, "board_timeline_loads_discarded_total")
	s.register(reg, s.loadDuration, "board_timeline_load_duration_seconds")
	s.register(reg, s.snapshotEntries, "board_timeline_entries")
	s.register(reg, s.mutationsTotal, "board_timeline_mutations_total")
	s.register(reg, s.mutationErrorsTotal, "board_timeline_mutation_errors_total")
}

func (s *PrometheusSink) initFeedMetrics(reg prometheus.Registerer) {
	s.notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_feed_notifications_total",
		Help: "Total number of change notifications received per feed.",
	}, []string{"source"})

	s.register(reg, s.notificationsTotal, "board_feed_notifications_total")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		util.LogWarnf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) LoadCompleted(duration time.Duration, entries int) {
	s.loadsTotal.Inc()
	s.loadDuration.Observe(duration.Seconds())
	s.snapshotEntries.Set(float64(entries))
}

func (s *PrometheusSink) LoadFailed() {
	s.loadErrorsTotal.Inc()
}

func (s *PrometheusSink) LoadDiscarded() {
	s.loadsDiscarded.Inc()
}

func (s *PrometheusSink) MutationCompleted(op string) {
	s.mutationsTotal.WithLabelValues(op).Inc()
}

func (s *PrometheusSink) MutationFailed(op string) {
	s.mutationErrorsTotal.WithLabelValues(op).Inc()
}

func (s *PrometheusSink) NotificationReceived(source string) {
	s.notificationsTotal.WithLabelValues(source).Inc()
}
