// Package metrics exports jiggler activity as prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stigoleg/auraflow/internal/event"
)

const namespace = "auraflow"

// Collector turns status events into prometheus metrics.
type Collector struct {
	jiggles        prometheus.Counter
	idleTransits   prometheus.Counter
	activeTransits prometheus.Counter
	loopStarts     prometheus.Counter
	loopStops      prometheus.Counter
	running        prometheus.GaugeFunc
	lastIdle       prometheus.Gauge
	offsets        *prometheus.HistogramVec
}

// NewCollector registers the collectors with reg. A nil reg registers with
// the default registry. The running gauge calls running at scrape time.
func NewCollector(reg prometheus.Registerer, running func() bool) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if running == nil {
		running = func() bool { return false }
	}
	factory := promauto.With(reg)

	return &Collector{
		jiggles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jiggles_total",
			Help:      "The total number of synthetic pointer jiggles",
		}),
		idleTransits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idle_transitions_total",
			Help:      "The number of times the user was detected idle",
		}),
		activeTransits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_transitions_total",
			Help:      "The number of times user activity paused jiggling",
		}),
		loopStarts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_starts_total",
			Help:      "The number of activity loops started",
		}),
		loopStops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_stops_total",
			Help:      "The number of activity loops that exited",
		}),
		running: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the jiggler is running, 0 otherwise",
		}, func() float64 {
			if running() {
				return 1
			}
			return 0
		}),
		lastIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_jiggle_idle_seconds",
			Help:      "Idle time reported by the most recent jiggle",
		}),
		offsets: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "jiggle_offset_pixels",
			Help:      "Absolute jiggle displacement per axis",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		}, []string{"axis"}),
	}
}

// Observe records a single event.
func (c *Collector) Observe(e event.Event) {
	switch e.Kind {
	case event.KindStarted:
		c.loopStarts.Inc()
	case event.KindStopped:
		c.loopStops.Inc()
	case event.KindIdleDetected:
		c.idleTransits.Inc()
	case event.KindActivityDetected:
		c.activeTransits.Inc()
	case event.KindJiggled:
		c.jiggles.Inc()
		c.lastIdle.Set(float64(e.IdleSeconds))
		c.offsets.WithLabelValues("x").Observe(float64(abs(e.DX)))
		c.offsets.WithLabelValues("y").Observe(float64(abs(e.DY)))
	}
}

// Consume observes events from sub until its channel is closed.
func (c *Collector) Consume(sub *event.Subscription) {
	for e := range sub.C() {
		c.Observe(e)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
