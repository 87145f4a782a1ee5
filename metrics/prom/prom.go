// Package prom adapts cache.Metrics to Prometheus, the same
// counters-and-gauges shape the teacher's own prom adapter uses,
// generalized from a TTL/cost-based eviction surface to this cache's
// hit/miss/strengthen/weaken/reclaim signals plus a strong/weak size
// gauge pair.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dualcache/dualcache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus
// counters/gauges. Safe for concurrent use; every Prometheus metric
// type is goroutine-safe on its own.
type Adapter struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	strengthens prometheus.Counter
	weakens     prometheus.Counter
	reclaims    prometheus.Counter
	strongSize  prometheus.Gauge
	weakSize    prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "hits_total",
			Help: "Cache hits", ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "misses_total",
			Help: "Cache misses", ConstLabels: constLabels,
		}),
		strengthens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "strengthens_total",
			Help: "Cells promoted from weak to strong", ConstLabels: constLabels,
		}),
		weakens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "weakens_total",
			Help: "Cells demoted from strong to weak", ConstLabels: constLabels,
		}),
		reclaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "reclaims_total",
			Help: "Weak cells whose value was collected by the runtime", ConstLabels: constLabels,
		}),
		strongSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "strong_entries",
			Help: "Number of strongly held entries", ConstLabels: constLabels,
		}),
		weakSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "weak_entries",
			Help: "Number of weakly held entries", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.strengthens, a.weakens, a.reclaims, a.strongSize, a.weakSize)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Strengthen increments the promotion counter.
func (a *Adapter) Strengthen() { a.strengthens.Inc() }

// Weaken increments the demotion counter.
func (a *Adapter) Weaken() { a.weakens.Inc() }

// Reclaim increments the collected-by-GC counter.
func (a *Adapter) Reclaim() { a.reclaims.Inc() }

// ReportSizes sets the strong/weak size gauges. Unlike the other
// methods this isn't driven by a cache.Metrics callback — there is no
// hook for "size changed" — so callers poll Cache.StrongCount/
// WeakCount (e.g. from a periodic ticker) and report them here.
func (a *Adapter) ReportSizes(strong, weak int) {
	a.strongSize.Set(float64(strong))
	a.weakSize.Set(float64(weak))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
