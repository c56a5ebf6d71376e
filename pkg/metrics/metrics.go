// Package metrics provides Prometheus metrics for recycle pools. A
// Collector tracks one pool: gauges for the current element and bucket
// counts, counters for gets, retains and recycled elements. Feed it
// snapshots captured by a Profiler.
//
// Example usage:
//
//	collector := metrics.NewCollector("buffers", prometheus.DefaultRegisterer)
//	...
//	collector.Observe(profiler.CreateSnapshot())
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/recycle/pkg/recycle"
)

// Collector exposes one pool's statistics as Prometheus metrics.
type Collector struct {
	elements prometheus.Gauge
	buckets  prometheus.Gauge
	gets     prometheus.Counter
	retains  prometheus.Counter
	recycled prometheus.Counter
}

// NewCollector creates a collector for the named pool, registering its
// metrics with reg. A nil reg falls back to the default registerer.
func NewCollector(name string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	labels := prometheus.Labels{"pool": name}

	return &Collector{
		elements: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "recycle_pool_elements",
			Help:        "Number of elements currently retained in the pool",
			ConstLabels: labels,
		}),
		buckets: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "recycle_pool_buckets",
			Help:        "Number of buckets in the pool's stack",
			ConstLabels: labels,
		}),
		gets: factory.NewCounter(prometheus.CounterOpts{
			Name:        "recycle_pool_gets_total",
			Help:        "Total elements requested from the pool",
			ConstLabels: labels,
		}),
		retains: factory.NewCounter(prometheus.CounterOpts{
			Name:        "recycle_pool_retains_total",
			Help:        "Total elements returned to the pool",
			ConstLabels: labels,
		}),
		recycled: factory.NewCounter(prometheus.CounterOpts{
			Name:        "recycle_pool_recycled_total",
			Help:        "Total get requests served from the pool instead of the supplier",
			ConstLabels: labels,
		}),
	}
}

// Observe records one snapshot: gauges are set to the snapshot's absolute
// values, counters advance by its deltas.
func (c *Collector) Observe(snap recycle.Snapshot) {
	c.elements.Set(float64(snap.Elements))
	c.buckets.Set(float64(snap.Buckets))
	c.gets.Add(float64(snap.Gets))
	c.retains.Add(float64(snap.Retains))
	c.recycled.Add(float64(snap.Recycled))
}
