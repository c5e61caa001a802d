// Package metrics exports arena Storage statistics to Prometheus.
package metrics

import (
	"io"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	arena "github.com/pavanmanishd/stackarena"
)

const storageLabel = "storage"

// Collector is a prometheus.Collector reporting one series per tracked
// Storage, labelled by the name it was tracked under.
//
// Storage itself is not goroutine-safe: Collect reads the counters of
// every tracked Storage, so scrapes must not overlap with allocations.
type Collector struct {
	mu     sync.Mutex
	stores map[string]*arena.Storage

	used        *prometheus.Desc
	capacity    *prometheus.Desc
	remaining   *prometheus.Desc
	abandoned   *prometheus.Desc
	utilization *prometheus.Desc
	allocs      *prometheus.Desc
	failures    *prometheus.Desc
}

// NewCollector creates a collector whose metric names start with
// namespace.
func NewCollector(namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", name),
			help, []string{storageLabel}, nil,
		)
	}
	return &Collector{
		stores:      make(map[string]*arena.Storage),
		used:        desc("used_bytes", "Bytes consumed from the block, alignment padding included."),
		capacity:    desc("capacity_bytes", "Fixed capacity of the block."),
		remaining:   desc("remaining_bytes", "Bytes left after the cursor."),
		abandoned:   desc("abandoned_bytes", "Bytes deallocated but not reclaimed."),
		utilization: desc("utilization_ratio", "Ratio of used bytes to capacity."),
		allocs:      desc("allocations_total", "Successful reservations."),
		failures:    desc("failures_total", "Reservations rejected for lack of space."),
	}
}

// Track starts reporting s under name, replacing any Storage already
// tracked under it.
func (c *Collector) Track(name string, s *arena.Storage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores[name] = s
}

// Untrack stops reporting the Storage tracked under name.
func (c *Collector) Untrack(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stores, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.used
	ch <- c.capacity
	ch <- c.remaining
	ch <- c.abandoned
	ch <- c.utilization
	ch <- c.allocs
	ch <- c.failures
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.stores))
	for name := range c.stores {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := c.stores[name].Metrics()
		gauge := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, name)
		}
		gauge(c.used, float64(m.Used))
		gauge(c.capacity, float64(m.Capacity))
		gauge(c.remaining, float64(m.Remaining))
		gauge(c.abandoned, float64(m.Abandoned))
		gauge(c.utilization, m.Utilization)
		ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocations), name)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(m.Failures), name)
	}
}

// WriteText gathers g and writes every family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "write %s", mf.GetName())
		}
	}
	return nil
}
