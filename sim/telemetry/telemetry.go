// Package telemetry exports sweep progress as Prometheus metrics.
package telemetry

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/qtree-sim/sim"
	"github.com/inference-sim/qtree-sim/sim/sweep"
)

const namespace = "qtree"

// Collector implements sweep.Observer on top of a Prometheus registry.
// ObserveTrial is safe for concurrent use.
type Collector struct {
	registry    *prometheus.Registry
	trials      prometheus.Counter
	queries     *prometheus.CounterVec
	meanQueries *prometheus.GaugeVec
	efficiency  *prometheus.GaugeVec
}

var _ sweep.Observer = (*Collector)(nil)

// NewCollector registers the sweep metrics on reg.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	c := &Collector{
		registry: reg,
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Resolution runs completed.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Reader queries issued, by outcome.",
		}, []string{"outcome"}),
		meanQueries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_queries",
			Help:      "Mean queries to identify every tag, by population size.",
		}, []string{"tags"}),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "efficiency_percent",
			Help:      "Tags identified per query, by population size.",
		}, []string{"tags"}),
	}
	for _, col := range []prometheus.Collector{c.trials, c.queries, c.meanQueries, c.efficiency} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("registering sweep metrics: %w", err)
		}
	}
	return c, nil
}

// ObserveTrial records one finished resolution run.
func (c *Collector) ObserveTrial(_ int, res sim.RunResult) {
	c.trials.Inc()
	c.queries.WithLabelValues(sim.Idle.String()).Add(float64(res.IdleQueries))
	c.queries.WithLabelValues(sim.Success.String()).Add(float64(res.Identified))
	c.queries.WithLabelValues(sim.Collision.String()).Add(float64(res.Collisions))
}

// ObservePoint records the aggregate for one population size.
func (c *Collector) ObservePoint(p sweep.Point) {
	tags := strconv.Itoa(p.Tags)
	c.meanQueries.WithLabelValues(tags).Set(p.MeanQueries)
	c.efficiency.WithLabelValues(tags).Set(p.Efficiency)
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
