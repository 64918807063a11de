package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/dmcachesim/simulation"
)

// runMetrics exports the statistics of finished runs to Prometheus.
type runMetrics struct {
	registry *prometheus.Registry

	runs       prometheus.Counter
	accesses   *prometheus.GaugeVec
	compulsory *prometheus.GaugeVec
	conflict   *prometheus.GaugeVec
	hits       *prometheus.GaugeVec
	missRate   *prometheus.GaugeVec
}

func newRunMetrics() *runMetrics {
	labels := []string{"run", "n"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dmcachesim",
			Subsystem: "run",
			Name:      name,
			Help:      help,
		}, labels)
	}

	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dmcachesim",
			Name:      "runs_total",
			Help:      "Number of finished runs.",
		}),
		accesses:   gauge("accesses", "Accesses issued by a run."),
		compulsory: gauge("compulsory_misses", "Compulsory misses of a run."),
		conflict:   gauge("conflict_misses", "Conflict misses of a run."),
		hits:       gauge("hits", "Hits of a run."),
		missRate:   gauge("miss_rate", "Miss rate of a run."),
	}

	m.registry.MustRegister(
		m.runs, m.accesses, m.compulsory, m.conflict, m.hits, m.missRate)

	return m
}

func (m *runMetrics) observe(r simulation.RunResult) {
	labels := prometheus.Labels{
		"run": strconv.Itoa(r.Index),
		"n":   strconv.Itoa(r.N),
	}

	m.runs.Inc()
	m.accesses.With(labels).Set(float64(r.Stats.Accesses))
	m.compulsory.With(labels).Set(float64(r.Stats.CompulsoryMisses))
	m.conflict.With(labels).Set(float64(r.Stats.ConflictMisses))
	m.hits.With(labels).Set(float64(r.Stats.Hits))

	missRate, err := r.Stats.MissRate()
	if err == nil {
		m.missRate.With(labels).Set(missRate)
	}
}
