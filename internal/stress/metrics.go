package stress

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors updated by Execute.
type Metrics struct {
	Reads         *prometheus.CounterVec
	Writes        *prometheus.CounterVec
	TornReads     *prometheus.CounterVec
	WriteDuration *prometheus.HistogramVec
	Outstanding   *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atomicslice",
				Subsystem: "stress",
				Name:      "reads_total",
				Help:      "Total number of leases acquired",
			},
			[]string{"run"},
		),
		Writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atomicslice",
				Subsystem: "stress",
				Name:      "writes_total",
				Help:      "Total number of completed writes",
			},
			[]string{"run"},
		),
		TornReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atomicslice",
				Subsystem: "stress",
				Name:      "torn_reads_total",
				Help:      "Total number of reads that observed more than one write",
			},
			[]string{"run"},
		),
		WriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "atomicslice",
				Subsystem: "stress",
				Name:      "write_duration_seconds",
				Help:      "Time spent in Write, including waiting for the gate and draining readers",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
			},
			[]string{"run"},
		),
		Outstanding: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "atomicslice",
				Subsystem: "stress",
				Name:      "outstanding_leases",
				Help:      "Leases registered with each generation when last sampled",
			},
			[]string{"run", "generation"},
		),
	}
	reg.MustRegister(m.Reads, m.Writes, m.TornReads, m.WriteDuration, m.Outstanding)
	return m
}
