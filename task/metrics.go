package task

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// occupancy* are the Prometheus gauges the Task Manager updates when
// EnableStatisticsSending is on (spec §4.5's "route the statistics
// out"). Labeled by task name rather than split into per-task
// collectors, matching a typical dynamically-registered-task
// cardinality.
var (
	occupancyMean = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_mean",
		Help:      "Rolling mean of task thread CPU occupancy (Δcpu/Δwall).",
	}, []string{"task"})

	occupancyMin = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_min",
		Help:      "Rolling minimum of task thread CPU occupancy.",
	}, []string{"task"})

	occupancyMax = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_max",
		Help:      "Rolling maximum of task thread CPU occupancy.",
	}, []string{"task"})

	occupancyStdDev = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_stddev",
		Help:      "Rolling standard deviation of task thread CPU occupancy.",
	}, []string{"task"})

	occupancyP50 = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_p50",
		Help:      "p50 of task thread CPU occupancy over the rolling window.",
	}, []string{"task"})

	occupancyP90 = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_p90",
		Help:      "p90 of task thread CPU occupancy over the rolling window.",
	}, []string{"task"})

	occupancyP99 = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamcore",
		Subsystem: "task",
		Name:      "occupancy_p99",
		Help:      "p99 of task thread CPU occupancy over the rolling window.",
	}, []string{"task"})
)

func exportPrometheus(name string, s Statistics) {
	occupancyMean.WithLabelValues(name).Set(s.Mean)
	occupancyMin.WithLabelValues(name).Set(s.Min)
	occupancyMax.WithLabelValues(name).Set(s.Max)
	occupancyStdDev.WithLabelValues(name).Set(s.StdDev)
	occupancyP50.WithLabelValues(name).Set(s.P50)
	occupancyP90.WithLabelValues(name).Set(s.P90)
	occupancyP99.WithLabelValues(name).Set(s.P99)
}
