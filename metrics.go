package ui

import (
	"github.com/prometheus/client_golang/prometheus"
)

var collections = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "uistate",
	Subsystem: "statetree",
	Name:      "collections_total",
	Help:      "Number of change collections run on state trees.",
})

var changesEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "uistate",
	Subsystem: "statetree",
	Name:      "changes_total",
	Help:      "Change records emitted by state tree collections.",
}, []string{"op"})

var dirtyNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "uistate",
	Subsystem: "statetree",
	Name:      "dirty_nodes",
	Help:      "Nodes visited per collection.",
	Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200, 500, 1000},
})

var collectDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "uistate",
	Subsystem: "statetree",
	Name:      "collect_duration_seconds",
	Help:      "Time spent collecting the changes of a tree.",
	Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
})

// Collectors returns the metrics maintained by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{collections, changesEmitted, dirtyNodes, collectDuration}
}

// RegisterMetrics registers the package metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
