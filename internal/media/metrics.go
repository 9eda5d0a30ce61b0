package media

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	selectionMetricsOnce sync.Once
	imageSelections      *prometheus.CounterVec
)

func initSelectionMetrics() {
	imageSelections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentsocial",
		Name:      "image_selection_total",
		Help:      "Image selection runs by outcome",
	}, []string{"outcome"})
	if err := prometheus.Register(imageSelections); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			imageSelections = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
}

func recordSelection(outcome string) {
	selectionMetricsOnce.Do(initSelectionMetrics)
	imageSelections.WithLabelValues(outcome).Inc()
}
