package fetch

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	downloadMetricsOnce sync.Once
	imageDownloads      *prometheus.CounterVec
)

func initDownloadMetrics() {
	imageDownloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentsocial",
		Name:      "image_download_total",
		Help:      "Image downloads by outcome",
	}, []string{"outcome"})
	if err := prometheus.Register(imageDownloads); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			imageDownloads = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
}

func recordDownload(outcome string) {
	downloadMetricsOnce.Do(initDownloadMetrics)
	imageDownloads.WithLabelValues(outcome).Inc()
}
