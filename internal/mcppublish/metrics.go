package mcppublish

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	toolMetricsOnce sync.Once
	toolCalls       *prometheus.CounterVec
)

func initToolMetrics() {
	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentsocial",
		Name:      "publish_tool_calls_total",
		Help:      "Publish tool calls by tool, mode and outcome",
	}, []string{"tool", "mode", "outcome"})
	if err := prometheus.Register(toolCalls); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			toolCalls = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
}

func recordToolCall(tool string, mode Mode, res Result, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res.Failed():
		outcome = "failure"
	}
	toolMetricsOnce.Do(initToolMetrics)
	toolCalls.WithLabelValues(tool, string(mode), outcome).Inc()
}
