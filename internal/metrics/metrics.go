// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	EngineRules    = "rules"
	EngineClassify = "classifiers"
)

var (
	// Assessments counts answered predictions. band is the rule band for the
	// rule engine and "abandon"/"complete" for the classifier pipeline.
	Assessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartsense_assessments_total",
			Help: "Total number of abandonment assessments served",
		},
		[]string{"engine", "band"},
	)

	InferenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartsense_inference_failures_total",
			Help: "Total number of classifier pipeline invocations that failed",
		},
	)

	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartsense_inference_duration_seconds",
			Help:    "Duration of a full classifier pipeline invocation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	NodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartsense_graph_node_duration_seconds",
			Help:    "Duration of individual inference graph nodes",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"node"},
	)
)

// RecordAssessment increments the assessment counter.
func RecordAssessment(engine, band string) {
	Assessments.WithLabelValues(engine, band).Inc()
}
