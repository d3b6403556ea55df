package metrics

import "github.com/prometheus/client_golang/prometheus"

// Claim pipeline Prometheus metrics.
var (
	ClaimsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "truthguard",
			Name:      "claims_processed_total",
			Help:      "Total number of claims that reached a terminal status",
		},
		[]string{"status"}, // "completed" / "failed"
	)

	ClaimProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "truthguard",
			Name:      "claim_processing_duration_seconds",
			Help:      "End-to-end claim processing duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"content_type"},
	)

	ClaimsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "truthguard",
			Name:      "claims_enqueued_total",
			Help:      "Claims submitted to the processing queue",
		},
		[]string{"result"}, // "accepted" / "rejected"
	)

	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "truthguard",
			Name:      "extraction_duration_seconds",
			Help:      "Media content extraction duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"}, // "ocr" / "transcription"
	)

	KnowledgeIngestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "truthguard",
			Name:      "knowledge_ingestions_total",
			Help:      "Fact-check articles ingested into the knowledge base",
		},
		[]string{"result"}, // "ok" / "error" / "disabled"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClaimsProcessedTotal)
	prometheus.MustRegister(ClaimProcessingDuration)
	prometheus.MustRegister(ClaimsEnqueuedTotal)
	prometheus.MustRegister(ExtractionDuration)
	prometheus.MustRegister(KnowledgeIngestionsTotal)
	pipelineMetricsRegistered = true
}
