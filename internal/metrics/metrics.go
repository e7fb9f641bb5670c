// Package metrics holds the Prometheus collectors of the service layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docverify/internal/domain"
)

var (
	// extractionsTotal counts fact extractions by canonical source and result.
	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docverify_extractions_total",
		Help: "Fact extractions by canonical source and result",
	}, []string{"source", "result"})

	// extractionDuration tracks the extraction pipeline latency.
	extractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docverify_extraction_duration_seconds",
		Help:    "Fact extraction duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// validationsTotal counts answer validations by mode and verdict.
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docverify_validations_total",
		Help: "Answer validations by mode and verdict",
	}, []string{"mode", "verdict"})

	// validationIssues counts reported issues by kind.
	validationIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docverify_validation_issues_total",
		Help: "Validation issues by kind",
	}, []string{"kind"})

	// recognizerErrors counts entity recognizer failures by type.
	recognizerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docverify_recognizer_errors_total",
		Help: "Entity recognizer failures by type",
	}, []string{"error_type"})

	// cacheLookups counts facts cache lookups by result.
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docverify_facts_cache_lookups_total",
		Help: "Facts cache lookups by result",
	}, []string{"result"})
)

// ObserveExtraction records one extraction attempt.
func ObserveExtraction(source domain.Source, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	extractionsTotal.WithLabelValues(string(source), result).Inc()
	extractionDuration.Observe(elapsed.Seconds())
}

// ObserveValidation records a verdict and its issue kinds.
func ObserveValidation(mode domain.ValidationMode, result domain.ValidationResult) {
	verdict := "valid"
	if !result.IsValid {
		verdict = "invalid"
	}
	validationsTotal.WithLabelValues(string(mode), verdict).Inc()
	for _, is := range result.Details {
		validationIssues.WithLabelValues(string(is.Kind)).Inc()
	}
}

// RecognizerError records a recognizer failure; errorType is "rate_limited", "circuit_open" or "failed".
func RecognizerError(errorType string) {
	recognizerErrors.WithLabelValues(errorType).Inc()
}

// CacheLookup records a facts cache hit or miss.
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
