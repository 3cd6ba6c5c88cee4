// Package metrics records which tier of each cascade served a request.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cascade names used as label values.
const (
	CascadeClassify  = "classify"
	CascadeTranslate = "translate"
	CascadeRespond   = "respond"
)

// Tier names used as label values.
const (
	TierAI       = "ai"
	TierKeyword  = "keyword"
	TierPublic   = "public"
	TierIdentity = "identity"
	TierFallback = "fallback"
	TierFloor    = "floor"
)

// Outcome names used as label values.
const (
	OutcomeServed  = "served"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Recorder collects cascade metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	tiers       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	validations *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodpipe",
			Name:      "cascade_tier_total",
			Help:      "Cascade tier attempts by outcome.",
		}, []string{"cascade", "tier", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "moodpipe",
			Name:      "cascade_duration_seconds",
			Help:      "Wall time of a whole cascade call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cascade"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodpipe",
			Name:      "credential_validations_total",
			Help:      "Live credential validation probes by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.tiers, r.duration, r.validations)
	return r
}

// Tier records one tier outcome.
func (r *Recorder) Tier(cascade, tier, outcome string) {
	if r == nil {
		return
	}
	r.tiers.WithLabelValues(cascade, tier, outcome).Inc()
}

// Observe records the duration of a cascade call that started at start.
func (r *Recorder) Observe(cascade string, start time.Time) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(cascade).Observe(time.Since(start).Seconds())
}

// Validation records a credential probe result.
func (r *Recorder) Validation(valid bool) {
	if r == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	r.validations.WithLabelValues(result).Inc()
}

// Handler exposes the registry in Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
