// Package metrics holds the prometheus collectors exposed at /metrics.
// Collectors live on their own registry so tests can build fresh instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the application updates.
type Metrics struct {
	registry *prometheus.Registry

	// QuizAnswers counts quiz answers by outcome ("correct" or "wrong").
	QuizAnswers *prometheus.CounterVec
	// QuizSessions counts sessions by lifecycle event ("started", "finished", "cancelled").
	QuizSessions *prometheus.CounterVec
	// VocabularyWords is the number of words in the loaded vocabulary.
	VocabularyWords prometheus.Gauge
	// VocabularyReloads counts cache reloads by result ("ok" or "error").
	VocabularyReloads *prometheus.CounterVec
	// CollaboratorFailures counts degraded calls to external services by name.
	CollaboratorFailures *prometheus.CounterVec
}

// New registers all collectors on a new registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		QuizAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "quiz_answers_total",
			Help:      "Quiz answers by outcome.",
		}, []string{"outcome"}),
		QuizSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "quiz_sessions_total",
			Help:      "Quiz session lifecycle events.",
		}, []string{"event"}),
		VocabularyWords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vocab",
			Name:      "vocabulary_words",
			Help:      "Words in the loaded vocabulary.",
		}),
		VocabularyReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "vocabulary_reloads_total",
			Help:      "Vocabulary cache reloads by result.",
		}, []string{"result"}),
		CollaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "collaborator_failures_total",
			Help:      "Failed calls to external collaborators that were degraded to empty results.",
		}, []string{"collaborator"}),
	}
	reg.MustRegister(
		m.QuizAnswers,
		m.QuizSessions,
		m.VocabularyWords,
		m.VocabularyReloads,
		m.CollaboratorFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
