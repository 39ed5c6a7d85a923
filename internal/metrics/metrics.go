// Package metrics exposes Prometheus collectors for HTTP traffic and quest
// progress.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	LettersRevealed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quest_letters_revealed_total",
			Help: "Phrase slots revealed, by the stage that revealed them",
		},
		[]string{"stage"},
	)

	StageTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quest_stage_transitions_total",
			Help: "Stage transitions, by target stage",
		},
		[]string{"stage"},
	)

	QuizRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quest_quiz_rejections_total",
			Help: "Quiz answers that failed validation",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, LettersRevealed, StageTransitions, QuizRejections)
}

// ObserveReveal counts n newly revealed slots for stage.
func ObserveReveal(stage, n int) {
	if n > 0 {
		LettersRevealed.WithLabelValues(strconv.Itoa(stage)).Add(float64(n))
	}
}

// ObserveTransition counts a move into stage.
func ObserveTransition(stage int) {
	StageTransitions.WithLabelValues(strconv.Itoa(stage)).Inc()
}

// Middleware records request counts and latencies.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
