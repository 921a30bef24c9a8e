package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total HTTP requests by status code",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "studio_http_request_duration_seconds",
		Help:    "HTTP request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "studio_http_in_flight",
		Help: "In-flight HTTP requests",
	})
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_generations_total",
			Help: "Generation calls by operation and outcome",
		}, []string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, Latency, InFlight, GenerationsTotal)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

// ObserveGeneration records one generation call's outcome.
func ObserveGeneration(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GenerationsTotal.WithLabelValues(operation, outcome).Inc()
}

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
