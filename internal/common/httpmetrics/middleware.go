package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

// Collector records request counts, in-flight requests and latency for
// one service. Paths are normalized so ids do not explode label cardinality.
type Collector struct {
	requestsTotal *prometheus.CounterVec
	inFlight      prometheus.Gauge
	duration      *prometheus.HistogramVec
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func New(prefix string) *Collector {
	switch prefix {
	case "account":
		return &Collector{
			requestsTotal: metrics.AccountRequestsTotal,
			inFlight:      metrics.AccountRequestsInFlight,
			duration:      metrics.AccountRequestDurationSeconds,
		}
	default:
		panic(fmt.Sprintf("httpmetrics: no collectors registered for %q", prefix))
	}
}

func (c *Collector) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method

		path := NormalizePath(r.URL.Path)

		c.requestsTotal.WithLabelValues(method, path).Inc()
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		c.duration.WithLabelValues(method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}
