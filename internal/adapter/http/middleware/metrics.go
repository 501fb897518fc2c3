package middleware

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

// statusRecorder remembers the status written by the handler and whether the
// connection was taken over by a websocket upgrade.
type statusRecorder struct {
	http.ResponseWriter
	status   int
	hijacked bool
}

// Hijack is required by websocket.Upgrader on the passenger display route.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	conn, buf, err := h.Hijack()
	if err == nil {
		rw.hijacked = true
	}
	return conn, buf, err
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Metrics records request count and latency per route pattern.
// A hijacked display stream is counted as 101 once it closes.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			inFlight := metrics.HttpRequestsInFlight.WithLabelValues(serviceName)
			inFlight.Inc()
			defer inFlight.Dec()

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			// the matched pattern keeps bus and quote ids out of the label set
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}
			status := rw.status
			if rw.hijacked {
				status = http.StatusSwitchingProtocols
			}
			metrics.RecordHTTPMetrics(serviceName, r.Method, path, status, time.Since(start))
		})
	}
}
