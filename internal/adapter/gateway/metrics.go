package gateway

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics holds the gateway's atomic counters.
type Metrics struct {
	RequestsTotal atomic.Int64
	RequestErrors atomic.Int64
	ChatRequests  atomic.Int64
	ChatErrors    atomic.Int64
	TokensTotal   atomic.Int64
}

// metricsHandler returns an HTTP handler for GET /metrics in Prometheus text
// format. The lightweight text format avoids pulling in the full prometheus
// client for a handful of counters.
func metricsHandler(metrics *Metrics, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		fmt.Fprintf(w, "# HELP agents_requests_total Total HTTP requests handled.\n")
		fmt.Fprintf(w, "# TYPE agents_requests_total counter\n")
		fmt.Fprintf(w, "agents_requests_total %d\n", metrics.RequestsTotal.Load())

		fmt.Fprintf(w, "# HELP agents_request_errors_total Total HTTP requests that failed.\n")
		fmt.Fprintf(w, "# TYPE agents_request_errors_total counter\n")
		fmt.Fprintf(w, "agents_request_errors_total %d\n", metrics.RequestErrors.Load())

		fmt.Fprintf(w, "# HELP agents_chat_requests_total Total chat requests routed.\n")
		fmt.Fprintf(w, "# TYPE agents_chat_requests_total counter\n")
		fmt.Fprintf(w, "agents_chat_requests_total %d\n", metrics.ChatRequests.Load())

		fmt.Fprintf(w, "# HELP agents_chat_errors_total Total chat requests that failed.\n")
		fmt.Fprintf(w, "# TYPE agents_chat_errors_total counter\n")
		fmt.Fprintf(w, "agents_chat_errors_total %d\n", metrics.ChatErrors.Load())

		fmt.Fprintf(w, "# HELP agents_tokens_total Total tokens consumed by completed chats.\n")
		fmt.Fprintf(w, "# TYPE agents_tokens_total counter\n")
		fmt.Fprintf(w, "agents_tokens_total %d\n", metrics.TokensTotal.Load())

		fmt.Fprintf(w, "# HELP agents_uptime_seconds Seconds since the gateway started.\n")
		fmt.Fprintf(w, "# TYPE agents_uptime_seconds gauge\n")
		fmt.Fprintf(w, "agents_uptime_seconds %.0f\n", time.Since(startTime).Seconds())

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		fmt.Fprintf(w, "# HELP go_goroutines Number of goroutines.\n")
		fmt.Fprintf(w, "# TYPE go_goroutines gauge\n")
		fmt.Fprintf(w, "go_goroutines %d\n", runtime.NumGoroutine())

		fmt.Fprintf(w, "# HELP go_memstats_alloc_bytes Bytes of allocated heap objects.\n")
		fmt.Fprintf(w, "# TYPE go_memstats_alloc_bytes gauge\n")
		fmt.Fprintf(w, "go_memstats_alloc_bytes %d\n", mem.Alloc)
	}
}
