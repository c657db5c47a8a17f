package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	analyzeRequestsTotal   atomic.Uint64
	analyzeRemoteTotal     atomic.Uint64
	analyzeLocalTotal      atomic.Uint64
	analyzeFallbackTotal   atomic.Uint64
	analyzeFailedTotal     atomic.Uint64
	keysExhaustedTotal     atomic.Uint64
	translateRequestsTotal atomic.Uint64

	analyzeDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000, 15000})
)

// IncAnalyzeRequest increments the analyze-request counter.
func IncAnalyzeRequest() {
	analyzeRequestsTotal.Add(1)
}

// IncAnalyzeRemote increments the remote-path counter.
func IncAnalyzeRemote() {
	analyzeRemoteTotal.Add(1)
}

// IncAnalyzeLocal increments the local-path counter.
func IncAnalyzeLocal() {
	analyzeLocalTotal.Add(1)
}

// IncAnalyzeFallback increments the remote-to-local fallback counter.
func IncAnalyzeFallback() {
	analyzeFallbackTotal.Add(1)
}

// IncAnalyzeFailed increments the failed-analysis counter.
func IncAnalyzeFailed() {
	analyzeFailedTotal.Add(1)
}

// IncKeysExhausted increments the all-credentials-exhausted counter.
func IncKeysExhausted() {
	keysExhaustedTotal.Add(1)
}

// IncTranslateRequest increments the translation-request counter.
func IncTranslateRequest() {
	translateRequestsTotal.Add(1)
}

// ObserveAnalyzeDurationMs records an analysis duration in milliseconds.
func ObserveAnalyzeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analyzeDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analyze_requests_total", "Total analyze requests received", analyzeRequestsTotal.Load())
	writeCounter(&buf, "analyze_remote_total", "Total analyses served by the remote analyzer", analyzeRemoteTotal.Load())
	writeCounter(&buf, "analyze_local_total", "Total analyses served by the rule engine", analyzeLocalTotal.Load())
	writeCounter(&buf, "analyze_fallback_total", "Total remote analyses that fell back to the rule engine", analyzeFallbackTotal.Load())
	writeCounter(&buf, "analyze_failed_total", "Total analyses that returned an error", analyzeFailedTotal.Load())
	writeCounter(&buf, "keys_exhausted_total", "Times every remote credential was exhausted", keysExhaustedTotal.Load())
	writeCounter(&buf, "translate_requests_total", "Total translation requests", translateRequestsTotal.Load())
	writeHistogram(&buf, "analyze_duration_ms", "Analysis duration in milliseconds", analyzeDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
