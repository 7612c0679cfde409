package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	submissionsInsertedTotal atomic.Uint64
	submissionsDeletedTotal  atomic.Uint64
	linksOpenedTotal         atomic.Uint64
	linksReleasedTotal       atomic.Uint64
	importSkippedTotal       atomic.Uint64

	downloadBytes = newHistogram([]float64{1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 10 << 20})
)

// IncSubmissionInserted increments the inserted counter.
func IncSubmissionInserted() {
	submissionsInsertedTotal.Add(1)
}

// IncSubmissionDeleted increments the deleted counter.
func IncSubmissionDeleted() {
	submissionsDeletedTotal.Add(1)
}

// AddLinksOpened records newly minted download links.
func AddLinksOpened(n int) {
	if n > 0 {
		linksOpenedTotal.Add(uint64(n))
	}
}

// AddLinksReleased records released download links.
func AddLinksReleased(n int) {
	if n > 0 {
		linksReleasedTotal.Add(uint64(n))
	}
}

// IncImportSkipped increments the malformed-record counter.
func IncImportSkipped() {
	importSkippedTotal.Add(1)
}

// ObserveDownloadBytes records the size of a served attachment.
func ObserveDownloadBytes(value float64) {
	if value < 0 {
		value = 0
	}
	downloadBytes.Observe(value)
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
	writeCounter(&buf, "submissions_inserted_total", "Total submissions inserted", submissionsInsertedTotal.Load())
	writeCounter(&buf, "submissions_deleted_total", "Total submissions deleted", submissionsDeletedTotal.Load())
	writeCounter(&buf, "download_links_opened_total", "Total download links opened", linksOpenedTotal.Load())
	writeCounter(&buf, "download_links_released_total", "Total download links released", linksReleasedTotal.Load())
	writeCounter(&buf, "import_records_skipped_total", "Total malformed legacy records skipped", importSkippedTotal.Load())
	writeHistogram(&buf, "download_bytes", "Served attachment size in bytes", downloadBytes.Snapshot())
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
