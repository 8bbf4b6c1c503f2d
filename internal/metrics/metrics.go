package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"recruit_client/internal/drafts"
)

type Collector struct {
	requests  uint64
	errors    uint64
	submitted uint64
	failed    uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

// Publish считает исходы отправки черновиков.
func (c *Collector) Publish(_ context.Context, event drafts.OutcomeEvent) error {
	switch event.Status {
	case drafts.StatusSubmitted:
		atomic.AddUint64(&c.submitted, 1)
	case drafts.StatusFailed:
		atomic.AddUint64(&c.failed, 1)
	}
	return nil
}

type Snapshot struct {
	Requests        uint64
	Errors          uint64
	DraftsSubmitted uint64
	DraftsFailed    uint64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:        atomic.LoadUint64(&c.requests),
		Errors:          atomic.LoadUint64(&c.errors),
		DraftsSubmitted: atomic.LoadUint64(&c.submitted),
		DraftsFailed:    atomic.LoadUint64(&c.failed),
	}
}

type Handler struct {
	collector *Collector
	pending   func(ctx context.Context) (int, error)
}

// NewHandler отдает счетчики в текстовом формате Prometheus. pending может быть nil.
func NewHandler(collector *Collector, pending func(ctx context.Context) (int, error)) *Handler {
	return &Handler{collector: collector, pending: pending}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var snapshot Snapshot
	if h.collector != nil {
		snapshot = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeCounter(w, "draftagent_requests_total", "Total number of HTTP requests.", snapshot.Requests)
	writeCounter(w, "draftagent_errors_total", "Total number of 5xx HTTP responses.", snapshot.Errors)
	writeCounter(w, "draftagent_drafts_submitted_total", "Drafts accepted by the backend and removed locally.", snapshot.DraftsSubmitted)
	writeCounter(w, "draftagent_drafts_failed_total", "Failed draft submission attempts.", snapshot.DraftsFailed)
	if h.pending != nil {
		if count, err := h.pending(r.Context()); err == nil {
			_, _ = fmt.Fprintf(w, "# HELP draftagent_drafts_pending Drafts waiting in the local queue.\n")
			_, _ = fmt.Fprintf(w, "# TYPE draftagent_drafts_pending gauge\n")
			_, _ = fmt.Fprintf(w, "draftagent_drafts_pending %d\n", count)
		}
	}
}

func writeCounter(w http.ResponseWriter, name, help string, value uint64) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s counter\n", name)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
