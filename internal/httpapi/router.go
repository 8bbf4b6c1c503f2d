package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"recruit_client/internal/drafts"
	"recruit_client/internal/metrics"
)

const maxBodyBytes = 1 << 20

// DraftQueue is the queue surface exposed over HTTP.
type DraftQueue interface {
	Enqueue(ctx context.Context, d drafts.Draft) (drafts.Draft, error)
	ListPending(ctx context.Context) ([]drafts.Draft, error)
	ReconcileOne(ctx context.Context, id string) (drafts.Outcome, error)
	ReconcileAll(ctx context.Context) (drafts.Report, error)
}

type Dependencies struct {
	Drafts      DraftQueue
	Session     *SessionHandler
	Metrics     *metrics.Collector
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	draftHandler := NewDraftHandler(deps.Drafts)

	r := chi.NewRouter()
	r.Use(withRequestID, withLogging(logger), withMetrics(deps.Metrics), withRecover(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.NewHandler(deps.Metrics, pendingCounter(deps.Drafts)))

	r.Route("/drafts", func(r chi.Router) {
		r.Get("/", draftHandler.List)
		r.Post("/", draftHandler.Create)
		r.Post("/resend", draftHandler.ResendAll)
		r.Post("/{id}/resend", draftHandler.Resend)
	})
	if deps.Session != nil {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", deps.Session.Current)
			r.Post("/login", deps.Session.Login)
			r.Delete("/", deps.Session.Logout)
		})
	}
	return r
}

func pendingCounter(queue DraftQueue) func(ctx context.Context) (int, error) {
	if queue == nil {
		return nil
	}
	return func(ctx context.Context) (int, error) {
		items, err := queue.ListPending(ctx)
		return len(items), err
	}
}
