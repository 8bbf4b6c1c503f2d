package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recruit_client/internal/common"
	"recruit_client/internal/drafts"
)

type DraftHandler struct {
	queue DraftQueue
}

func NewDraftHandler(queue DraftQueue) *DraftHandler {
	return &DraftHandler{queue: queue}
}

func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.queue.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d drafts.Draft
	if err := decodeBody(w, r, &d); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.queue.Enqueue(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DraftHandler) Resend(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.queue.ReconcileOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *DraftHandler) ResendAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.queue.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(out); err != nil {
		return &common.ValidationFailure{Field: "body", Message: "invalid json body"}
	}
	return nil
}
