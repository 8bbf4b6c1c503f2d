package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"recruit_client/internal/common"
	"recruit_client/internal/lock"
	"recruit_client/internal/store"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := describeError(err)
	writeJSON(w, status, body)
}

func describeError(err error) (int, errorResponse) {
	body := errorResponse{Error: common.Kind(err), Message: err.Error()}

	var validation *common.ValidationFailure
	var httpErr *common.HTTPFailure
	var authErr *common.AuthFailure
	switch {
	case errors.As(err, &validation):
		body.Field = validation.Field
		body.Message = validation.Message
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &authErr):
		body.Status = authErr.Status
		return http.StatusUnauthorized, body
	case errors.As(err, &httpErr):
		body.Status = httpErr.Status
		return http.StatusBadGateway, body
	case errors.Is(err, lock.ErrBusy):
		body.Error = "busy"
		return http.StatusConflict, body
	case errors.Is(err, store.ErrQuotaExceeded):
		return http.StatusInsufficientStorage, body
	}
	switch body.Error {
	case common.KindNetwork:
		return http.StatusBadGateway, body
	case common.KindDecode, common.KindPersistence:
		return http.StatusInternalServerError, body
	}
	body.Error = common.KindInternal
	body.Message = "internal error"
	return http.StatusInternalServerError, body
}
