package common

import (
	"errors"
	"fmt"
)

const (
	KindNetwork     = "network"
	KindHTTP        = "http"
	KindDecode      = "decode"
	KindAuth        = "auth"
	KindPersistence = "persistence"
	KindValidation  = "validation"
	KindInternal    = "internal"
)

// NetworkFailure означает, что запрос не дошел до сервера или ответ не получен (включая таймаут).
type NetworkFailure struct {
	Operation string
	Err       error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Operation, e.Err)
}

func (e *NetworkFailure) Unwrap() error { return e.Err }

// HTTPFailure означает, что сервер ответил статусом вне 2xx.
type HTTPFailure struct {
	Status    int
	Operation string
	ID        string
	Message   string
}

func (e *HTTPFailure) Error() string {
	msg := fmt.Sprintf("%s: http status %d", e.Operation, e.Status)
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id %s)", msg, e.ID)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// DecodeFailure означает, что тело ответа или хранилища не удалось разобрать.
type DecodeFailure struct {
	Operation string
	Err       error
}

func (e *DecodeFailure) Error() string {
	return fmt.Sprintf("%s: decode failure: %v", e.Operation, e.Err)
}

func (e *DecodeFailure) Unwrap() error { return e.Err }

// AuthFailure возвращается при отказе в логине, отдельно от обычного HTTPFailure.
type AuthFailure struct {
	Status  int
	Message string
}

func (e *AuthFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login rejected: status %d", e.Status)
	}
	return fmt.Sprintf("login rejected: status %d: %s", e.Status, e.Message)
}

// PersistenceFailure означает ошибку записи в локальное хранилище.
type PersistenceFailure struct {
	Key string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Key, e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }

// ValidationFailure означает отсутствие или неверный формат обязательного поля до сетевого вызова.
type ValidationFailure struct {
	Field   string
	Message string
}

func (e *ValidationFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid field %s", e.Field)
	}
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Message)
}

// Kind возвращает тип ошибки для ответов HTTP и метрик.
func Kind(err error) string {
	var (
		network     *NetworkFailure
		httpErr     *HTTPFailure
		decode      *DecodeFailure
		auth        *AuthFailure
		persistence *PersistenceFailure
		validation  *ValidationFailure
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &auth):
		return KindAuth
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &decode):
		return KindDecode
	case errors.As(err, &persistence):
		return KindPersistence
	case errors.As(err, &network):
		return KindNetwork
	default:
		return KindInternal
	}
}
