package drafts

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// DefaultSlot is the storage slot that holds the whole queue as one JSON array.
const DefaultSlot = "vagasPendentes"

// Draft is a vacancy opening request saved locally and not yet sent.
// Field names follow the slot layout the UI already writes.
type Draft struct {
	ID             string          `json:"id"`
	JobTitle       string          `json:"cargo"`
	Area           string          `json:"area"`
	Period         string          `json:"periodo,omitempty"`
	WorkModel      string          `json:"modeloTrabalho"`
	ContractType   string          `json:"regimeContratacao"`
	Salary         string          `json:"salario"`
	Location       string          `json:"localizacao,omitempty"`
	Requirements   string          `json:"requisitos,omitempty"`
	Justification  string          `json:"justificativa,omitempty"`
	ManagerID      json.RawMessage `json:"gestor_id,omitempty"`
	CreatedAt      time.Time       `json:"dataCriacao"`
	Pending        bool            `json:"pending"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

// ManagerRef encodes a manager id as typed by the form (number or string).
func ManagerRef(value any) json.RawMessage {
	switch v := value.(type) {
	case nil:
		return nil
	case int64:
		return json.RawMessage(strconv.FormatInt(v, 10))
	case int:
		return json.RawMessage(strconv.Itoa(v))
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}

type OutcomeStatus string

const (
	StatusSubmitted OutcomeStatus = "submitted"
	StatusFailed    OutcomeStatus = "failed"
	StatusMissing   OutcomeStatus = "missing"
)

// Outcome is the result of one reconciliation attempt.
type Outcome struct {
	ID       string        `json:"id"`
	Status   OutcomeStatus `json:"status"`
	RemoteID int64         `json:"remoteId,omitempty"`
	Kind     string        `json:"kind,omitempty"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusSubmitted
}

type Report struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Submitted  int       `json:"submitted"`
	Failed     int       `json:"failed"`
	Missing    int       `json:"missing"`
	Outcomes   []Outcome `json:"outcomes"`
}

func (r *Report) add(outcome Outcome) {
	switch outcome.Status {
	case StatusSubmitted:
		r.Submitted++
	case StatusFailed:
		r.Failed++
	case StatusMissing:
		r.Missing++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

type OutcomeEvent struct {
	DraftID   string        `json:"draftId"`
	Status    OutcomeStatus `json:"status"`
	RemoteID  int64         `json:"remoteId,omitempty"`
	JobTitle  string        `json:"jobTitle,omitempty"`
	ManagerID int64         `json:"managerId,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	At        time.Time     `json:"at"`
}

// Publisher receives every submitted or failed outcome. Errors never change the outcome.
type Publisher interface {
	Publish(ctx context.Context, event OutcomeEvent) error
}
