package opening

import "time"

type Status string

const (
	StatusPending  Status = "pendente"
	StatusApproved Status = "aprovada"
	StatusRejected Status = "rejeitada"
)

type Request struct {
	ID            int64      `json:"id"`
	VacancyID     *int64     `json:"fk_vacancy,omitempty"`
	ManagerID     int64      `json:"fk_manager"`
	JobTitle      string     `json:"jobTitle"`
	Justification string     `json:"justification,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

func (r Request) RecordID() int64 { return r.ID }
