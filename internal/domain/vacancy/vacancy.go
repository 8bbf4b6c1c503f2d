package vacancy

import "time"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
)

type ContractType string

const (
	ContractCLT        ContractType = "CLT"
	ContractPJ         ContractType = "PJ"
	ContractEstagio    ContractType = "Estágio"
	ContractTemporario ContractType = "Temporário"
	ContractAutonomo   ContractType = "Autônomo"
)

type WorkModel string

const (
	WorkPresencial WorkModel = "presencial"
	WorkRemoto     WorkModel = "remoto"
	WorkHibrido    WorkModel = "híbrido"
)

type Vacancy struct {
	ID            int64        `json:"id"`
	JobTitle      string       `json:"jobTitle"`
	Area          string       `json:"area"`
	Period        string       `json:"period,omitempty"`
	WorkModel     WorkModel    `json:"workModel"`
	ContractType  ContractType `json:"contractType"`
	Salary        float64      `json:"salary"`
	Location      string       `json:"location,omitempty"`
	Requirements  string       `json:"requirements,omitempty"`
	Justification string       `json:"justification,omitempty"`
	Status        Status       `json:"status"`
	ManagerID     int64        `json:"fk_manager"`
	RejectReason  string       `json:"rejectReason,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

func (v Vacancy) RecordID() int64 { return v.ID }
