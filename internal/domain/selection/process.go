package selection

type Stage string

const (
	StageScreening Stage = "triagem"
	StageInterview Stage = "entrevista"
	StageTechnical Stage = "teste_tecnico"
	StageOffer     Stage = "proposta"
	StageHired     Stage = "contratado"
	StageRejected  Stage = "reprovado"
)

// Stages are ordered the way the kanban board shows them.
var Stages = []Stage{StageScreening, StageInterview, StageTechnical, StageOffer, StageHired, StageRejected}

type Process struct {
	ID          int64  `json:"id"`
	CandidateID int64  `json:"fk_candidate"`
	VacancyID   int64  `json:"fk_vacancy"`
	Stage       Stage  `json:"stage"`
	Position    int    `json:"position,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (p Process) RecordID() int64 { return p.ID }
