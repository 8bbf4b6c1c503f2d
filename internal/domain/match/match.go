package match

type Match struct {
	ID          int64   `json:"id"`
	CandidateID int64   `json:"fk_candidate"`
	VacancyID   int64   `json:"fk_vacancy"`
	Score       float64 `json:"score"`
	Notes       string  `json:"notes,omitempty"`
}

func (m Match) RecordID() int64 { return m.ID }
