package candidate

import "time"

type Candidate struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Location   string     `json:"location,omitempty"`
	Skills     []string   `json:"skills,omitempty"`
	Stage      string     `json:"stage,omitempty"`
	VacancyID  *int64     `json:"fk_vacancy,omitempty"`
	ResumeName string     `json:"resumeName,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func (c Candidate) RecordID() int64 { return c.ID }

type Page struct {
	Items []Candidate `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
}

// Resume is a downloaded resume file. Content is never JSON decoded.
type Resume struct {
	Content     []byte
	ContentType string
	Filename    string
}

// UploadFile is one file of a multi-resume upload.
type UploadFile struct {
	Name    string
	Content []byte
}

type UploadResult struct {
	Uploaded int         `json:"uploaded"`
	Failed   []string    `json:"failed,omitempty"`
	Created  []Candidate `json:"candidates,omitempty"`
}
