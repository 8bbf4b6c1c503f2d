package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/candidate"
	"recruit_client/internal/domain/match"
	"recruit_client/internal/domain/opening"
	"recruit_client/internal/domain/report"
	"recruit_client/internal/domain/selection"
	"recruit_client/internal/domain/user"
	"recruit_client/internal/domain/vacancy"
)

const (
	ResourceUsers              = "users"
	ResourceVacancies          = "vacancies"
	ResourceCandidates         = "candidates"
	ResourceMatch              = "match"
	ResourceOpeningRequests    = "opening-requests"
	ResourceSelectionProcesses = "selection-process"
	ResourceDashboard          = "dashboard"
)

type Clients struct {
	Users              Users
	Vacancies          Vacancies
	Candidates         Candidates
	Matches            Matches
	OpeningRequests    OpeningRequests
	SelectionProcesses SelectionProcesses
	Dashboard          Dashboard
}

func NewClients(exec *Executor) Clients {
	return Clients{
		Users:              NewUsers(exec),
		Vacancies:          NewVacancies(exec),
		Candidates:         NewCandidates(exec),
		Matches:            NewMatches(exec),
		OpeningRequests:    NewOpeningRequests(exec),
		SelectionProcesses: NewSelectionProcesses(exec),
		Dashboard:          NewDashboard(exec),
	}
}

type Users struct {
	Resource[user.User]
}

func NewUsers(exec *Executor) Users {
	return Users{Resource: NewResource[user.User](exec, ResourceUsers)}
}

// Login fails with *common.AuthFailure when the backend rejects the credentials.
func (u Users) Login(ctx context.Context, creds user.Credentials) (*user.User, error) {
	account, err := u.one(ctx, Request{Method: http.MethodPost, Path: []string{"login"}, Body: creds, Operation: "login"})
	if err != nil {
		var httpErr *common.HTTPFailure
		if errors.As(err, &httpErr) {
			switch httpErr.Status {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return nil, &common.AuthFailure{Status: httpErr.Status, Message: httpErr.Message}
			}
		}
		return nil, err
	}
	return account, nil
}

type Vacancies struct {
	Resource[vacancy.Vacancy]
}

func NewVacancies(exec *Executor) Vacancies {
	return Vacancies{Resource: NewResource[vacancy.Vacancy](exec, ResourceVacancies)}
}

func (v Vacancies) FindByManager(ctx context.Context, managerID int64) ([]vacancy.Vacancy, error) {
	return v.list(ctx, "findByManager", "manager", FormatID(managerID))
}

func (v Vacancies) FindByStatus(ctx context.Context, status vacancy.Status) ([]vacancy.Vacancy, error) {
	return v.list(ctx, "findByStatus", "status", string(status))
}

func (v Vacancies) FindPending(ctx context.Context) ([]vacancy.Vacancy, error) {
	return v.FindByStatus(ctx, vacancy.StatusPending)
}

func (v Vacancies) FindApproved(ctx context.Context) ([]vacancy.Vacancy, error) {
	return v.FindByStatus(ctx, vacancy.StatusApproved)
}

func (v Vacancies) FindRejected(ctx context.Context) ([]vacancy.Vacancy, error) {
	return v.FindByStatus(ctx, vacancy.StatusRejected)
}

type approvalRequest struct {
	IDs []int64 `json:"ids"`
}

func (v Vacancies) SendToApproval(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return &common.ValidationFailure{Field: "ids", Message: "at least one vacancy id is required"}
	}
	req := Request{Method: http.MethodPost, Resource: v.name, Path: []string{"send-to-approval"}, Body: approvalRequest{IDs: ids}, Operation: "sendToApproval"}
	return v.exec.DoJSON(ctx, req, nil)
}

func (v Vacancies) Approve(ctx context.Context, id int64) error {
	return v.transition(ctx, http.MethodPatch, "approve", id, "approve", nil)
}

type rejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (v Vacancies) Reject(ctx context.Context, id int64, reason string) error {
	return v.transition(ctx, http.MethodPatch, "reject", id, "reject", rejectRequest{Reason: strings.TrimSpace(reason)})
}

type Candidates struct {
	Resource[candidate.Candidate]
}

func NewCandidates(exec *Executor) Candidates {
	return Candidates{Resource: NewResource[candidate.Candidate](exec, ResourceCandidates)}
}

func (c Candidates) FindPage(ctx context.Context, page, limit int) (*candidate.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var out candidate.Page
	req := Request{Method: http.MethodGet, Resource: c.name, Query: query, Operation: "findPage"}
	if err := c.exec.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []candidate.Candidate{}
	}
	return &out, nil
}

// DownloadResume returns the file bytes as sent by the server.
func (c Candidates) DownloadResume(ctx context.Context, id int64) (*candidate.Resume, error) {
	key := FormatID(id)
	raw, err := c.exec.DoRaw(ctx, Request{Method: http.MethodGet, Resource: c.name, Path: []string{key, "resume"}, Operation: "downloadResume", ID: key})
	if err != nil {
		return nil, err
	}
	return &candidate.Resume{Content: raw.Body, ContentType: raw.ContentType, Filename: raw.Filename}, nil
}

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

func (c Candidates) UploadResumes(ctx context.Context, files []candidate.UploadFile) (*candidate.UploadResult, error) {
	if len(files) == 0 {
		return nil, &common.ValidationFailure{Field: "files", Message: "at least one file is required"}
	}
	parts := make([]FilePart, 0, len(files))
	for _, file := range files {
		if !resumeExtensions[strings.ToLower(filepath.Ext(file.Name))] {
			return nil, &common.ValidationFailure{Field: "files", Message: "unsupported file type: " + file.Name}
		}
		parts = append(parts, FilePart{Field: "files", Name: file.Name, Content: file.Content})
	}
	var out candidate.UploadResult
	req := Request{Method: http.MethodPost, Resource: c.name, Path: []string{"upload-multiple-resumes"}, Operation: "uploadResumes"}
	if err := c.exec.DoMultipart(ctx, req, parts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Matches struct {
	Resource[match.Match]
}

func NewMatches(exec *Executor) Matches {
	return Matches{Resource: NewResource[match.Match](exec, ResourceMatch)}
}

func (m Matches) FindByVacancy(ctx context.Context, vacancyID int64) ([]match.Match, error) {
	return m.list(ctx, "findByVacancy", "vacancy", FormatID(vacancyID))
}

type OpeningRequests struct {
	Resource[opening.Request]
}

func NewOpeningRequests(exec *Executor) OpeningRequests {
	return OpeningRequests{Resource: NewResource[opening.Request](exec, ResourceOpeningRequests)}
}

func (o OpeningRequests) FindByStatus(ctx context.Context, status opening.Status) ([]opening.Request, error) {
	return o.list(ctx, "findByStatus", "status", string(status))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (o OpeningRequests) UpdateStatus(ctx context.Context, id int64, status opening.Status) error {
	return o.transition(ctx, http.MethodPatch, "updateStatus", id, "status", statusRequest{Status: string(status)})
}

type SelectionProcesses struct {
	Resource[selection.Process]
}

func NewSelectionProcesses(exec *Executor) SelectionProcesses {
	return SelectionProcesses{Resource: NewResource[selection.Process](exec, ResourceSelectionProcesses)}
}

func (s SelectionProcesses) FindByStage(ctx context.Context, stage selection.Stage) ([]selection.Process, error) {
	return s.list(ctx, "findByStage", "stage", string(stage))
}

type stageRequest struct {
	Stage    string `json:"stage"`
	Position *int   `json:"position,omitempty"`
}

// UpdateStage moves a process to another kanban column. position is optional.
func (s SelectionProcesses) UpdateStage(ctx context.Context, id int64, stage selection.Stage, position *int) error {
	return s.transition(ctx, http.MethodPatch, "updateStage", id, "stage", stageRequest{Stage: string(stage), Position: position})
}

// Dashboard is read-only; it deliberately has no CRUD.
type Dashboard struct {
	exec *Executor
}

func NewDashboard(exec *Executor) Dashboard {
	return Dashboard{exec: exec}
}

func (d Dashboard) Metrics(ctx context.Context) (*report.Metrics, error) {
	var out report.Metrics
	req := Request{Method: http.MethodGet, Resource: ResourceDashboard, Path: []string{"metrics"}, Operation: "metrics"}
	if err := d.exec.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d Dashboard) TimeSeries(ctx context.Context, metric, period string) (*report.Series, error) {
	query := url.Values{}
	if metric != "" {
		query.Set("metric", metric)
	}
	if period != "" {
		query.Set("period", period)
	}
	var out report.Series
	req := Request{Method: http.MethodGet, Resource: ResourceDashboard, Path: []string{"time-series"}, Query: query, Operation: "timeSeries"}
	if err := d.exec.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Points == nil {
		out.Points = []report.Point{}
	}
	return &out, nil
}
