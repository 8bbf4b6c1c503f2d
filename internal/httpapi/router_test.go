package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/user"
	"recruit_client/internal/drafts"
	"recruit_client/internal/lock"
	"recruit_client/internal/metrics"
	"recruit_client/internal/session"
	"recruit_client/internal/store"
)

type fakeQueue struct {
	items     []drafts.Draft
	enqueued  []drafts.Draft
	outcome   drafts.Outcome
	oneErr    error
	report    drafts.Report
	allErr    error
	resendIDs []string
}

func (f *fakeQueue) Enqueue(_ context.Context, d drafts.Draft) (drafts.Draft, error) {
	d.ID = "tmp-1"
	d.Pending = true
	f.enqueued = append(f.enqueued, d)
	return d, nil
}

func (f *fakeQueue) ListPending(context.Context) ([]drafts.Draft, error) {
	return f.items, nil
}

func (f *fakeQueue) ReconcileOne(_ context.Context, id string) (drafts.Outcome, error) {
	f.resendIDs = append(f.resendIDs, id)
	return f.outcome, f.oneErr
}

func (f *fakeQueue) ReconcileAll(context.Context) (drafts.Report, error) {
	return f.report, f.allErr
}

func newTestRouter(queue DraftQueue, sessionHandler *SessionHandler, collector *metrics.Collector) http.Handler {
	return NewRouter(Dependencies{
		Drafts:      queue,
		Session:     sessionHandler,
		Metrics:     collector,
		CORSOrigins: []string{"http://ui.local"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestRouter(&fakeQueue{}, nil, nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	newTestRouter(&fakeQueue{}, nil, nil).ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("unexpected request id %q", got)
	}
}

func TestCreateAndListDrafts(t *testing.T) {
	queue := &fakeQueue{items: []drafts.Draft{{ID: "tmp-a", JobTitle: "Analista"}}}
	router := newTestRouter(queue, nil, nil)

	rec := doRequest(router, http.MethodPost, "/drafts", `{"cargo":"Dev","gestor_id":"7","salario":"R$ 3.000,00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d %s", rec.Code, rec.Body.String())
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0].JobTitle != "Dev" || string(queue.enqueued[0].ManagerID) != `"7"` {
		t.Fatalf("unexpected enqueued draft: %+v", queue.enqueued)
	}

	rec = doRequest(router, http.MethodGet, "/drafts", "")
	var items []drafts.Draft
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil || len(items) != 1 || items[0].ID != "tmp-a" {
		t.Fatalf("unexpected list %s err %v", rec.Body.String(), err)
	}
}

func TestCreateDraftRejectsInvalidJSON(t *testing.T) {
	rec := doRequest(newTestRouter(&fakeQueue{}, nil, nil), http.MethodPost, "/drafts", `{"cargo":`)
	if rec.Code != http.StatusUnprocessableEntity || decodeError(t, rec).Field != "body" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateDraftRejectsMalformedManager(t *testing.T) {
	slot := store.NewMemory(0)
	queue := drafts.NewQueue(slot, "", nil, nil, drafts.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router := newTestRouter(queue, nil, nil)

	rec := doRequest(router, http.MethodPost, "/drafts", `{"cargo":"Dev","gestor_id":{"x":1}}`)
	if rec.Code != http.StatusUnprocessableEntity || decodeError(t, rec).Field != "gestor_id" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if _, err := slot.Get(context.Background(), drafts.DefaultSlot); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("rejected draft must not be written, got %v", err)
	}

	rec = doRequest(router, http.MethodPost, "/drafts", `{"cargo":"Dev","gestor_id":7}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(router, http.MethodGet, "/drafts", "")
	var items []drafts.Draft
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil || len(items) != 1 {
		t.Fatalf("unexpected list %d %s err %v", rec.Code, rec.Body.String(), err)
	}
}

func TestResendStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", &common.ValidationFailure{Field: "gestor_id", Message: "gestor_id is required"}, http.StatusUnprocessableEntity, common.KindValidation},
		{"remote", &common.HTTPFailure{Status: 500, Operation: "insert"}, http.StatusBadGateway, common.KindHTTP},
		{"network", &common.NetworkFailure{Operation: "insert", Err: errors.New("refused")}, http.StatusBadGateway, common.KindNetwork},
		{"quota", &common.PersistenceFailure{Key: "vagasPendentes", Err: store.ErrQuotaExceeded}, http.StatusInsufficientStorage, common.KindPersistence},
		{"busy", lock.ErrBusy, http.StatusConflict, "busy"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, common.KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			queue := &fakeQueue{outcome: drafts.Outcome{ID: "tmp-1", Status: drafts.StatusFailed}, oneErr: tc.err}
			rec := doRequest(newTestRouter(queue, nil, nil), http.MethodPost, "/drafts/tmp-1/resend", "")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d %s", tc.status, rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Error != tc.kind {
				t.Fatalf("expected kind %q, got %+v", tc.kind, body)
			}
		})
	}
}

func TestResendValidationCarriesField(t *testing.T) {
	queue := &fakeQueue{oneErr: &common.ValidationFailure{Field: "gestor_id", Message: "gestor_id is required"}}
	rec := doRequest(newTestRouter(queue, nil, nil), http.MethodPost, "/drafts/tmp-9/resend", "")
	body := decodeError(t, rec)
	if body.Field != "gestor_id" || queue.resendIDs[0] != "tmp-9" {
		t.Fatalf("unexpected body %+v ids %v", body, queue.resendIDs)
	}
}

func TestResendMissingIsOK(t *testing.T) {
	queue := &fakeQueue{outcome: drafts.Outcome{ID: "tmp-x", Status: drafts.StatusMissing}}
	rec := doRequest(newTestRouter(queue, nil, nil), http.MethodPost, "/drafts/tmp-x/resend", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"missing"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestResendAllReturnsReport(t *testing.T) {
	queue := &fakeQueue{report: drafts.Report{Submitted: 2, Failed: 1, Outcomes: []drafts.Outcome{{ID: "tmp-1"}, {ID: "tmp-2"}, {ID: "tmp-3"}}}}
	rec := doRequest(newTestRouter(queue, nil, nil), http.MethodPost, "/drafts/resend", "")
	var report drafts.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rec.Code != http.StatusOK || report.Submitted != 2 || len(report.Outcomes) != 3 {
		t.Fatalf("unexpected report %d %+v", rec.Code, report)
	}
}

func TestMetricsCountRequestsAndErrors(t *testing.T) {
	collector := metrics.NewCollector()
	router := newTestRouter(&fakeQueue{oneErr: errors.New("boom")}, nil, collector)
	doRequest(router, http.MethodGet, "/health", "")
	doRequest(router, http.MethodPost, "/drafts/tmp-1/resend", "")

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	if !strings.Contains(body, "draftagent_requests_total 3") || !strings.Contains(body, "draftagent_errors_total 1") {
		t.Fatalf("unexpected metrics:\n%s", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/drafts", nil)
	req.Header.Set("Origin", "http://ui.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeQueue{}, nil, nil).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://ui.local" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

type fakeAuth struct {
	account *user.User
	err     error
}

func (f fakeAuth) Login(context.Context, user.Credentials) (*user.User, error) {
	return f.account, f.err
}

func TestSessionLoginAndLogout(t *testing.T) {
	slot := session.NewSlot(store.NewMemory(0), "")
	handler := NewSessionHandler(fakeAuth{account: &user.User{ID: 7, Name: "Gestora", Role: user.RoleManager}}, slot)
	router := newTestRouter(&fakeQueue{}, handler, nil)

	if rec := doRequest(router, http.MethodGet, "/session", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected no session, got %d", rec.Code)
	}
	rec := doRequest(router, http.MethodPost, "/session/login", `{"email":"g@empresa.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed %d %s", rec.Code, rec.Body.String())
	}
	account, err := slot.Current(context.Background())
	if err != nil || account == nil || account.ID != 7 {
		t.Fatalf("session not saved: %+v %v", account, err)
	}
	if rec := doRequest(router, http.MethodDelete, "/session", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout failed %d", rec.Code)
	}
	if account, _ := slot.Current(context.Background()); account != nil {
		t.Fatalf("session not cleared: %+v", account)
	}
}

func TestSessionLoginRejected(t *testing.T) {
	slot := session.NewSlot(store.NewMemory(0), "")
	handler := NewSessionHandler(fakeAuth{err: &common.AuthFailure{Status: http.StatusUnauthorized, Message: "credenciais inválidas"}}, slot)
	rec := doRequest(newTestRouter(&fakeQueue{}, handler, nil), http.MethodPost, "/session/login", `{"email":"g@empresa.com","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Status != http.StatusUnauthorized {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
