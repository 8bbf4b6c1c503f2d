package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruit_client/internal/api"
	"recruit_client/internal/common"
	"recruit_client/internal/domain/vacancy"
	"recruit_client/internal/lock"
	"recruit_client/internal/session"
	"recruit_client/internal/store"
)

const (
	defaultLeaseTTL  = 2 * time.Minute
	writeLeaseTTL    = 5 * time.Second
	writeRetryDelay  = 25 * time.Millisecond
	writeMaxAttempts = 40
)

// VacancyClient is the part of the vacancies resource the queue needs.
type VacancyClient interface {
	Insert(ctx context.Context, data any, opts ...api.CallOption) (*vacancy.Vacancy, error)
	SendToApproval(ctx context.Context, ids []int64) error
}

// Queue keeps unsent drafts in one storage slot and submits them on demand.
type Queue struct {
	store      store.Store
	key        string
	vacancies  VacancyClient
	identity   session.Identity
	locker     lock.Locker
	leaseTTL   time.Duration
	publishers []Publisher
	logger     *slog.Logger
	clock      func() time.Time
	newID      func() string

	mu sync.Mutex

	claimMu  sync.Mutex
	inflight map[string]struct{}
}

type Option func(*Queue)

// WithLocker serializes slot writes and reconcile passes across processes.
func WithLocker(locker lock.Locker, leaseTTL time.Duration) Option {
	return func(q *Queue) {
		q.locker = locker
		if leaseTTL > 0 {
			q.leaseTTL = leaseTTL
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(q *Queue) {
		if p != nil {
			q.publishers = append(q.publishers, p)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(q *Queue) { q.clock = clock }
}

func WithIDGenerator(gen func() string) Option {
	return func(q *Queue) { q.newID = gen }
}

func NewQueue(s store.Store, slotKey string, vacancies VacancyClient, identity session.Identity, opts ...Option) *Queue {
	if slotKey == "" {
		slotKey = DefaultSlot
	}
	q := &Queue{
		store:     s,
		key:       slotKey,
		vacancies: vacancies,
		identity:  identity,
		leaseTTL:  defaultLeaseTTL,
		logger:    slog.Default(),
		clock:     time.Now,
		newID:     uuid.NewString,
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Slot() string {
	return q.key
}

// Enqueue assigns a fresh temporary id and appends the draft to the slot.
func (q *Queue) Enqueue(ctx context.Context, d Draft) (Draft, error) {
	d.ID = common.TemporaryIDPrefix + q.newID()
	if d.IdempotencyKey == "" {
		d.IdempotencyKey = q.newID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = q.clock().UTC()
	}
	d.Pending = true
	if err := validateDraft(d); err != nil {
		return Draft{}, err
	}

	err := q.mutate(ctx, func(items []Draft) ([]Draft, bool) {
		return append(items, d), true
	})
	if err != nil {
		return Draft{}, err
	}
	q.logger.Info("draft queued", slog.String("draft_id", d.ID), slog.String("job_title", d.JobTitle))
	return d, nil
}

// ListPending returns drafts in insertion order. An absent slot is an empty queue.
func (q *Queue) ListPending(ctx context.Context) ([]Draft, error) {
	return q.load(ctx)
}

// ReconcileOne submits one draft and removes it only after the backend accepted it
// and the approval request went through. A missing draft is not an error.
// A draft already being submitted by another caller yields lock.ErrBusy.
func (q *Queue) ReconcileOne(ctx context.Context, id string) (Outcome, error) {
	release, err := q.claim(ctx, id)
	if err != nil {
		return failedOutcome(id, 0, err), err
	}
	defer release()
	if q.locker != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.leaseTTL)
		defer cancel()
	}

	items, err := q.load(ctx)
	if err != nil {
		return failedOutcome(id, 0, err), err
	}
	for _, d := range items {
		if d.ID == id {
			outcome := q.submit(ctx, d)
			return outcome, outcome.Err
		}
	}
	return Outcome{ID: id, Status: StatusMissing}, nil
}

// ReconcileAll tries every draft present at the start of the pass, in order.
// Item failures are reported in the outcomes; the error covers the pass itself.
// The pass lease is extended before every item and the pass stops once it is lost.
func (q *Queue) ReconcileAll(ctx context.Context) (Report, error) {
	report := Report{StartedAt: q.clock(), Outcomes: []Outcome{}}
	var lease lock.Lease
	if q.locker != nil {
		var err error
		lease, err = q.locker.Acquire(ctx, q.key+":reconcile", q.leaseTTL)
		if err != nil {
			return report, err
		}
		defer lease.Release()
	}
	items, err := q.load(ctx)
	if err != nil {
		return report, err
	}
	for _, d := range items {
		if lease != nil {
			if err := lease.Extend(ctx, q.leaseTTL); err != nil {
				report.FinishedAt = q.clock()
				q.logger.Warn("reconcile pass interrupted", slog.Int("done", len(report.Outcomes)), slog.Any("error", err))
				return report, err
			}
		}
		outcome, _ := q.ReconcileOne(ctx, d.ID)
		report.add(outcome)
	}
	report.FinishedAt = q.clock()
	q.logger.Info("reconcile pass finished",
		slog.Int("total", len(report.Outcomes)),
		slog.Int("submitted", report.Submitted),
		slog.Int("failed", report.Failed),
		slog.Int("missing", report.Missing),
	)
	return report, nil
}

func (q *Queue) submit(ctx context.Context, d Draft) Outcome {
	managerID, err := q.resolveManager(ctx, d)
	if err != nil {
		return q.fail(ctx, d, 0, 0, err)
	}

	created, err := q.vacancies.Insert(ctx, BuildPayload(d, managerID), api.WithIdempotencyKey(d.IdempotencyKey))
	if err != nil {
		return q.fail(ctx, d, managerID, 0, err)
	}
	if err := q.vacancies.SendToApproval(ctx, []int64{created.ID}); err != nil {
		// The vacancy exists remotely; the next attempt reuses the idempotency key.
		q.logger.Warn("vacancy created but approval request failed",
			slog.String("draft_id", d.ID), slog.Int64("vacancy_id", created.ID))
		return q.fail(ctx, d, managerID, created.ID, err)
	}
	if err := q.remove(ctx, d.ID); err != nil {
		q.logger.Error("draft submitted but not removed",
			slog.String("draft_id", d.ID), slog.Int64("vacancy_id", created.ID), slog.Any("error", err))
		return q.fail(ctx, d, managerID, created.ID, err)
	}

	q.logger.Info("draft submitted", slog.String("draft_id", d.ID), slog.Int64("vacancy_id", created.ID))
	q.publish(ctx, OutcomeEvent{
		DraftID:   d.ID,
		Status:    StatusSubmitted,
		RemoteID:  created.ID,
		JobTitle:  d.JobTitle,
		ManagerID: managerID,
		At:        q.clock().UTC(),
	})
	return Outcome{ID: d.ID, Status: StatusSubmitted, RemoteID: created.ID}
}

func (q *Queue) resolveManager(ctx context.Context, d Draft) (int64, error) {
	managerID, err := ParseManagerID(d.ManagerID)
	if !errors.Is(err, errManagerAbsent) {
		return managerID, err
	}
	if q.identity != nil {
		account, err := q.identity.Current(ctx)
		if err != nil {
			return 0, err
		}
		if account != nil && account.ID > 0 {
			return account.ID, nil
		}
	}
	return 0, managerInvalid("gestor_id is required")
}

func (q *Queue) fail(ctx context.Context, d Draft, managerID, remoteID int64, err error) Outcome {
	outcome := failedOutcome(d.ID, remoteID, err)
	q.logger.Warn("draft submission failed",
		slog.String("draft_id", d.ID),
		slog.String("kind", outcome.Kind),
		slog.Any("error", err),
	)
	q.publish(ctx, OutcomeEvent{
		DraftID:   d.ID,
		Status:    StatusFailed,
		RemoteID:  remoteID,
		JobTitle:  d.JobTitle,
		ManagerID: managerID,
		Kind:      outcome.Kind,
		Error:     outcome.Error,
		At:        q.clock().UTC(),
	})
	return outcome
}

func failedOutcome(id string, remoteID int64, err error) Outcome {
	return Outcome{
		ID:       id,
		Status:   StatusFailed,
		RemoteID: remoteID,
		Kind:     common.Kind(err),
		Error:    err.Error(),
		Err:      err,
	}
}

func (q *Queue) publish(ctx context.Context, event OutcomeEvent) {
	for _, p := range q.publishers {
		if err := p.Publish(ctx, event); err != nil {
			q.logger.Warn("publish draft outcome", slog.String("draft_id", event.DraftID), slog.Any("error", err))
		}
	}
}

// remove filters by id so concurrent appends are not lost.
func (q *Queue) remove(ctx context.Context, id string) error {
	return q.mutate(ctx, func(items []Draft) ([]Draft, bool) {
		kept := items[:0]
		for _, d := range items {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		return kept, len(kept) != len(items)
	})
}

// mutate runs a read-modify-write of the slot. fn reports whether anything changed.
func (q *Queue) mutate(ctx context.Context, fn func([]Draft) ([]Draft, bool)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locker != nil {
		lease, err := q.acquireWrite(ctx)
		if err != nil {
			return err
		}
		defer lease.Release()
	}

	items, err := q.load(ctx)
	if err != nil {
		return err
	}
	next, changed := fn(items)
	if !changed {
		return nil
	}
	return q.save(ctx, next)
}

// claim marks one draft as in flight in this process and, with a locker, across processes.
func (q *Queue) claim(ctx context.Context, id string) (func(), error) {
	q.claimMu.Lock()
	if _, busy := q.inflight[id]; busy {
		q.claimMu.Unlock()
		return nil, lock.ErrBusy
	}
	q.inflight[id] = struct{}{}
	q.claimMu.Unlock()

	unmark := func() {
		q.claimMu.Lock()
		delete(q.inflight, id)
		q.claimMu.Unlock()
	}
	if q.locker == nil {
		return unmark, nil
	}
	lease, err := q.locker.Acquire(ctx, q.key+":draft:"+id, q.leaseTTL)
	if err != nil {
		unmark()
		return nil, err
	}
	return func() {
		lease.Release()
		unmark()
	}, nil
}

func (q *Queue) acquireWrite(ctx context.Context) (lock.Lease, error) {
	key := q.key + ":write"
	for attempt := 1; ; attempt++ {
		lease, err := q.locker.Acquire(ctx, key, writeLeaseTTL)
		if err == nil {
			return lease, nil
		}
		if !errors.Is(err, lock.ErrBusy) || attempt >= writeMaxAttempts {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(writeRetryDelay):
		}
	}
}

func (q *Queue) load(ctx context.Context) ([]Draft, error) {
	data, err := q.store.Get(ctx, q.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Draft{}, nil
		}
		return nil, &common.PersistenceFailure{Key: q.key, Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Draft{}, nil
	}
	if err := validateSlot(data); err != nil {
		return nil, &common.DecodeFailure{Operation: "listPending", Err: err}
	}
	var items []Draft
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &common.DecodeFailure{Operation: "listPending", Err: err}
	}
	return items, nil
}

func (q *Queue) save(ctx context.Context, items []Draft) error {
	data, err := json.Marshal(items)
	if err != nil {
		return &common.PersistenceFailure{Key: q.key, Err: err}
	}
	if err := q.store.Set(ctx, q.key, data); err != nil {
		return &common.PersistenceFailure{Key: q.key, Err: err}
	}
	return nil
}
