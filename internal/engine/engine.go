// Package engine keeps a paged, search-scoped, editable view of a remote
// collection consistent with its source of truth.
//
// All transitions happen under one lock and never block on a collaborator.
// Fetches and saves are split into an issue step that returns a tagged
// request and an apply step that takes the collaborator's answer, so the
// caller decides where the waiting happens (a tea.Cmd, a goroutine, or inline
// through Fetch and Commit).
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gravitrone/roster/internal/metrics"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// PageRequest is what the fetch collaborator receives.
type PageRequest struct {
	PageIndex int
	PageSize  int
	Scope     string
}

// Page is the fetch collaborator's answer.
type Page struct {
	Records  []Record
	LastPage bool
}

// Fetcher is the paged collection collaborator.
type Fetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// FetchRequest is a page request tagged with the permit it was issued under.
type FetchRequest struct {
	Permit  Permit
	Request PageRequest
}

// FetchResult is the typed outcome of applying a page.
type FetchResult struct {
	Request FetchRequest
	Outcome OutcomeKind
	Added   int
	// Err is nil on success, wraps ErrFetchFailure on failure, is ErrEmptyPage
	// for an empty non-terminal page and ErrStaleResponse for discarded answers.
	Err error
}

// Stale reports whether the result was discarded.
func (r FetchResult) Stale() bool {
	return errors.Is(r.Err, ErrStaleResponse)
}

// Snapshot is a read-only view for the presentation layer.
type Snapshot struct {
	Records   []Record
	Cursor    Cursor
	Scope     string
	EditingID string
	Draft     Fields
	Saving    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the page size.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metric collectors.
func WithMetrics(m *metrics.Engine) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine is the single owner of the cached view for one screen session.
type Engine struct {
	mu       sync.Mutex
	pageSize int
	log      zerolog.Logger
	metrics  *metrics.Engine

	gate  *Gate
	store *Store
	scope *ScopeController
	edit  *EditSession
}

// New creates an engine with an empty store and unscoped cursor.
func New(opts ...Option) *Engine {
	e := &Engine{pageSize: DefaultPageSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.gate = NewGate(e.pageSize)
	e.store = NewStore()
	e.scope = NewScopeController(e.gate, e.store)
	e.edit = NewEditSession(e.store)
	return e
}

// --- Paging ---

// Start resets the view and issues page 0 for the committed scope.
func (e *Engine) Start() (FetchRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.scope.Reload()
	if err != nil {
		return FetchRequest{}, err
	}
	e.metrics.ScopeReset()
	return e.issued(*p), nil
}

// LoadMore asks for the next page. It is denied with ErrFetchInFlight or ErrExhausted.
func (e *Engine) LoadMore() (FetchRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.gate.Cursor()
	var (
		p   Permit
		err error
	)
	if !cur.HasMore && !cur.IsLoading {
		// the gate still lets page 0 through after an empty first page
		err = ErrExhausted
	} else {
		p, err = e.gate.TryBegin(cur.NextPageIndex, e.scope.Committed())
	}
	if err != nil {
		reason := "in_flight"
		if errors.Is(err, ErrExhausted) {
			reason = "exhausted"
		}
		e.metrics.FetchDenied(reason)
		e.log.Debug().
			Int("page", cur.NextPageIndex).
			Bool("loading", cur.IsLoading).
			Bool("has_more", cur.HasMore).
			Str("scope", e.scope.Committed()).
			Msg("fetch skipped")
		return FetchRequest{}, err
	}
	return e.issued(p), nil
}

// RequestScope switches to key. It returns nil when the request is a no-op.
func (e *Engine) RequestScope(key string) (*FetchRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.scope.Request(key)
	if err != nil || p == nil {
		return nil, err
	}
	e.metrics.ScopeReset()
	req := e.issued(*p)
	return &req, nil
}

// ClearScope returns to the unscoped collection.
func (e *Engine) ClearScope() (*FetchRequest, error) {
	return e.RequestScope("")
}

func (e *Engine) issued(p Permit) FetchRequest {
	e.metrics.FetchIssued(p.PageIndex)
	e.log.Debug().
		Uint64("seq", p.Seq).
		Int("page", p.PageIndex).
		Str("scope", p.Scope).
		Msg("fetch issued")
	return FetchRequest{
		Permit: p,
		Request: PageRequest{
			PageIndex: p.PageIndex,
			PageSize:  e.pageSize,
			Scope:     p.Scope,
		},
	}
}

// ApplyPage folds a fetch answer into the store. Answers for an abandoned
// scope or request are discarded without touching any state.
func (e *Engine) ApplyPage(req FetchRequest, page Page, fetchErr error) FetchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := FetchResult{Request: req}
	p := req.Permit
	if p.Scope != e.scope.Committed() || !e.gate.Holds(p) {
		e.metrics.StaleDiscarded()
		e.log.Debug().
			Uint64("seq", p.Seq).
			Str("scope", p.Scope).
			Str("committed", e.scope.Committed()).
			Msg("stale response discarded")
		res.Err = ErrStaleResponse
		return res
	}

	var outcome Outcome
	switch {
	case fetchErr != nil:
		outcome = Outcome{Kind: OutcomeFailure}
		res.Err = fmt.Errorf("%w: %w", ErrFetchFailure, fetchErr)
		if p.PageIndex == 0 {
			e.store.Clear()
		}
		e.log.Warn().Err(fetchErr).Int("page", p.PageIndex).Str("scope", p.Scope).Msg("fetch failed")
	case len(page.Records) == 0:
		outcome = Outcome{Kind: OutcomeEmpty, LastPage: true}
		if !page.LastPage {
			res.Err = ErrEmptyPage
		}
		if p.PageIndex == 0 {
			e.store.Clear()
		}
	default:
		outcome = Outcome{Kind: OutcomeSuccess, Items: len(page.Records), LastPage: page.LastPage}
		if p.PageIndex == 0 {
			res.Added = e.store.ReplaceAll(page.Records)
		} else {
			res.Added = e.store.AppendPage(page.Records)
		}
	}

	if err := e.gate.Complete(p, outcome); err != nil {
		// Holds was checked under the same lock.
		res.Err = err
		return res
	}
	res.Outcome = outcome.Kind
	e.metrics.FetchResolved(outcome.Kind.String())
	e.log.Debug().
		Uint64("seq", p.Seq).
		Int("page", p.PageIndex).
		Stringer("outcome", outcome.Kind).
		Int("added", res.Added).
		Int("size", e.store.Len()).
		Msg("page applied")
	return res
}

// Fetch calls f for req outside the lock and applies its answer.
func (e *Engine) Fetch(ctx context.Context, f Fetcher, req FetchRequest) FetchResult {
	page, err := f.FetchPage(ctx, req.Request)
	return e.ApplyPage(req, page, err)
}

// --- Editing ---

// BeginEdit opens the loaded record id for editing.
func (e *Engine) BeginEdit(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return e.edit.Begin(rec)
}

// UpdateField changes one draft value.
func (e *Engine) UpdateField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.edit.UpdateField(name, value)
}

// PrepareSave snapshots the draft for the update collaborator.
func (e *Engine) PrepareSave() (SaveRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.edit.Prepare()
}

// ApplySave resolves a save started with PrepareSave.
func (e *Engine) ApplySave(req SaveRequest, canonical Fields, err error) SaveResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := e.edit.Resolve(req, canonical, err)
	e.metrics.SaveResolved(res.Err == nil)
	if res.Err != nil {
		e.log.Warn().Err(err).Str("id", req.ID).Bool("stale", res.Stale).Msg("save failed")
	} else {
		e.log.Debug().Str("id", req.ID).Bool("merged", res.Merged).Bool("stale", res.Stale).Msg("save applied")
	}
	return res
}

// Commit saves the draft through u and waits for the answer.
func (e *Engine) Commit(ctx context.Context, u Updater) (SaveResult, error) {
	req, err := e.PrepareSave()
	if err != nil {
		return SaveResult{}, err
	}
	canonical, err := u.UpdateRecord(ctx, req.ID, req.Fields.Clone())
	res := e.ApplySave(req, canonical, err)
	return res, res.Err
}

// CancelEdit discards the draft.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit.Cancel()
}

// --- Snapshots ---

// Snapshot returns a copy of the state for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Records:   e.store.All(),
		Cursor:    e.gate.Cursor(),
		Scope:     e.scope.Committed(),
		EditingID: e.edit.TargetID(),
		Draft:     e.edit.Draft(),
		Saving:    e.edit.Saving(),
	}
}

// Cursor returns the current cursor.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.Cursor()
}

// Len returns the number of cached records.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// Scope returns the committed scope.
func (e *Engine) Scope() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope.Committed()
}
