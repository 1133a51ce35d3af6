package engine

import (
	"context"
	"fmt"
)

// Updater is the single-record update collaborator. The returned fields are the
// server's canonical values; omitted keys keep the submitted draft value.
type Updater interface {
	UpdateRecord(ctx context.Context, id string, fields Fields) (Fields, error)
}

// SaveRequest is a snapshot of the draft handed to the update collaborator.
type SaveRequest struct {
	Gen    uint64
	ID     string
	Fields Fields
}

// SaveResult reports how a save resolved.
type SaveResult struct {
	ID     string
	Fields Fields
	// Merged is false when the record was no longer in the store.
	Merged bool
	// Stale is true when the session was cancelled or replaced before the
	// save resolved.
	Stale bool
	Err   error
}

// EditSession holds at most one record under edit together with its draft.
type EditSession struct {
	store *Store

	targetID string
	draft    Fields
	gen      uint64
	saving   bool
}

// NewEditSession creates an idle session writing back into store.
func NewEditSession(store *Store) *EditSession {
	return &EditSession{store: store}
}

// Active reports whether a record is under edit.
func (s *EditSession) Active() bool {
	return s.draft != nil
}

// TargetID returns the id under edit, or "".
func (s *EditSession) TargetID() string {
	return s.targetID
}

// Saving reports whether a commit is awaiting the collaborator.
func (s *EditSession) Saving() bool {
	return s.saving
}

// Draft returns a copy of the draft, nil when idle.
func (s *EditSession) Draft() Fields {
	if s.draft == nil {
		return nil
	}
	return s.draft.Clone()
}

// Begin starts editing rec. An open session on another record is cancelled and
// its draft discarded, unless that record is mid-save, which yields
// ErrSessionBusy. Beginning the record already under edit keeps its draft.
func (s *EditSession) Begin(rec Record) error {
	if s.Active() {
		if s.targetID == rec.ID {
			return nil
		}
		if s.saving {
			return ErrSessionBusy
		}
	}
	s.gen++
	s.targetID = rec.ID
	s.draft = rec.Fields.Clone()
	s.saving = false
	return nil
}

// UpdateField sets one draft value.
func (s *EditSession) UpdateField(name, value string) error {
	if !s.Active() {
		return ErrNoActiveSession
	}
	if s.saving {
		return ErrSaveInFlight
	}
	s.draft[name] = value
	return nil
}

// Prepare marks the session as saving and snapshots the full draft.
func (s *EditSession) Prepare() (SaveRequest, error) {
	if !s.Active() {
		return SaveRequest{}, ErrNoActiveSession
	}
	if s.saving {
		return SaveRequest{}, ErrSaveInFlight
	}
	s.saving = true
	return SaveRequest{Gen: s.gen, ID: s.targetID, Fields: s.draft.Clone()}, nil
}

// Resolve applies the collaborator's answer. On success the canonical fields,
// backed by the draft for omitted keys, are merged into the store and the
// session ends. On failure the session and draft are kept for retry or cancel.
//
// A successful save for a session that was cancelled meanwhile still merges,
// since the remote already changed, but does not touch the current session.
func (s *EditSession) Resolve(req SaveRequest, canonical Fields, err error) SaveResult {
	current := s.Active() && s.gen == req.Gen
	res := SaveResult{ID: req.ID, Stale: !current}

	if err != nil {
		if current {
			s.saving = false
		}
		res.Err = fmt.Errorf("%w: %w", ErrSaveFailure, err)
		return res
	}

	merged := req.Fields.Clone()
	for k, v := range canonical {
		merged[k] = v
	}
	res.Fields = merged
	res.Merged = s.store.MergeRecord(req.ID, merged)
	if current {
		s.clear()
	}
	return res
}

// Commit runs Prepare, the collaborator call and Resolve in sequence.
func (s *EditSession) Commit(ctx context.Context, u Updater) (SaveResult, error) {
	req, err := s.Prepare()
	if err != nil {
		return SaveResult{}, err
	}
	canonical, err := u.UpdateRecord(ctx, req.ID, req.Fields.Clone())
	res := s.Resolve(req, canonical, err)
	return res, res.Err
}

// Cancel ends the session and discards the draft. The store is not touched.
func (s *EditSession) Cancel() {
	s.clear()
}

func (s *EditSession) clear() {
	s.targetID = ""
	s.draft = nil
	s.saving = false
}
