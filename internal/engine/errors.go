package engine

import "errors"

var (
	// ErrFetchInFlight denies a fetch while another one is outstanding.
	ErrFetchInFlight = errors.New("fetch already in flight")
	// ErrExhausted denies a next-page fetch after the last page was seen.
	ErrExhausted = errors.New("no more pages")
	// ErrFetchFailure wraps a page request error from the fetch collaborator.
	ErrFetchFailure = errors.New("fetch failed")
	// ErrEmptyPage reports a non-terminal page with zero items. It is treated as the end of the list.
	ErrEmptyPage = errors.New("empty page")
	// ErrStaleResponse marks a completion for an abandoned scope or request.
	ErrStaleResponse = errors.New("stale response")
	// ErrSaveFailure wraps an update collaborator error.
	ErrSaveFailure = errors.New("save failed")
	// ErrSaveInFlight rejects edits and commits while a save is pending.
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrSessionBusy rejects a new edit while another record's save is pending.
	ErrSessionBusy = errors.New("another record is being saved")
	// ErrNoActiveSession rejects draft operations with no record under edit.
	ErrNoActiveSession = errors.New("no active edit session")
	// ErrRecordNotFound rejects an edit for an id the store does not hold.
	ErrRecordNotFound = errors.New("record not loaded")
)
