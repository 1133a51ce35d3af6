package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdater struct {
	calls    int
	gotID    string
	gotDraft Fields
	reply    Fields
	err      error
}

func (f *fakeUpdater) UpdateRecord(_ context.Context, id string, fields Fields) (Fields, error) {
	f.calls++
	f.gotID = id
	f.gotDraft = fields
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func sessionWithRecords(t *testing.T) (*EditSession, *Store) {
	t.Helper()
	s := NewStore()
	s.AppendPage(makeRecords(1, 6))
	return NewEditSession(s), s
}

func mustGet(t *testing.T, s *Store, id string) Record {
	t.Helper()
	rec, ok := s.Get(id)
	require.True(t, ok)
	return rec
}

func TestEditCommitMergesCanonicalFields(t *testing.T) {
	sess, store := sessionWithRecords(t)
	before := store.All()

	require.NoError(t, sess.Begin(mustGet(t, store, "5")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Lee"))

	u := &fakeUpdater{reply: Fields{FieldLastName: "Lee"}}
	res, err := sess.Commit(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, "5", u.gotID)
	assert.Equal(t, "Lee", u.gotDraft[FieldLastName])
	assert.Equal(t, "First5", u.gotDraft[FieldFirstName], "the full draft is submitted")
	assert.True(t, res.Merged)
	assert.False(t, res.Stale)

	rec := mustGet(t, store, "5")
	assert.Equal(t, "Lee", rec.Get(FieldLastName))
	assert.Equal(t, "First5", rec.Get(FieldFirstName))
	assert.Equal(t, "1990-01-01", rec.Get(FieldBirthDate))
	assert.Equal(t, ids(before), ids(store.All()))

	assert.False(t, sess.Active())
	assert.Empty(t, sess.TargetID())
	assert.Nil(t, sess.Draft())
}

func TestEditCommitFallsBackToDraftForOmittedFields(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "2")))
	require.NoError(t, sess.UpdateField(FieldBio, "likes hiking"))
	require.NoError(t, sess.UpdateField(FieldFirstName, "ann"))

	u := &fakeUpdater{reply: Fields{FieldFirstName: "Ann"}}
	_, err := sess.Commit(context.Background(), u)
	require.NoError(t, err)

	rec := mustGet(t, store, "2")
	assert.Equal(t, "Ann", rec.Get(FieldFirstName), "server value wins")
	assert.Equal(t, "likes hiking", rec.Get(FieldBio), "omitted field keeps the draft value")
}

func TestEditCommitFailureRetainsDraft(t *testing.T) {
	sess, store := sessionWithRecords(t)
	before := store.All()
	require.NoError(t, sess.Begin(mustGet(t, store, "3")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Lee"))

	boom := errors.New("503 unavailable")
	res, err := sess.Commit(context.Background(), &fakeUpdater{err: boom})
	assert.ErrorIs(t, err, ErrSaveFailure)
	assert.ErrorIs(t, err, boom)
	assert.False(t, res.Merged)

	assert.True(t, sess.Active())
	assert.False(t, sess.Saving())
	assert.Equal(t, "Lee", sess.Draft()[FieldLastName])
	assert.Equal(t, before, store.All())

	u := &fakeUpdater{reply: Fields{}}
	_, err = sess.Commit(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "Lee", mustGet(t, store, "3").Get(FieldLastName))
}

func TestEditCancelDiscardsDraft(t *testing.T) {
	sess, store := sessionWithRecords(t)
	before := store.All()
	require.NoError(t, sess.Begin(mustGet(t, store, "1")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Changed"))

	sess.Cancel()
	assert.False(t, sess.Active())
	assert.Equal(t, before, store.All())

	sess.Cancel()
	assert.False(t, sess.Active())
}

func TestEditWithoutSessionFails(t *testing.T) {
	sess, _ := sessionWithRecords(t)

	assert.ErrorIs(t, sess.UpdateField(FieldLastName, "x"), ErrNoActiveSession)
	_, err := sess.Prepare()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = sess.Commit(context.Background(), &fakeUpdater{})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestEditBeginOtherRecordCancelsOpenDraft(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "1")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Unsaved"))

	require.NoError(t, sess.Begin(mustGet(t, store, "2")))
	assert.Equal(t, "2", sess.TargetID())
	assert.Equal(t, "Last2", sess.Draft()[FieldLastName])
	assert.Equal(t, "Last1", mustGet(t, store, "1").Get(FieldLastName))
}

func TestEditBeginSameRecordKeepsDraft(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "1")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Draft"))

	require.NoError(t, sess.Begin(mustGet(t, store, "1")))
	assert.Equal(t, "Draft", sess.Draft()[FieldLastName])
}

func TestEditBeginWhileSavingOtherRecordIsBusy(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "1")))
	_, err := sess.Prepare()
	require.NoError(t, err)

	assert.ErrorIs(t, sess.Begin(mustGet(t, store, "2")), ErrSessionBusy)
	assert.ErrorIs(t, sess.UpdateField(FieldLastName, "x"), ErrSaveInFlight)
	_, err = sess.Prepare()
	assert.ErrorIs(t, err, ErrSaveInFlight)
	assert.Equal(t, "1", sess.TargetID())
}

func TestEditSaveResolvedAfterCancelIsStale(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "4")))
	require.NoError(t, sess.UpdateField(FieldLastName, "Lee"))
	req, err := sess.Prepare()
	require.NoError(t, err)

	sess.Cancel()
	require.NoError(t, sess.Begin(mustGet(t, store, "6")))
	require.NoError(t, sess.UpdateField(FieldFirstName, "Other"))

	res := sess.Resolve(req, Fields{FieldLastName: "Lee"}, nil)
	assert.True(t, res.Stale)
	assert.True(t, res.Merged)
	assert.Equal(t, "Lee", mustGet(t, store, "4").Get(FieldLastName))

	assert.Equal(t, "6", sess.TargetID())
	assert.Equal(t, "Other", sess.Draft()[FieldFirstName])
}

func TestEditStaleFailureLeavesCurrentSessionAlone(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "4")))
	req, err := sess.Prepare()
	require.NoError(t, err)
	sess.Cancel()

	res := sess.Resolve(req, nil, errors.New("timeout"))
	assert.True(t, res.Stale)
	assert.ErrorIs(t, res.Err, ErrSaveFailure)
	assert.False(t, sess.Active())
}

func TestEditSaveForEvictedRecordReportsUnmerged(t *testing.T) {
	sess, store := sessionWithRecords(t)
	require.NoError(t, sess.Begin(mustGet(t, store, "2")))
	req, err := sess.Prepare()
	require.NoError(t, err)

	store.Clear()
	res := sess.Resolve(req, Fields{FieldLastName: "Lee"}, nil)
	assert.NoError(t, res.Err)
	assert.False(t, res.Merged)
	assert.False(t, sess.Active())
	assert.Equal(t, 0, store.Len())
}
