package persistence

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wellbeing/internal/desire"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "verdicts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Strictly increasing clock so ordering is stable.
	clock := time.UnixMilli(1_700_000_000_000)
	db.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return db
}

func TestRecordDesire_AssignsID(t *testing.T) {
	db := openTest(t)

	e, err := db.RecordDesire("", desire.Verdict{
		Reason: desire.RationalityTestFailure,
		Detail: "hunger regresses from 5 to 4",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	got, err := db.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, KindDesire, got.Kind)
	assert.False(t, got.Admitted)
	assert.Equal(t, "RationalityTestFailure", got.Reason)
	assert.Equal(t, e.CreatedAt, got.CreatedAt)
}

func TestRecent_NewestFirst(t *testing.T) {
	db := openTest(t)

	_, err := db.RecordWellBeing("first", -4)
	require.NoError(t, err)
	_, err = db.RecordDesire("second", desire.Verdict{Admitted: true})
	require.NoError(t, err)
	_, err = db.RecordWellBeing("third", 7)
	require.NoError(t, err)

	entries, err := db.Recent(2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].ID)
	assert.Equal(t, 7.0, entries[0].Score)
	assert.Equal(t, "second", entries[1].ID)
}

func TestCountsAndPurge(t *testing.T) {
	db := openTest(t)

	c, err := db.Counts()
	require.NoError(t, err)
	assert.Equal(t, Counts{}, c)

	_, _ = db.RecordDesire("", desire.Verdict{Admitted: true})
	_, _ = db.RecordDesire("", desire.Verdict{Reason: desire.ExistenceTestFailure})
	_, _ = db.RecordWellBeing("", 1)

	c, err = db.Counts()
	require.NoError(t, err)
	assert.Equal(t, Counts{Desires: 2, Admitted: 1, WellBeing: 1}, c)

	n, err := db.Purge()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	entries, err := db.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGet_Missing(t *testing.T) {
	db := openTest(t)

	_, err := db.Get("nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordDesire_DuplicateID(t *testing.T) {
	db := openTest(t)

	_, err := db.RecordWellBeing("dup", 0)
	require.NoError(t, err)
	_, err = db.RecordWellBeing("dup", 0)
	assert.Error(t, err)
}
