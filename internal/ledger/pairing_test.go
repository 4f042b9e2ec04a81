package ledger

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/timbang/worktime/internal/model"
)

func entry(id int64, ts time.Time, typ model.EntryType, notes string) model.WorkEntry {
	return model.WorkEntry{ID: id, UserID: uuid.Must(uuid.NewV4()), Timestamp: ts, Type: typ, Notes: notes}
}

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestPair_SingleInOut(t *testing.T) {
	t.Parallel()

	in := entry(1, base, model.ClockIn, "morning")
	out := entry(2, base.Add(8*time.Hour), model.ClockOut, "")

	drafts, stats := Pair([]model.WorkEntry{in, out})
	require.Len(t, drafts, 1)
	require.Equal(t, 1, stats.Complete)
	require.Zero(t, stats.Incomplete)
	require.Empty(t, stats.Orphans)

	require.Equal(t, in.Timestamp, drafts[0].Start)
	require.NotNil(t, drafts[0].End)
	require.Equal(t, out.Timestamp, *drafts[0].End)
	require.Equal(t, "morning", drafts[0].Notes)
}

func TestPair_NotesFallBackToClockOut(t *testing.T) {
	t.Parallel()

	in := entry(1, base, model.ClockIn, "   ")
	out := entry(2, base.Add(time.Hour), model.ClockOut, "forgot to note earlier")

	drafts, _ := Pair([]model.WorkEntry{in, out})
	require.Len(t, drafts, 1)
	require.Equal(t, "forgot to note earlier", drafts[0].Notes)
}

func TestPair_MissingClockOut_IncompleteSession(t *testing.T) {
	t.Parallel()

	in := entry(1, base, model.ClockIn, "open-ended")

	drafts, stats := Pair([]model.WorkEntry{in})
	require.Len(t, drafts, 1)
	require.Nil(t, drafts[0].End)
	require.Equal(t, 1, stats.Incomplete)
	require.Zero(t, stats.Complete)
}

func TestPair_SparseClockOuts_EarlierInWins(t *testing.T) {
	t.Parallel()

	// T1 < T2 < T3 with a single clock-out at T2: (T1,T2) pairs and the
	// clock-in at T3 becomes incomplete. T2 is never given to T3.
	in1 := entry(1, base, model.ClockIn, "")
	out := entry(2, base.Add(time.Hour), model.ClockOut, "")
	in2 := entry(3, base.Add(2*time.Hour), model.ClockIn, "")

	drafts, stats := Pair([]model.WorkEntry{in1, out, in2})
	require.Len(t, drafts, 2)

	require.Equal(t, in1.Timestamp, drafts[0].Start)
	require.NotNil(t, drafts[0].End)
	require.Equal(t, out.Timestamp, *drafts[0].End)

	require.Equal(t, in2.Timestamp, drafts[1].Start)
	require.Nil(t, drafts[1].End)

	require.Equal(t, 1, stats.Complete)
	require.Equal(t, 1, stats.Incomplete)
	require.Empty(t, stats.Orphans)
}

func TestPair_ClockOutBeforeAnyClockIn_Orphaned(t *testing.T) {
	t.Parallel()

	out := entry(1, base, model.ClockOut, "stale")
	in := entry(2, base.Add(time.Hour), model.ClockIn, "")
	out2 := entry(3, base.Add(2*time.Hour), model.ClockOut, "")

	drafts, stats := Pair([]model.WorkEntry{out, in, out2})
	require.Len(t, drafts, 1)
	require.NotNil(t, drafts[0].End)
	require.Equal(t, out2.Timestamp, *drafts[0].End)

	require.Len(t, stats.Orphans, 1)
	require.Equal(t, int64(1), stats.Orphans[0].ID)
}

func TestPair_ClockOutConsumedOnlyOnce(t *testing.T) {
	t.Parallel()

	in1 := entry(1, base, model.ClockIn, "")
	in2 := entry(2, base.Add(30*time.Minute), model.ClockIn, "")
	out := entry(3, base.Add(time.Hour), model.ClockOut, "")

	drafts, stats := Pair([]model.WorkEntry{in1, in2, out})
	require.Len(t, drafts, 2)

	// The earlier clock-in consumes the only clock-out; the later one stays open.
	require.NotNil(t, drafts[0].End)
	require.Nil(t, drafts[1].End)
	require.Equal(t, 1, stats.Complete)
	require.Equal(t, 1, stats.Incomplete)
}

func TestPair_EqualTimestampsNotMatched(t *testing.T) {
	t.Parallel()

	// A clock-out at exactly the clock-in instant is not strictly after it.
	in := entry(1, base, model.ClockIn, "")
	out := entry(2, base, model.ClockOut, "")

	drafts, stats := Pair([]model.WorkEntry{in, out})
	require.Len(t, drafts, 1)
	require.Nil(t, drafts[0].End)
	require.Len(t, stats.Orphans, 1)
}

func TestPair_Empty(t *testing.T) {
	t.Parallel()

	drafts, stats := Pair(nil)
	require.Empty(t, drafts)
	require.Zero(t, stats.Complete)
	require.Zero(t, stats.Incomplete)
	require.Empty(t, stats.Orphans)
}
