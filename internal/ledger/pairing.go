// Package ledger converts the legacy flat clock-in/clock-out event log into
// paired work sessions. The conversion is a guarded one-time job; the pairing
// itself is a pure function so it can be tested without storage.
package ledger

import (
	"strings"
	"time"

	"github.com/timbang/worktime/internal/model"
)

// Draft is a session produced by pairing, before it is persisted.
type Draft struct {
	Start time.Time
	End   *time.Time // nil for an incomplete session
	Notes string
}

// PairStats summarizes the anomalies of one pairing run.
type PairStats struct {
	Complete   int
	Incomplete int
	// Orphans are clock-outs with no earlier unconsumed clock-in. They are
	// reported and dropped, never converted into sessions.
	Orphans []model.WorkEntry
}

// Pair matches every clock-in to the earliest unconsumed clock-out strictly
// after it, walking clock-ins in chronological order. Entries must already be
// ordered by timestamp ascending, ID ascending.
//
// This is a greedy earliest-match, not a minimum-weight matching: when a
// clock-out is missing between two clock-ins, a later clock-out can end up
// attached to the earlier clock-in. Downstream consumers depend on this
// outcome, so it stays as is.
func Pair(entries []model.WorkEntry) ([]Draft, PairStats) {
	var ins, outs []model.WorkEntry
	for _, e := range entries {
		switch e.Type {
		case model.ClockIn:
			ins = append(ins, e)
		case model.ClockOut:
			outs = append(outs, e)
		}
	}

	consumed := make([]bool, len(outs))
	drafts := make([]Draft, 0, len(ins))
	var stats PairStats

	for _, in := range ins {
		matched := -1
		for i, out := range outs {
			if consumed[i] {
				continue
			}
			// outs are sorted ascending, so the first strictly-later
			// candidate is the earliest one.
			if out.Timestamp.After(in.Timestamp) {
				matched = i
				break
			}
		}

		if matched < 0 {
			drafts = append(drafts, Draft{Start: in.Timestamp, Notes: in.Notes})
			stats.Incomplete++
			continue
		}

		out := outs[matched]
		consumed[matched] = true
		end := out.Timestamp
		notes := in.Notes
		if strings.TrimSpace(notes) == "" {
			notes = out.Notes
		}
		drafts = append(drafts, Draft{Start: in.Timestamp, End: &end, Notes: notes})
		stats.Complete++
	}

	for i, out := range outs {
		if !consumed[i] {
			stats.Orphans = append(stats.Orphans, out)
		}
	}
	return drafts, stats
}
