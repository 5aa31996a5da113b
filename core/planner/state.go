package planner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/skyops/nightplan/core/model"
)

// ErrInvalidOperation marks a rejected interactive mutation. The schedule is
// left unmodified.
var ErrInvalidOperation = errors.New("invalid operation")

// StateManager applies interactive edits to a finalized schedule without
// re-running the optimizer. It operates value-in/value-out; callers own the
// concurrency discipline (one mutation in flight per plan).
type StateManager struct{}

// Undo removes a gap-filler entry, returning the freed interval to idle time.
// No re-scan is triggered; the caller may re-run gap filling if desired.
func (StateManager) Undo(s model.Schedule, entryID string) (model.Schedule, error) {
	idx := -1
	for i, e := range s.Entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: unknown entry %s", ErrInvalidOperation, entryID)
	}
	if s.Entries[idx].Origin != model.OriginGapFiller {
		return s, fmt.Errorf("%w: entry %s was scheduled by the primary pass", ErrInvalidOperation, entryID)
	}

	out := s
	out.Entries = make([]model.ScheduledEntry, 0, len(s.Entries)-1)
	out.Entries = append(out.Entries, s.Entries[:idx]...)
	out.Entries = append(out.Entries, s.Entries[idx+1:]...)
	return out, nil
}

// Swap replaces a gap-filler entry's target with one of its cached
// alternatives. The previously active target joins the new alternative list,
// so the swap can be reversed. Both operations only substitute within the
// entry's existing time bounds, so the schedule invariants hold by
// construction.
func (StateManager) Swap(s model.Schedule, entryID, altTargetID string) (model.Schedule, error) {
	idx := -1
	for i, e := range s.Entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: unknown entry %s", ErrInvalidOperation, entryID)
	}
	cur := s.Entries[idx]
	if cur.Origin != model.OriginGapFiller {
		return s, fmt.Errorf("%w: entry %s was scheduled by the primary pass", ErrInvalidOperation, entryID)
	}

	altIdx := -1
	for i, a := range cur.Alternatives {
		if a.Target.ID == altTargetID {
			altIdx = i
			break
		}
	}
	if altIdx < 0 {
		return s, fmt.Errorf("%w: target %s is not a cached alternative of entry %s", ErrInvalidOperation, altTargetID, entryID)
	}
	chosen := cur.Alternatives[altIdx]

	next := cur
	next.Target = chosen.Target
	next.Score = chosen.Score
	next.End = cur.Start.Add(chosen.Duration)

	alts := make([]model.Alternative, 0, len(cur.Alternatives))
	for i, a := range cur.Alternatives {
		if i != altIdx {
			alts = append(alts, a)
		}
	}
	alts = append(alts, model.Alternative{
		Target:   cur.Target,
		Score:    cur.Score,
		Duration: cur.Duration(),
	})
	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Score > alts[j].Score })
	if len(alts) > model.MaxAlternatives {
		alts = alts[:model.MaxAlternatives]
	}
	next.Alternatives = alts

	out := s
	out.Entries = make([]model.ScheduledEntry, len(s.Entries))
	copy(out.Entries, s.Entries)
	out.Entries[idx] = next
	return out, nil
}
