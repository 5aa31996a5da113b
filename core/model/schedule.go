package model

import (
	"fmt"
	"sort"
	"time"
)

// EntryOrigin tags how a schedule entry was created.
type EntryOrigin string

const (
	OriginPrimary   EntryOrigin = "primary"
	OriginGapFiller EntryOrigin = "gap_filler"
)

// Alternative is a cached runner-up for a gap-filler entry, retained so the
// user can swap without re-running the optimizer.
type Alternative struct {
	Target   Target        `json:"target"`
	Score    float64       `json:"score"`
	Duration time.Duration `json:"duration"` // fit duration inside the gap
}

// MaxAlternatives bounds the runner-up list cached on a gap-filler entry.
const MaxAlternatives = 3

// ScheduledEntry is one planned observation. Entries are created by the
// scheduler or the gap filler and mutated only through plan state operations.
type ScheduledEntry struct {
	ID           string        `json:"id"`
	Target       Target        `json:"target"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Score        float64       `json:"score"`
	Origin       EntryOrigin   `json:"origin"`
	Alternatives []Alternative `json:"alternatives,omitempty"` // gap_filler only
}

// Duration returns the planned exposure span.
func (e ScheduledEntry) Duration() time.Duration { return e.End.Sub(e.Start) }

// Overlaps reports whether two entries share any time.
func (e ScheduledEntry) Overlaps(o ScheduledEntry) bool {
	return e.Start.Before(o.End) && o.Start.Before(e.End)
}

// TrailingGap marks a gap between the last entry and dawn rather than between
// two entries.
const TrailingGap = -1

// Gap is an idle span worth reclaiming. Transient: recomputed whenever the
// schedule changes, never persisted on its own.
type Gap struct {
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
	// Index is the position in the schedule after which the gap opens, or
	// TrailingGap for the span before dawn.
	Index int `json:"index"`
}

// Schedule is the ordered observation plan for one session.
type Schedule struct {
	Entries []ScheduledEntry `json:"entries"`
	Window  SessionWindow    `json:"window"`
}

// Sort orders entries ascending by start instant. Ties keep catalog id order
// so plans stay reproducible.
func (s *Schedule) Sort() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		a, b := s.Entries[i], s.Entries[j]
		if a.Start.Equal(b.Start) {
			return a.Target.ID < b.Target.ID
		}
		return a.Start.Before(b.Start)
	})
}

// Entry returns the entry with the given id.
func (s Schedule) Entry(id string) (ScheduledEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return ScheduledEntry{}, false
}

// HasTarget reports whether a target is already scheduled.
func (s Schedule) HasTarget(targetID string) bool {
	for _, e := range s.Entries {
		if e.Target.ID == targetID {
			return true
		}
	}
	return false
}

// HasType reports whether an object type already appears in the plan.
func (s Schedule) HasType(objectType string) bool {
	for _, e := range s.Entries {
		if e.Target.Type == objectType {
			return true
		}
	}
	return false
}

// CheckInvariants verifies the ordering and non-overlap guarantees. Used by
// tests and as a guard after interactive mutation.
func (s Schedule) CheckInvariants() error {
	for i := 1; i < len(s.Entries); i++ {
		prev, cur := s.Entries[i-1], s.Entries[i]
		if cur.Start.Before(prev.Start) {
			return fmt.Errorf("entries out of order at %d", i)
		}
		if prev.Overlaps(cur) {
			return fmt.Errorf("entries %s and %s overlap", prev.ID, cur.ID)
		}
	}
	return nil
}

// UnfilledReason explains why a gap stayed empty.
type UnfilledReason string

const (
	ReasonNoSuitableTargets UnfilledReason = "no_suitable_targets"
	ReasonGapTooSmall       UnfilledReason = "gap_too_small"
)

// GapFillStats summarises a gap-filling pass for display. Not used for
// control flow.
type GapFillStats struct {
	GapsFound       int              `json:"gaps_found"`
	GapsFilled      int              `json:"gaps_filled"`
	TotalMinutes    float64          `json:"total_minutes"`
	FilledMinutes   float64          `json:"filled_minutes"`
	MeanScore       float64          `json:"mean_score"` // mean totalScore of winners
	UnfilledReasons []UnfilledReason `json:"unfilled_reasons,omitempty"`
}
