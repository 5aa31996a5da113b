package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/skyops/nightplan/core/model"
)

func fillerEntry(w model.SessionWindow) model.ScheduledEntry {
	start := w.Dusk.Add(3 * time.Hour)
	return model.ScheduledEntry{
		ID:     "fill-1",
		Target: model.Target{ID: "G1", Type: "galaxy", Exposure: 50 * time.Minute},
		Start:  start,
		End:    start.Add(50 * time.Minute),
		Score:  0.7,
		Origin: model.OriginGapFiller,
		Alternatives: []model.Alternative{
			{Target: model.Target{ID: "G2", Type: "nebula"}, Score: 0.65, Duration: 40 * time.Minute},
			{Target: model.Target{ID: "G3", Type: "cluster"}, Score: 0.6, Duration: 30 * time.Minute},
		},
	}
}

func stateSchedule() model.Schedule {
	w := testWindow()
	s := mkSchedule(w, [2]time.Time{w.Dusk, w.Dusk.Add(time.Hour)})
	s.Entries = append(s.Entries, fillerEntry(w))
	s.Sort()
	return s
}

func TestUndoRestoresGap(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	filler, _ := s.Entry("fill-1")

	out, err := sm.Undo(s, "fill-1")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if out.HasTarget("G1") {
		t.Fatalf("entry still present after undo")
	}
	if err := out.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	// The freed interval shows up again as a detectable gap.
	p := newTestPlanner(newMoonOracle())
	gaps := p.DetectGaps(out, MinGapDuration(model.ModeQuantity))
	found := false
	for _, g := range gaps {
		if !g.Start.After(filler.Start) && !g.End.Before(filler.End) {
			found = true
		}
	}
	if !found {
		t.Fatalf("freed interval not reported as a gap: %v", gaps)
	}
}

func TestUndoPrimaryIsInvalid(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	primaryID := s.Entries[0].ID

	out, err := sm.Undo(s, primaryID)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if len(out.Entries) != len(s.Entries) {
		t.Fatalf("schedule modified on rejected undo")
	}
}

func TestUndoUnknownEntry(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	if _, err := sm.Undo(s, "nope"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestSwapPreservesBounds(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	orig, _ := s.Entry("fill-1")

	out, err := sm.Swap(s, "fill-1", "G2")
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	e, ok := out.Entry("fill-1")
	if !ok {
		t.Fatalf("entry lost on swap")
	}
	if e.Target.ID != "G2" {
		t.Fatalf("target %s after swap", e.Target.ID)
	}
	if e.Start.Before(orig.Start) || e.End.After(orig.End) {
		t.Fatalf("swap escaped the original bounds: [%v,%v]", e.Start, e.End)
	}
	if e.Score != 0.65 {
		t.Fatalf("score %v not taken from the alternative", e.Score)
	}

	// The previously active target is now swappable back.
	foundOld := false
	for _, a := range e.Alternatives {
		if a.Target.ID == "G1" {
			foundOld = true
		}
	}
	if !foundOld {
		t.Fatalf("previous target missing from alternatives: %v", e.Alternatives)
	}
	if len(e.Alternatives) > model.MaxAlternatives {
		t.Fatalf("alternative list grew past the cap")
	}
	for i := 1; i < len(e.Alternatives); i++ {
		if e.Alternatives[i].Score > e.Alternatives[i-1].Score {
			t.Fatalf("alternatives not sorted descending")
		}
	}
	if err := out.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestSwapUnknownAlternative(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	out, err := sm.Swap(s, "fill-1", "not-cached")
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	e, _ := out.Entry("fill-1")
	if e.Target.ID != "G1" {
		t.Fatalf("schedule modified on rejected swap")
	}
}

func TestSwapPrimaryIsInvalid(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	if _, err := sm.Swap(s, s.Entries[0].ID, "G2"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestSwapRoundTrip(t *testing.T) {
	var sm StateManager
	s := stateSchedule()
	once, err := sm.Swap(s, "fill-1", "G2")
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	back, err := sm.Swap(once, "fill-1", "G1")
	if err != nil {
		t.Fatalf("swap back: %v", err)
	}
	e, _ := back.Entry("fill-1")
	if e.Target.ID != "G1" {
		t.Fatalf("round trip landed on %s", e.Target.ID)
	}
}
