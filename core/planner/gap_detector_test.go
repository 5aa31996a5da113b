package planner

import (
	"testing"
	"time"

	"github.com/skyops/nightplan/core/model"
)

func mkSchedule(w model.SessionWindow, spans ...[2]time.Time) model.Schedule {
	s := model.Schedule{Window: w}
	for i, sp := range spans {
		s.Entries = append(s.Entries, model.ScheduledEntry{
			ID:     string(rune('a' + i)),
			Target: model.Target{ID: string(rune('A' + i)), Exposure: sp[1].Sub(sp[0])},
			Start:  sp[0],
			End:    sp[1],
			Origin: model.OriginPrimary,
		})
	}
	return s
}

func TestDetectGapsThresholds(t *testing.T) {
	w := testWindow()
	p := newTestPlanner(newMoonOracle())

	// 50 idle minutes between the two entries after the 5 minute slew
	// buffer, plus a trailing gap to dawn.
	e1End := w.Dusk.Add(time.Hour)
	e2Start := e1End.Add(55 * time.Minute)
	sched := mkSchedule(w,
		[2]time.Time{w.Dusk, e1End},
		[2]time.Time{e2Start, e2Start.Add(time.Hour)},
	)

	for _, mode := range []model.PlanMode{model.ModeBalanced, model.ModeQuality} {
		gaps := p.DetectGaps(sched, MinGapDuration(mode))
		if len(gaps) != 2 {
			t.Fatalf("mode %s: expected inner and trailing gap, got %d", mode, len(gaps))
		}
		inner := gaps[0]
		if inner.Duration != 50*time.Minute {
			t.Fatalf("mode %s: inner gap duration %v", mode, inner.Duration)
		}
		if inner.Index != 0 {
			t.Fatalf("inner gap index %d", inner.Index)
		}
		if gaps[1].Index != model.TrailingGap {
			t.Fatalf("expected trailing gap marker, got %d", gaps[1].Index)
		}
	}
}

func TestDetectGapsBelowThreshold(t *testing.T) {
	w := testWindow()
	w.Dawn = w.Dusk.Add(2*time.Hour + 25*time.Minute)
	p := newTestPlanner(newMoonOracle())

	// 20 idle minutes: under every mode's threshold. The trailing span is
	// exactly the slew buffer, so it never qualifies either.
	e1End := w.Dusk.Add(time.Hour)
	e2Start := e1End.Add(25 * time.Minute)
	sched := mkSchedule(w,
		[2]time.Time{w.Dusk, e1End},
		[2]time.Time{e2Start, e2Start.Add(time.Hour)},
	)

	for _, mode := range []model.PlanMode{model.ModeQuality, model.ModeBalanced, model.ModeQuantity} {
		if gaps := p.DetectGaps(sched, MinGapDuration(mode)); len(gaps) != 0 {
			t.Fatalf("mode %s: expected no gaps, got %d", mode, len(gaps))
		}
	}
}

func TestDetectGapsEmptySchedule(t *testing.T) {
	w := testWindow()
	p := newTestPlanner(newMoonOracle())
	gaps := p.DetectGaps(model.Schedule{Window: w}, MinGapDuration(model.ModeQuality))
	if len(gaps) != 1 {
		t.Fatalf("expected the whole window as one gap, got %d", len(gaps))
	}
	if gaps[0].Duration != w.Duration() {
		t.Fatalf("gap duration %v, want %v", gaps[0].Duration, w.Duration())
	}
	if gaps[0].Index != model.TrailingGap {
		t.Fatalf("expected trailing marker")
	}
}

func TestDetectGapsCap(t *testing.T) {
	w := testWindow()
	w.Dawn = w.Dusk.Add(40 * time.Hour)
	p := newTestPlanner(newMoonOracle())

	// Degenerate schedule: dozens of tiny entries with qualifying gaps
	// between them.
	var spans [][2]time.Time
	cursor := w.Dusk
	for i := 0; i < 40; i++ {
		spans = append(spans, [2]time.Time{cursor, cursor.Add(10 * time.Minute)})
		cursor = cursor.Add(time.Hour)
	}
	sched := mkSchedule(w, spans...)

	gaps := p.DetectGaps(sched, MinGapDuration(model.ModeQuantity))
	if len(gaps) != 20 {
		t.Fatalf("expected scan capped at 20 gaps, got %d", len(gaps))
	}
}

func TestMinGapDurationPresets(t *testing.T) {
	cases := map[model.PlanMode]time.Duration{
		model.ModeQuality:  45 * time.Minute,
		model.ModeBalanced: 30 * time.Minute,
		model.ModeQuantity: 15 * time.Minute,
	}
	for mode, want := range cases {
		if got := MinGapDuration(mode); got != want {
			t.Fatalf("mode %s: got %v want %v", mode, got, want)
		}
	}
}
