package planner

import (
	"time"

	"github.com/skyops/nightplan/core/events"
	"github.com/skyops/nightplan/core/model"
)

// DetectGaps scans a schedule for idle spans worth reclaiming: the stretches
// between consecutive entries (after the slew buffer) and the trailing span
// before dawn. Scanning stops after MaxGaps qualifying gaps to bound the
// gap-filling work on degenerate schedules.
func (p *Planner) DetectGaps(sched model.Schedule, minGap time.Duration) []model.Gap {
	var gaps []model.Gap
	buffer := p.cfg.SlewBuffer()
	window := sched.Window

	record := func(start, end time.Time, index int) bool {
		d := end.Sub(start)
		if d < minGap {
			return true
		}
		gaps = append(gaps, model.Gap{Start: start, End: end, Duration: d, Index: index})
		p.publish(events.PlanEvent{Action: "gap_detected", Start: start, Duration: d})
		return len(gaps) < p.cfg.MaxGaps
	}

	if len(sched.Entries) == 0 {
		record(window.Dusk, window.Dawn, model.TrailingGap)
		return gaps
	}

	for i := 1; i < len(sched.Entries); i++ {
		start := sched.Entries[i-1].End.Add(buffer)
		end := sched.Entries[i].Start
		if !record(start, end, i-1) {
			return gaps
		}
	}

	last := sched.Entries[len(sched.Entries)-1]
	record(last.End.Add(buffer), window.Dawn, model.TrailingGap)
	return gaps
}
