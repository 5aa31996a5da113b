package planner

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/skyops/nightplan/core/events"
	"github.com/skyops/nightplan/core/model"
)

// fillSlack is the visibility shortfall tolerated when matching a candidate
// to a gap.
const fillSlack = 5 * time.Minute

type gapOutcome struct {
	entry  *model.ScheduledEntry
	reason model.UnfilledReason
}

type fillCandidate struct {
	target model.Target
	score  float64 // base + fit + diversity
	fitDur time.Duration
}

// FillGaps attempts to reclaim each detected gap independently, under a
// relaxed score floor. It returns the new gap-filler entries (the caller
// merges and re-sorts) and aggregate statistics for display.
//
// Per-gap searches are independent and run in parallel; a single writer
// merges the outcomes.
func (p *Planner) FillGaps(ctx *PlanContext, gaps []model.Gap, targets []model.Target, sched model.Schedule) ([]model.ScheduledEntry, model.GapFillStats) {
	stats := model.GapFillStats{GapsFound: len(gaps)}
	if len(gaps) == 0 {
		return nil, stats
	}

	outcomes := make([]gapOutcome, len(gaps))
	workers := p.cfg.Workers
	if workers > len(gaps) {
		workers = len(gaps)
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = p.fillGap(ctx, gaps[i], targets, sched)
			}
		}()
	}
	for i := range gaps {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var entries []model.ScheduledEntry
	var winnerScores []float64
	for i, out := range outcomes {
		stats.TotalMinutes += gaps[i].Duration.Minutes()
		if out.entry != nil {
			entries = append(entries, *out.entry)
			stats.GapsFilled++
			stats.FilledMinutes += out.entry.Duration().Minutes()
			winnerScores = append(winnerScores, out.entry.Score)
			p.publish(events.PlanEvent{
				Action:   "gap_filled",
				TargetID: out.entry.Target.ID,
				Start:    out.entry.Start,
				Duration: out.entry.Duration(),
			})
			continue
		}
		stats.UnfilledReasons = append(stats.UnfilledReasons, out.reason)
		p.publish(events.PlanEvent{
			Action: "gap_unfilled",
			Start:  gaps[i].Start,
			Reason: out.reason,
		})
	}
	if len(winnerScores) > 0 {
		stats.MeanScore = stat.Mean(winnerScores, nil)
	}
	return entries, stats
}

// fillGap searches one gap for the best target not yet in the schedule. An
// unfillable gap is an expected terminal state, reported by reason.
func (p *Planner) fillGap(ctx *PlanContext, gap model.Gap, targets []model.Target, sched model.Schedule) gapOutcome {
	need := gap.Duration - fillSlack
	var cands []fillCandidate
	visible, tooSmall := 0, 0

	for _, t := range targets {
		if sched.HasTarget(t.ID) {
			continue
		}
		if visibleRun(ctx, t, gap.Start, gap.End, fillSlack) < need {
			continue
		}
		visible++
		if t.MinExposure > gap.Duration {
			// Visible, but not worth squeezing below its minimum.
			tooSmall++
			continue
		}
		fitDur := t.Exposure
		if fitDur > gap.Duration {
			fitDur = gap.Duration
		}

		_, res, ok := bestInstant(ctx, t, gap.Start, gap.End, fillSlack)
		if !ok || res.Value < p.cfg.RelaxedScoreFloor {
			continue
		}

		total := res.Value
		if fitDur >= time.Duration(0.9*float64(gap.Duration)) {
			total += p.cfg.FitBonus
		}
		if !sched.HasType(t.Type) {
			total += p.cfg.DiversityBonus
		}
		cands = append(cands, fillCandidate{target: t, score: total, fitDur: fitDur})
	}

	if len(cands) == 0 {
		reason := model.ReasonNoSuitableTargets
		if visible > 0 && tooSmall == visible {
			reason = model.ReasonGapTooSmall
		}
		return gapOutcome{reason: reason}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score == cands[j].score {
			return cands[i].target.ID < cands[j].target.ID
		}
		return cands[i].score > cands[j].score
	})

	winner := cands[0]
	entry := model.ScheduledEntry{
		ID:     uuid.NewString(),
		Target: winner.target,
		Start:  gap.Start,
		End:    gap.Start.Add(winner.fitDur),
		Score:  winner.score,
		Origin: model.OriginGapFiller,
	}
	for _, alt := range cands[1:] {
		if len(entry.Alternatives) == model.MaxAlternatives-1 {
			break
		}
		entry.Alternatives = append(entry.Alternatives, model.Alternative{
			Target:   alt.target,
			Score:    alt.score,
			Duration: alt.fitDur,
		})
	}
	return gapOutcome{entry: &entry}
}
