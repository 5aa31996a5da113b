package planner

import (
	"sync"
	"time"

	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/core/scorer"
)

// interval is a free span of session time. The start already accounts for the
// slew buffer of whatever precedes it.
type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) duration() time.Duration { return iv.end.Sub(iv.start) }

// bestInstant scans the sampling grid for the instant of maximum altitude at
// which the visibility gate holds. Returns false when the target is never
// visible in the span.
func bestInstant(ctx *PlanContext, t model.Target, from, to time.Time, step time.Duration) (time.Time, scorer.ScoreResult, bool) {
	var (
		best    time.Time
		bestRes scorer.ScoreResult
		found   bool
	)
	for at := from; !at.After(to); at = at.Add(step) {
		res := ctx.Scorer.Score(t, at)
		if !res.Visible {
			continue
		}
		if !found || res.AltitudeDeg > bestRes.AltitudeDeg {
			best, bestRes, found = at, res, true
		}
	}
	return best, bestRes, found
}

// prepareCandidates scores every target at its best instant within the span.
// Scoring is fanned out across workers; each call reads only its arguments
// and the read-only oracle, so no synchronisation beyond the result slice is
// needed. Input order is preserved so equal scores resolve to the
// earliest-listed candidate.
func prepareCandidates(ctx *PlanContext, targets []model.Target, from, to time.Time, step time.Duration, workers int) []candidate {
	if workers < 1 {
		workers = 1
	}
	results := make([]*candidate, len(targets))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				at, res, ok := bestInstant(ctx, targets[i], from, to, step)
				if !ok {
					continue
				}
				results[i] = &candidate{target: targets[i], best: at, result: res}
			}
		}()
	}
	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	list := make([]candidate, 0, len(targets))
	for _, c := range results {
		if c != nil {
			list = append(list, *c)
		}
	}
	return list
}

// exposureVisible reports whether the gate holds at both ends of an exposure.
// A target's altitude is unimodal across a night, so endpoint checks cover
// the full span.
func exposureVisible(ctx *PlanContext, t model.Target, start, end time.Time) bool {
	return ctx.Scorer.Score(t, start).Visible && ctx.Scorer.Score(t, end).Visible
}

// visibleRun returns the longest contiguous span within [from,to] during
// which the gate holds, sampled at step resolution.
func visibleRun(ctx *PlanContext, t model.Target, from, to time.Time, step time.Duration) time.Duration {
	var longest, run time.Duration
	for at := from; !at.After(to); at = at.Add(step) {
		if ctx.Scorer.Score(t, at).Visible {
			run += step
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// subtract removes the occupied span (including the trailing slew buffer)
// from the free set, keeping it ordered.
func subtract(free []interval, start, end time.Time) []interval {
	out := make([]interval, 0, len(free)+1)
	for _, iv := range free {
		if !iv.start.Before(end) || !start.Before(iv.end) {
			out = append(out, iv)
			continue
		}
		if iv.start.Before(start) {
			out = append(out, interval{iv.start, start})
		}
		if end.Before(iv.end) {
			out = append(out, interval{end, iv.end})
		}
	}
	return out
}
