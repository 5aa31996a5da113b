package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/skyops/nightplan/core/astro"
	"github.com/skyops/nightplan/core/events"
	"github.com/skyops/nightplan/core/logger"
	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/core/scorer"
	"github.com/skyops/nightplan/internal/eventbus"
)

// Planner builds observation schedules for a single night and instrument.
type Planner struct {
	cfg    Config
	oracle astro.PositionOracle
	log    logger.Logger
	bus    *eventbus.Bus[events.PlanEvent]
}

// New returns a Planner with the given configuration.
func New(cfg Config, oracle astro.PositionOracle, log logger.Logger) *Planner {
	cfg.SetDefaults()
	return &Planner{cfg: cfg, oracle: oracle, log: log}
}

// SetEventBus configures an optional bus for planning progress events.
func (p *Planner) SetEventBus(bus *eventbus.Bus[events.PlanEvent]) { p.bus = bus }

func (p *Planner) publish(e events.PlanEvent) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// newContext validates the request and builds the shared planning context.
// Only structurally invalid top-level input aborts the run.
func (p *Planner) newContext(req Request) (*PlanContext, error) {
	if err := req.Window.Validate(); err != nil {
		return nil, fmt.Errorf("session window: %w", err)
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unknown plan mode %q", req.Mode)
	}
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("candidate pool is empty")
	}
	return &PlanContext{
		Window:      req.Window,
		Constraints: req.Constraints,
		Mode:        req.Mode,
		Scorer:      scorer.New(p.oracle, req.Window.Location, req.Constraints),
	}, nil
}

// Plan runs the full pipeline: primary scheduling, gap detection and gap
// filling. An empty night is a valid outcome, not an error.
func (p *Planner) Plan(req Request) (model.Schedule, model.GapFillStats, error) {
	ctx, err := p.newContext(req)
	if err != nil {
		return model.Schedule{}, model.GapFillStats{}, err
	}

	sched := p.schedule(ctx, req.Candidates)
	p.log.Infof("primary pass placed %d of %d candidates", len(sched.Entries), len(req.Candidates))

	gaps := p.DetectGaps(sched, MinGapDuration(req.Mode))
	filled, stats := p.FillGaps(ctx, gaps, req.Candidates, sched)
	if len(filled) > 0 {
		sched.Entries = append(sched.Entries, filled...)
		sched.Sort()
	}
	p.log.Debugw("plan complete", map[string]any{
		"entries":     len(sched.Entries),
		"gaps_found":  stats.GapsFound,
		"gaps_filled": stats.GapsFilled,
	})
	return sched, stats, nil
}

// Schedule runs only the primary greedy pass.
func (p *Planner) Schedule(req Request) (model.Schedule, error) {
	ctx, err := p.newContext(req)
	if err != nil {
		return model.Schedule{}, err
	}
	return p.schedule(ctx, req.Candidates), nil
}

// schedule is the greedy best-first construction. Placement is inherently
// sequential: each placement shrinks the free time available to the rest.
func (p *Planner) schedule(ctx *PlanContext, targets []model.Target) model.Schedule {
	sched := model.Schedule{Window: ctx.Window}
	free := []interval{{ctx.Window.Dusk, ctx.Window.Dawn}}
	step := p.cfg.SampleStep()

	cands := prepareCandidates(ctx, targets, ctx.Window.Dusk, ctx.Window.Dawn, step, p.cfg.Workers)
	// Highest score first; ties keep pool order so runs are reproducible.
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].result.Value > cands[j].result.Value
	})

	for _, c := range cands {
		if !c.result.Passes {
			continue
		}
		entry, ok := p.place(ctx, free, c)
		if !ok {
			// Free time only shrinks, so an unplaceable candidate stays
			// unplaceable.
			continue
		}
		sched.Entries = append(sched.Entries, entry)
		free = subtract(free, entry.Start, entry.End.Add(p.cfg.SlewBuffer()))
		p.publish(events.PlanEvent{
			Action:   "entry_scheduled",
			TargetID: entry.Target.ID,
			Start:    entry.Start,
			Duration: entry.Duration(),
		})
	}
	sched.Sort()
	return sched
}

// place finds a slot for the candidate. The interval containing its best
// instant is tried first with a transit-centered start; otherwise the
// earliest fitting start wins. The altitude gate must hold at both ends of
// the exposure.
func (p *Planner) place(ctx *PlanContext, free []interval, c candidate) (model.ScheduledEntry, bool) {
	exposure := c.target.Exposure
	step := p.cfg.SampleStep()

	for _, iv := range free {
		if iv.duration() < exposure {
			continue
		}
		latest := iv.end.Add(-exposure)

		if !c.best.Before(iv.start) && !c.best.After(iv.end) {
			centered := c.best.Add(-exposure / 2)
			if centered.Before(iv.start) {
				centered = iv.start
			}
			if centered.After(latest) {
				centered = latest
			}
			if exposureVisible(ctx, c.target, centered, centered.Add(exposure)) {
				return p.newEntry(c, centered, exposure), true
			}
		}

		for s := iv.start; !s.After(latest); s = s.Add(step) {
			if exposureVisible(ctx, c.target, s, s.Add(exposure)) {
				return p.newEntry(c, s, exposure), true
			}
		}
	}
	return model.ScheduledEntry{}, false
}

func (p *Planner) newEntry(c candidate, start time.Time, d time.Duration) model.ScheduledEntry {
	return model.ScheduledEntry{
		ID:     uuid.NewString(),
		Target: c.target,
		Start:  start,
		End:    start.Add(d),
		Score:  c.result.Value,
		Origin: model.OriginPrimary,
	}
}
