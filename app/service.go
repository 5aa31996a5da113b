package app

import (
	"context"
	"fmt"
	"time"

	"github.com/skyops/nightplan/config"
	"github.com/skyops/nightplan/core/astro"
	"github.com/skyops/nightplan/core/catalog"
	"github.com/skyops/nightplan/core/events"
	coremetrics "github.com/skyops/nightplan/core/metrics"
	"github.com/skyops/nightplan/core/model"
	coremqtt "github.com/skyops/nightplan/core/mqtt"
	"github.com/skyops/nightplan/core/planner"
	"github.com/skyops/nightplan/infra/logger"
	"github.com/skyops/nightplan/infra/metrics"
	"github.com/skyops/nightplan/infra/mqtt"
	"github.com/skyops/nightplan/internal/eventbus"
)

// Service wires the catalog, ephemeris, planner and sinks together and runs
// one planning pass per invocation.
type Service struct {
	cfg       *config.Config
	planner   *planner.Planner
	oracle    astro.PositionOracle
	store     catalog.Store
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	bus       *eventbus.Bus[events.PlanEvent]
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var publisher coremqtt.Publisher
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT.Config)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = pub
	}

	store := catalog.NewMemoryStore()
	n, err := catalog.LoadFile(cfg.Catalog.Path, store)
	if err != nil {
		return nil, err
	}
	logg.Infof("loaded %d catalog targets", n)

	oracle := astro.NewEphemeris()
	bus := eventbus.New[events.PlanEvent]()
	pl := planner.New(cfg.Planner, oracle, logger.New("planner"))
	pl.SetEventBus(bus)

	return &Service{
		cfg:       cfg,
		planner:   pl,
		oracle:    oracle,
		store:     store,
		sink:      sink,
		publisher: publisher,
		bus:       bus,
		log:       logg,
	}, nil
}

// Run computes the plan for the night starting on date and blocks until the
// pass completes or the context is cancelled.
func (s *Service) Run(ctx context.Context, date time.Time, filter catalog.Filter) (model.Schedule, model.GapFillStats, error) {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.logEvents()

	dusk, dawn, err := s.oracle.TwilightWindow(s.cfg.Site, date)
	if err != nil {
		return model.Schedule{}, model.GapFillStats{}, fmt.Errorf("twilight window: %w", err)
	}
	window := model.SessionWindow{Dusk: dusk, Dawn: dawn, Location: s.cfg.Site}

	pool := s.store.Pool(filter)
	sched, stats, err := s.planner.Plan(planner.Request{
		Candidates:  pool,
		Window:      window,
		Constraints: s.cfg.Constraints,
		Mode:        s.cfg.Mode,
	})
	if err != nil {
		return model.Schedule{}, model.GapFillStats{}, err
	}

	s.record(sched, stats)
	if s.publisher != nil {
		planID, err := s.publisher.PublishPlan(sched)
		if err != nil {
			// The plan itself is still good; publishing is best-effort.
			s.log.Errorf("publish plan: %v", err)
		} else {
			s.log.Infof("plan %s published", planID)
		}
	}
	return sched, stats, nil
}

func (s *Service) record(sched model.Schedule, stats model.GapFillStats) {
	evs := make([]coremetrics.PlanEntryEvent, 0, len(sched.Entries))
	for _, e := range sched.Entries {
		evs = append(evs, coremetrics.PlanEntryEvent{
			TargetID:   e.Target.ID,
			ObjectType: e.Target.Type,
			Origin:     e.Origin,
			Score:      e.Score,
			Start:      e.Start,
			End:        e.End,
			Mode:       s.cfg.Mode,
		})
	}
	if err := s.sink.RecordPlanEntries(evs); err != nil {
		s.log.Errorf("record entries: %v", err)
	}
	if err := s.sink.RecordPlanSummary(coremetrics.PlanSummaryEvent{
		Entries:       len(sched.Entries),
		GapsFound:     stats.GapsFound,
		GapsFilled:    stats.GapsFilled,
		TotalMinutes:  stats.TotalMinutes,
		FilledMinutes: stats.FilledMinutes,
		Mode:          s.cfg.Mode,
		Time:          time.Now(),
	}); err != nil {
		s.log.Errorf("record summary: %v", err)
	}
}

func (s *Service) logEvents() {
	ch := s.bus.Subscribe()
	for ev := range ch {
		fields := map[string]any{"action": ev.Action}
		if ev.TargetID != "" {
			fields["target"] = ev.TargetID
		}
		if !ev.Start.IsZero() {
			fields["start"] = ev.Start
		}
		if ev.Reason != "" {
			fields["reason"] = string(ev.Reason)
		}
		s.log.Debugw("plan event", fields)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if closer, ok := s.publisher.(interface{ Close() }); ok {
		closer.Close()
	}
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}
