package metrics

import (
	"time"

	"github.com/skyops/nightplan/core/model"
)

// PlanEntryEvent represents one scheduled observation to be recorded.
type PlanEntryEvent struct {
	TargetID   string
	ObjectType string
	Origin     model.EntryOrigin
	Score      float64
	Start      time.Time
	End        time.Time
	Mode       model.PlanMode
}

// PlanSummaryEvent captures the outcome of a full planning run.
type PlanSummaryEvent struct {
	Entries       int
	GapsFound     int
	GapsFilled    int
	TotalMinutes  float64
	FilledMinutes float64
	Mode          model.PlanMode
	Time          time.Time
}

// MetricsSink records planning results for observability purposes.
type MetricsSink interface {
	RecordPlanEntries(events []PlanEntryEvent) error
	RecordPlanSummary(ev PlanSummaryEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanEntries([]PlanEntryEvent) error { return nil }
func (NopSink) RecordPlanSummary(PlanSummaryEvent) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordPlanEntries(evs []PlanEntryEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordPlanEntries(evs); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordPlanSummary(ev PlanSummaryEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordPlanSummary(ev); err != nil {
			return err
		}
	}
	return nil
}
