package planner

import (
	"time"

	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/core/scorer"
)

// PlanContext carries the per-run inputs shared by every planning stage. It
// is built once per request and treated as read-only afterwards.
type PlanContext struct {
	Window      model.SessionWindow
	Constraints model.ObservingConstraints
	Mode        model.PlanMode
	Scorer      *scorer.VisibilityScorer
}

// candidate pairs a target with its best viewing instant inside a window and
// the score at that instant.
type candidate struct {
	target model.Target
	best   time.Time
	result scorer.ScoreResult
}

// Request is a complete planning request.
type Request struct {
	Candidates  []model.Target
	Window      model.SessionWindow
	Constraints model.ObservingConstraints
	Mode        model.PlanMode
}
