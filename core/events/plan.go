package events

import (
	"time"

	"github.com/skyops/nightplan/core/model"
)

// PlanEvent is emitted as the planner works through a session. Action can be
// "entry_scheduled", "gap_detected", "gap_filled", or "gap_unfilled".
type PlanEvent struct {
	Action   string
	TargetID string
	Start    time.Time
	Duration time.Duration
	Reason   model.UnfilledReason
}
