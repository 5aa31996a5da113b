package mqtt

import "github.com/skyops/nightplan/core/model"

// Publisher delivers finalized observation plans to the execution engine.
type Publisher interface {
	// PublishPlan publishes the schedule and returns the plan identifier
	// attached to the message.
	PublishPlan(s model.Schedule) (planID string, err error)
}
