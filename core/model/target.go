package model

import (
	"fmt"
	"time"
)

// CaptureStatus reflects how much usable data has already been collected for
// a target, either set by the user or derived from session history.
type CaptureStatus string

const (
	StatusNone          CaptureStatus = "none"
	StatusNeedsMoreData CaptureStatus = "needs_more_data"
	StatusComplete      CaptureStatus = "complete"
)

// CaptureHistory summarises prior imaging sessions for a target.
type CaptureHistory struct {
	TotalExposure time.Duration `json:"total_exposure"`
	SessionCount  int           `json:"session_count"`
	Status        CaptureStatus `json:"status"`
}

// Target is an immutable catalog entry. The planner only reads it; catalog
// management lives upstream.
type Target struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RAHours    float64 `json:"ra_hours"`  // right ascension in hours [0,24)
	DecDeg     float64 `json:"dec_deg"`   // declination in degrees [-90,90]
	Magnitude  float64 `json:"magnitude"` // apparent magnitude
	SizeArcmin float64 `json:"size_arcmin"`
	Type       string  `json:"type"` // object-type tag, e.g. "galaxy", "nebula"

	// Exposure is the recommended total exposure for one session, decided by
	// the catalog's exposure policy.
	Exposure time.Duration `json:"exposure"`

	// MinExposure is the shortest worthwhile exposure when squeezing the
	// target into leftover time. Zero means any span is acceptable.
	MinExposure time.Duration `json:"min_exposure,omitempty"`

	// History is nil when the target has never been captured.
	History *CaptureHistory `json:"history,omitempty"`
}

// Status returns the capture status, defaulting to StatusNone when the target
// carries no history.
func (t Target) Status() CaptureStatus {
	if t.History == nil || t.History.Status == "" {
		return StatusNone
	}
	return t.History.Status
}

// Validate checks that the catalog entry is sound.
func (t Target) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("target id is required")
	}
	if t.RAHours < 0 || t.RAHours >= 24 {
		return fmt.Errorf("target %s: ra %v out of range [0,24)", t.ID, t.RAHours)
	}
	if t.DecDeg < -90 || t.DecDeg > 90 {
		return fmt.Errorf("target %s: dec %v out of range [-90,90]", t.ID, t.DecDeg)
	}
	if t.Exposure <= 0 {
		return fmt.Errorf("target %s: exposure must be positive", t.ID)
	}
	return nil
}
