package model

import "fmt"

// PlanMode selects how aggressively idle time is reclaimed.
type PlanMode string

const (
	ModeQuality  PlanMode = "quality"
	ModeBalanced PlanMode = "balanced"
	ModeQuantity PlanMode = "quantity"
)

// Valid reports whether the mode is one of the known presets.
func (m PlanMode) Valid() bool {
	switch m {
	case ModeQuality, ModeBalanced, ModeQuantity:
		return true
	}
	return false
}

// ObservingConstraints is the per-request quality envelope. Immutable during
// a single scheduling run.
type ObservingConstraints struct {
	MinAltitudeDeg  float64 `json:"min_altitude_deg"`
	MaxAltitudeDeg  float64 `json:"max_altitude_deg"`
	MinMoonSepDeg   float64 `json:"min_moon_sep_deg"`
	MaxRotationRate float64 `json:"max_rotation_rate"` // deg/min field rotation ceiling
	MinScore        float64 `json:"min_score"`

	// StatusMultipliers scale the final score by capture status, e.g.
	// complete targets are demoted and partially captured ones promoted.
	StatusMultipliers map[CaptureStatus]float64 `json:"status_multipliers"`
}

// Multiplier returns the score multiplier for the given status, defaulting
// to 1 when no entry exists.
func (c ObservingConstraints) Multiplier(s CaptureStatus) float64 {
	if c.StatusMultipliers == nil {
		return 1
	}
	m, ok := c.StatusMultipliers[s]
	if !ok {
		return 1
	}
	return m
}

// Validate rejects malformed constraints. Missing required fields are never
// silently defaulted.
func (c ObservingConstraints) Validate() error {
	if c.MinAltitudeDeg < 0 || c.MinAltitudeDeg > 90 {
		return fmt.Errorf("min altitude %v out of range [0,90]", c.MinAltitudeDeg)
	}
	if c.MaxAltitudeDeg <= c.MinAltitudeDeg || c.MaxAltitudeDeg > 90 {
		return fmt.Errorf("max altitude %v must be in (%v,90]", c.MaxAltitudeDeg, c.MinAltitudeDeg)
	}
	if c.MaxRotationRate < 0 {
		return fmt.Errorf("rotation rate ceiling %v must not be negative", c.MaxRotationRate)
	}
	if c.MinMoonSepDeg < 0 || c.MinMoonSepDeg > 180 {
		return fmt.Errorf("moon separation %v out of range [0,180]", c.MinMoonSepDeg)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("minimum score %v out of range [0,1]", c.MinScore)
	}
	return nil
}
