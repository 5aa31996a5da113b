package planner

import (
	"fmt"
	"time"

	"github.com/skyops/nightplan/core/model"
)

// Config defines planning parameters loaded from configuration.
type Config struct {
	SampleStepMinutes int     `json:"sample_step_minutes" yaml:"sample_step_minutes"`
	SlewBufferMinutes int     `json:"slew_buffer_minutes" yaml:"slew_buffer_minutes"`
	RelaxedScoreFloor float64 `json:"relaxed_score_floor" yaml:"relaxed_score_floor"`
	FitBonus          float64 `json:"fit_bonus" yaml:"fit_bonus"`
	DiversityBonus    float64 `json:"diversity_bonus" yaml:"diversity_bonus"`
	MaxGaps           int     `json:"max_gaps" yaml:"max_gaps"`
	Workers           int     `json:"workers" yaml:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SampleStepMinutes == 0 {
		c.SampleStepMinutes = 15
	}
	if c.SlewBufferMinutes == 0 {
		c.SlewBufferMinutes = 5
	}
	if c.RelaxedScoreFloor == 0 {
		c.RelaxedScoreFloor = 0.5
	}
	if c.FitBonus == 0 {
		c.FitBonus = 0.1
	}
	if c.DiversityBonus == 0 {
		c.DiversityBonus = 0.05
	}
	if c.MaxGaps == 0 {
		c.MaxGaps = 20
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.SampleStepMinutes <= 0 {
		return fmt.Errorf("sample_step_minutes must be positive")
	}
	if c.SlewBufferMinutes < 0 {
		return fmt.Errorf("slew_buffer_minutes must not be negative")
	}
	if c.RelaxedScoreFloor < 0 || c.RelaxedScoreFloor > 1 {
		return fmt.Errorf("relaxed_score_floor %v out of range [0,1]", c.RelaxedScoreFloor)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// SampleStep returns the grid resolution for peak-altitude search.
func (c Config) SampleStep() time.Duration {
	return time.Duration(c.SampleStepMinutes) * time.Minute
}

// SlewBuffer returns the repoint-and-settle time reserved between entries.
func (c Config) SlewBuffer() time.Duration {
	return time.Duration(c.SlewBufferMinutes) * time.Minute
}

// MinGapDuration returns the mode-dependent threshold below which idle time
// is not worth reclaiming.
func MinGapDuration(mode model.PlanMode) time.Duration {
	switch mode {
	case model.ModeQuality:
		return 45 * time.Minute
	case model.ModeQuantity:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}
