package model

import (
	"fmt"
	"time"
)

// Location is the observing site.
type Location struct {
	LatitudeDeg  float64 `json:"latitude_deg"`
	LongitudeDeg float64 `json:"longitude_deg"` // east positive
	ElevationM   float64 `json:"elevation_m"`
	Timezone     string  `json:"timezone"`
}

// Validate checks the site coordinates.
func (l Location) Validate() error {
	if l.LatitudeDeg < -90 || l.LatitudeDeg > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", l.LatitudeDeg)
	}
	if l.LongitudeDeg < -180 || l.LongitudeDeg > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", l.LongitudeDeg)
	}
	return nil
}

// SessionWindow is the dark-sky interval for a single night at a site.
// Computed once per plan and shared by every planner component.
type SessionWindow struct {
	Dusk     time.Time `json:"dusk"`
	Dawn     time.Time `json:"dawn"`
	Location Location  `json:"location"`
}

// Duration returns the total dark time available.
func (w SessionWindow) Duration() time.Duration {
	return w.Dawn.Sub(w.Dusk)
}

// Contains reports whether the instant falls inside the window.
func (w SessionWindow) Contains(t time.Time) bool {
	return !t.Before(w.Dusk) && !t.After(w.Dawn)
}

// Validate rejects structurally invalid windows. A window where dawn does not
// follow dusk aborts the whole planning run.
func (w SessionWindow) Validate() error {
	if !w.Dawn.After(w.Dusk) {
		return fmt.Errorf("dawn %v must follow dusk %v", w.Dawn, w.Dusk)
	}
	return w.Location.Validate()
}
