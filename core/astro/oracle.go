package astro

import (
	"errors"
	"math"
	"time"

	"github.com/skyops/nightplan/core/model"
)

// HorizontalCoords is a topocentric sky position.
type HorizontalCoords struct {
	AltitudeDeg float64
	AzimuthDeg  float64 // from north, eastward
}

// ErrNoDarkness indicates the sun never reaches astronomical twilight on the
// requested night (polar summer).
var ErrNoDarkness = errors.New("no astronomical darkness at this site and date")

// PositionOracle computes sky positions for planning. Implementations must be
// pure and deterministic: identical arguments yield identical results.
type PositionOracle interface {
	// Position returns the topocentric altitude and azimuth of the target.
	Position(t model.Target, loc model.Location, at time.Time) (HorizontalCoords, error)
	// HourAngle returns the target's local hour angle in hours, in
	// [-12,12). Zero means the target is on the meridian (transit).
	HourAngle(t model.Target, loc model.Location, at time.Time) float64
	// MoonPosition returns the Moon's topocentric position.
	MoonPosition(loc model.Location, at time.Time) (HorizontalCoords, error)
	// MoonIllumination returns the illuminated fraction of the Moon's disk
	// in [0,1].
	MoonIllumination(at time.Time) float64
	// TwilightWindow returns the astronomical dusk and dawn bounding the
	// night that starts on the evening of date.
	TwilightWindow(loc model.Location, date time.Time) (dusk, dawn time.Time, err error)
}

// Separation returns the angular distance in degrees between two horizontal
// positions, by the spherical law of cosines.
func Separation(a, b HorizontalCoords) float64 {
	alt1 := radians(a.AltitudeDeg)
	alt2 := radians(b.AltitudeDeg)
	dAz := radians(a.AzimuthDeg - b.AzimuthDeg)
	c := math.Sin(alt1)*math.Sin(alt2) + math.Cos(alt1)*math.Cos(alt2)*math.Cos(dAz)
	if c > 1 {
		c = 1
	}
	if c < -1 {
		c = -1
	}
	return degrees(math.Acos(c))
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// normDeg wraps an angle into [0,360).
func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
