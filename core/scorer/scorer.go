package scorer

import (
	"math"
	"time"

	"github.com/skyops/nightplan/core/astro"
	"github.com/skyops/nightplan/core/model"
)

// Components breaks a score down into its weighted factors.
type Components struct {
	Altitude         float64
	Moon             float64
	Transit          float64
	StatusMultiplier float64
}

// ScoreResult is the outcome of evaluating one target at one instant.
type ScoreResult struct {
	Value       float64
	AltitudeDeg float64
	// Visible is the hard altitude/moon/rotation gate, independent of the
	// score.
	Visible bool
	// Passes is Visible combined with the configured score floor.
	Passes     bool
	Components Components
}

// VisibilityScorer rates how worthwhile a target is at a given instant. The
// altitude curve favours a sweet band over both horizon-hugging and
// near-zenith positions, the moon term penalises proximity to a bright Moon,
// and the transit term rewards instants close to the local meridian. Scoring
// is pure: identical inputs always produce identical results.
type VisibilityScorer struct {
	Oracle      astro.PositionOracle
	Location    model.Location
	Constraints model.ObservingConstraints

	// Curve tunables. The shapes are heuristics validated against the
	// planner tests, not physical models.
	SweetLowDeg   float64 // lower edge of the preferred altitude band
	SweetHighDeg  float64 // upper edge of the preferred altitude band
	ZenithPenalty float64 // altitude term lost between the band edge and zenith
	MoonScaleDeg  float64 // e-folding distance of the moon penalty
	TransitScaleH float64 // e-folding hour angle of the transit bonus
}

// New returns a scorer with default curve parameters.
func New(oracle astro.PositionOracle, loc model.Location, c model.ObservingConstraints) *VisibilityScorer {
	return &VisibilityScorer{
		Oracle:        oracle,
		Location:      loc,
		Constraints:   c,
		SweetLowDeg:   30,
		SweetHighDeg:  70,
		ZenithPenalty: 0.4,
		MoonScaleDeg:  30,
		TransitScaleH: 3,
	}
}

// Score evaluates the target at the instant. Oracle failures degrade to a
// non-visible result for this target only.
func (s *VisibilityScorer) Score(t model.Target, at time.Time) ScoreResult {
	pos, err := s.Oracle.Position(t, s.Location, at)
	if err != nil {
		return ScoreResult{}
	}

	res := ScoreResult{AltitudeDeg: pos.AltitudeDeg}
	gate := pos.AltitudeDeg >= s.Constraints.MinAltitudeDeg &&
		pos.AltitudeDeg <= s.Constraints.MaxAltitudeDeg

	res.Components.Altitude = s.altitudeTerm(pos.AltitudeDeg)

	moonTerm, moonOK := s.moonTerm(pos, at)
	res.Components.Moon = moonTerm
	gate = gate && moonOK

	if s.Constraints.MaxRotationRate > 0 {
		gate = gate && rotationRate(pos, s.Location) <= s.Constraints.MaxRotationRate
	}

	ha := s.Oracle.HourAngle(t, s.Location, at)
	res.Components.Transit = math.Exp(-(ha * ha) / (s.TransitScaleH * s.TransitScaleH))

	res.Components.StatusMultiplier = s.Constraints.Multiplier(t.Status())

	value := res.Components.Altitude * res.Components.Moon * res.Components.Transit *
		res.Components.StatusMultiplier
	if value < 0 {
		value = 0
	}
	res.Value = value
	res.Visible = gate
	res.Passes = gate && value >= s.Constraints.MinScore
	return res
}

// altitudeTerm is a normalized peak-preference curve: linear ramp up to the
// sweet band, flat inside it, and a gentle taper towards zenith where
// tracking and field rotation degrade.
func (s *VisibilityScorer) altitudeTerm(altDeg float64) float64 {
	switch {
	case altDeg <= 0:
		return 0
	case altDeg < s.SweetLowDeg:
		return altDeg / s.SweetLowDeg
	case altDeg <= s.SweetHighDeg:
		return 1
	default:
		frac := (altDeg - s.SweetHighDeg) / (90 - s.SweetHighDeg)
		return 1 - s.ZenithPenalty*frac
	}
}

// rotationRate returns the field rotation speed in degrees per minute for an
// alt-az mount tracking the position. The rate diverges towards zenith, so
// the gate also protects against near-zenith tracking loss.
func rotationRate(pos astro.HorizontalCoords, loc model.Location) float64 {
	const siderealDegPerMin = 360.0 / (23.9345 * 60)
	alt := pos.AltitudeDeg * math.Pi / 180
	az := pos.AzimuthDeg * math.Pi / 180
	lat := loc.LatitudeDeg * math.Pi / 180
	return math.Abs(siderealDegPerMin * math.Cos(lat) * math.Cos(az) / math.Cos(alt))
}

// moonTerm returns the moon penalty factor and whether the minimum separation
// is met. A bright, close Moon penalizes heavily; a new Moon barely at all.
func (s *VisibilityScorer) moonTerm(pos astro.HorizontalCoords, at time.Time) (float64, bool) {
	moon, err := s.Oracle.MoonPosition(s.Location, at)
	if err != nil {
		return 0, false
	}
	sep := astro.Separation(pos, moon)
	if sep < s.Constraints.MinMoonSepDeg {
		return 0, false
	}
	illum := s.Oracle.MoonIllumination(at)
	penalty := illum * math.Exp(-(sep-s.Constraints.MinMoonSepDeg)/s.MoonScaleDeg)
	return 1 - penalty, true
}
