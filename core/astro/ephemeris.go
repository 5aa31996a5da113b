package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/skyops/nightplan/core/model"
)

// Ephemeris is a low-precision analytic implementation of PositionOracle.
// Solar and lunar positions follow the truncated series from Meeus,
// Astronomical Algorithms; accuracy is on the order of arcminutes, which is
// ample for session planning.
type Ephemeris struct{}

// NewEphemeris returns the default oracle.
func NewEphemeris() *Ephemeris { return &Ephemeris{} }

const (
	j2000          = 2451545.0
	twilightAltDeg = -18.0 // astronomical twilight
)

// julianDay converts an instant to a Julian Day number.
func julianDay(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/float64(86400*time.Second) + 2440587.5
}

// gmstDeg returns Greenwich mean sidereal time in degrees.
func gmstDeg(jd float64) float64 {
	return normDeg(280.46061837 + 360.98564736629*(jd-j2000))
}

// localSiderealDeg returns local sidereal time in degrees for an east-positive
// longitude.
func localSiderealDeg(jd, lonDeg float64) float64 {
	return normDeg(gmstDeg(jd) + lonDeg)
}

// equatorialToHorizontal converts RA/Dec (degrees) to altitude/azimuth at the
// given site and instant.
func equatorialToHorizontal(raDeg, decDeg float64, loc model.Location, at time.Time) HorizontalCoords {
	jd := julianDay(at)
	ha := radians(normDeg(localSiderealDeg(jd, loc.LongitudeDeg) - raDeg))
	lat := radians(loc.LatitudeDeg)
	dec := radians(decDeg)

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	alt := math.Asin(sinAlt)
	// Azimuth from north, eastward.
	az := math.Atan2(math.Sin(ha), math.Cos(ha)*math.Sin(lat)-math.Tan(dec)*math.Cos(lat))
	return HorizontalCoords{
		AltitudeDeg: degrees(alt),
		AzimuthDeg:  normDeg(degrees(az) + 180),
	}
}

// Position implements PositionOracle.
func (e *Ephemeris) Position(t model.Target, loc model.Location, at time.Time) (HorizontalCoords, error) {
	if math.IsNaN(t.RAHours) || math.IsNaN(t.DecDeg) || math.IsInf(t.RAHours, 0) || math.IsInf(t.DecDeg, 0) {
		return HorizontalCoords{}, fmt.Errorf("target %s: degenerate coordinates", t.ID)
	}
	return equatorialToHorizontal(t.RAHours*15, t.DecDeg, loc, at), nil
}

// HourAngle implements PositionOracle.
func (e *Ephemeris) HourAngle(t model.Target, loc model.Location, at time.Time) float64 {
	jd := julianDay(at)
	haDeg := normDeg(localSiderealDeg(jd, loc.LongitudeDeg) - t.RAHours*15)
	if haDeg >= 180 {
		haDeg -= 360
	}
	return haDeg / 15
}

// sunEcliptic returns the Sun's geometric ecliptic longitude in degrees.
func sunEcliptic(jd float64) float64 {
	n := jd - j2000
	meanLon := normDeg(280.460 + 0.9856474*n)
	meanAnom := radians(normDeg(357.528 + 0.9856003*n))
	return normDeg(meanLon + 1.915*math.Sin(meanAnom) + 0.020*math.Sin(2*meanAnom))
}

// obliquityDeg returns the obliquity of the ecliptic in degrees.
func obliquityDeg(jd float64) float64 {
	return 23.439 - 0.0000004*(jd-j2000)
}

// eclipticToEquatorial converts ecliptic longitude/latitude to RA/Dec, all in
// degrees.
func eclipticToEquatorial(lonDeg, latDeg, jd float64) (raDeg, decDeg float64) {
	eps := radians(obliquityDeg(jd))
	lon := radians(lonDeg)
	lat := radians(latDeg)
	ra := math.Atan2(math.Sin(lon)*math.Cos(eps)-math.Tan(lat)*math.Sin(eps), math.Cos(lon))
	dec := math.Asin(math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon))
	return normDeg(degrees(ra)), degrees(dec)
}

// sunPosition returns the Sun's horizontal position at the site.
func sunPosition(loc model.Location, at time.Time) HorizontalCoords {
	jd := julianDay(at)
	ra, dec := eclipticToEquatorial(sunEcliptic(jd), 0, jd)
	return equatorialToHorizontal(ra, dec, loc, at)
}

// moonEcliptic returns the Moon's ecliptic longitude and latitude in degrees
// using the largest perturbation terms only.
func moonEcliptic(jd float64) (lonDeg, latDeg float64) {
	n := jd - j2000
	meanLon := normDeg(218.316 + 13.176396*n)
	meanAnom := radians(normDeg(134.963 + 13.064993*n))
	argLat := radians(normDeg(93.272 + 13.229350*n))
	lon := normDeg(meanLon + 6.289*math.Sin(meanAnom))
	lat := 5.128 * math.Sin(argLat)
	return lon, lat
}

// MoonPosition implements PositionOracle.
func (e *Ephemeris) MoonPosition(loc model.Location, at time.Time) (HorizontalCoords, error) {
	jd := julianDay(at)
	lon, lat := moonEcliptic(jd)
	ra, dec := eclipticToEquatorial(lon, lat, jd)
	return equatorialToHorizontal(ra, dec, loc, at), nil
}

// MoonIllumination implements PositionOracle. The illuminated fraction is
// derived from the Sun-Moon elongation.
func (e *Ephemeris) MoonIllumination(at time.Time) float64 {
	jd := julianDay(at)
	moonLon, moonLat := moonEcliptic(jd)
	sunLon := sunEcliptic(jd)
	elong := math.Acos(clamp(math.Cos(radians(moonLat))*math.Cos(radians(moonLon-sunLon)), -1, 1))
	return (1 - math.Cos(elong)) / 2
}

// TwilightWindow implements PositionOracle. It scans the night between local
// noons for the Sun crossing -18 degrees and refines each crossing by
// bisection.
func (e *Ephemeris) TwilightWindow(loc model.Location, date time.Time) (time.Time, time.Time, error) {
	if err := loc.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	tz := time.UTC
	if loc.Timezone != "" {
		loaded, err := time.LoadLocation(loc.Timezone)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("timezone %q: %w", loc.Timezone, err)
		}
		tz = loaded
	}
	local := date.In(tz)
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, tz)
	nextNoon := noon.Add(24 * time.Hour)

	const step = 5 * time.Minute
	var dusk, dawn time.Time
	prev := sunPosition(loc, noon).AltitudeDeg
	for t := noon.Add(step); !t.After(nextNoon); t = t.Add(step) {
		alt := sunPosition(loc, t).AltitudeDeg
		if dusk.IsZero() && prev > twilightAltDeg && alt <= twilightAltDeg {
			dusk = bisectCrossing(loc, t.Add(-step), t, true)
		}
		if !dusk.IsZero() && dawn.IsZero() && prev < twilightAltDeg && alt >= twilightAltDeg {
			dawn = bisectCrossing(loc, t.Add(-step), t, false)
			break
		}
		prev = alt
	}
	if dusk.IsZero() || dawn.IsZero() {
		return time.Time{}, time.Time{}, ErrNoDarkness
	}
	return dusk, dawn, nil
}

// bisectCrossing narrows a twilight crossing to one-second precision.
func bisectCrossing(loc model.Location, lo, hi time.Time, descending bool) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		alt := sunPosition(loc, mid).AltitudeDeg
		below := alt <= twilightAltDeg
		if below == descending {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Truncate(time.Second)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
