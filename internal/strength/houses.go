// Package strength produces shadbala-style composite strength scores: a
// positional component from sign dignity, a directional component from
// house angularity, and a temporal component from day/night rulership and
// retrograde motion, combined by the reviewable weights in the tables
// package and mapped onto life domains by the affinity matrix.
package strength

import (
	"math"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
)

const degToRad = math.Pi / 180

// gmst returns the Greenwich mean sidereal time in degrees.
func gmst(t time.Time) float64 {
	d := ephemeris.JulianDay(t) - 2451545.0
	return math.Mod(280.46061837+360.98564736629*d, 360)
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(t time.Time) float64 {
	T := (ephemeris.JulianDay(t) - 2451545.0) / 36525.0
	return 23.4392911 - 0.0130042*T
}

// Ascendant returns the tropical longitude of the ascendant for the instant's
// time and place, in degrees [0, 360).
func Ascendant(in chart.Instant) float64 {
	ramc := (gmst(in.Time) + in.Longitude) * degToRad // local sidereal time
	eps := obliquity(in.Time) * degToRad
	lat := in.Latitude * degToRad

	asc := math.Atan2(math.Cos(ramc), -(math.Sin(ramc)*math.Cos(eps) + math.Tan(lat)*math.Sin(eps)))
	deg := math.Mod(asc/degToRad, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// HouseOf places a longitude into a whole-sign house counted from the
// ascendant's sign: the sign holding the ascendant is house 1.
func HouseOf(bodyLon, ascLon float64) int {
	bodySign := int(math.Mod(bodyLon, 360) / 30)
	ascSign := int(math.Mod(ascLon, 360) / 30)
	return ((bodySign-ascSign)%12+12)%12 + 1
}

// angular houses are the pillars of the chart; succeedent follow them,
// cadent fall away from them.
func houseClass(house int) string {
	switch house {
	case 1, 4, 7, 10:
		return "angular"
	case 2, 5, 8, 11:
		return "succeedent"
	default:
		return "cadent"
	}
}

// aboveHorizon reports whether a whole-sign house sits above the horizon.
// Houses 7–12 span the visible hemisphere; the Sun there marks a day birth.
func aboveHorizon(house int) bool {
	return house >= 7
}
