package ephemeris

import "math"

const degToRad = math.Pi / 180

// solarLongitude returns the Sun's geometric tropical longitude in degrees
// for T Julian centuries since J2000, from the truncated series in Meeus,
// Astronomical Algorithms ch. 25. Good to well under an arcminute over the
// supported era; the Sun's ecliptic latitude never exceeds 1.2″ and is
// treated as zero.
func solarLongitude(T float64) float64 {
	meanLon := 280.46646 + 36000.76983*T + 0.0003032*T*T
	meanAnom := (357.52911 + 35999.05029*T - 0.0001537*T*T) * degToRad

	center := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(meanAnom) +
		(0.019993-0.000101*T)*math.Sin(2*meanAnom) +
		0.000289*math.Sin(3*meanAnom)

	return meanLon + center
}
