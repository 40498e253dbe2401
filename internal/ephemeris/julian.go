package ephemeris

import "time"

const (
	// j2000 is the Julian day of the J2000.0 epoch (2000-01-01 12:00 TT,
	// treated as UTC; the sub-minute TT−UTC offset is below the accuracy of
	// either strategy).
	j2000 = 2451545.0

	daysPerJulianYear    = 365.25
	daysPerJulianCentury = 36525.0
	secondsPerDay        = 86400.0
)

// JulianDay converts a time to a Julian day number.
func JulianDay(t time.Time) float64 {
	// Unix epoch 1970-01-01T00:00:00Z is JD 2440587.5.
	return 2440587.5 + (float64(t.Unix())+float64(t.Nanosecond())/1e9)/secondsPerDay
}

// TimeFromJulianDay converts a Julian day number back to a UTC time, rounded
// to the nearest second.
func TimeFromJulianDay(jd float64) time.Time {
	sec := (jd - 2440587.5) * secondsPerDay
	return time.Unix(int64(sec+0.5), 0).UTC()
}

// centuriesSinceJ2000 returns the Julian centuries elapsed since J2000.0,
// the time argument of every mean-motion polynomial in this package.
func centuriesSinceJ2000(t time.Time) float64 {
	return (JulianDay(t) - j2000) / daysPerJulianCentury
}
