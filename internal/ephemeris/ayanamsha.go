package ephemeris

import "time"

// Lahiri-style precession model. The ayanamsha is the accumulated offset
// between the tropical and sidereal zodiacs, anchored at J2000 and increasing
// monotonically at roughly 50.3 arcseconds per year.
const (
	ayanamshaJ2000    = 23.85236           // degrees at J2000.0
	ayanamshaRate     = 50.2719 / 3600.0   // degrees per Julian year
	ayanamshaQuadTerm = 0.000222           // degrees per Julian century squared
)

// Ayanamsha returns the precession offset in degrees at the given instant.
// Sidereal longitude = tropical longitude − Ayanamsha(t), mod 360.
func Ayanamsha(t time.Time) float64 {
	T := centuriesSinceJ2000(t)
	return ayanamshaJ2000 + ayanamshaRate*T*100 + ayanamshaQuadTerm*T*T
}

// toSidereal converts a tropical position set in place-of-copy fashion:
// every longitude is shifted by the instant's ayanamsha and the frame flag
// updated. Latitudes and speeds are frame-independent.
func toSidereal(set PositionSet, t time.Time) PositionSet {
	ayan := Ayanamsha(t)
	out := make(PositionSet, len(set))
	for b, p := range set {
		p.Longitude = normalizeDeg(p.Longitude - ayan)
		p.Frame = Sidereal
		out[b] = p
	}
	return out
}
