package ephemeris

import (
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
)

// ApproximateProvider computes positions from closed-form mean-motion series:
// a truncated solar longitude series, the dominant terms of the lunar theory,
// the mean lunar node polynomial, and J2000 Keplerian mean elements with
// linear rates for the planets. Accuracy is on the order of arcminutes for
// the Sun and Moon and a fraction of a degree for the planets across the
// supported era, which is sufficient for sign, nakshatra, and aspect work
// when the precise data source is unavailable.
type ApproximateProvider struct{}

// NewApproximate returns the closed-form strategy. It holds no resources.
func NewApproximate() *ApproximateProvider { return &ApproximateProvider{} }

// Accuracy implements Provider.
func (p *ApproximateProvider) Accuracy() Accuracy { return Approximate }

// Close implements Provider; the approximate strategy holds nothing to release.
func (p *ApproximateProvider) Close() error { return nil }

// Positions implements Provider.
func (p *ApproximateProvider) Positions(in chart.Instant, frame Frame) (PositionSet, error) {
	if err := checkEra(in.Time); err != nil {
		return nil, err
	}
	set := approximateTropical(in.Time)
	if frame == Sidereal {
		set = toSidereal(set, in.Time)
	}
	return set, nil
}

// speedStep is the half-window for the symmetric finite-difference speed
// estimate. Half a day keeps the secant well inside one lunar sign.
const speedStep = 12 * time.Hour

// approximateTropical computes the tropical position set, estimating each
// body's angular speed from states half a day either side of the instant.
func approximateTropical(t time.Time) PositionSet {
	cur := tropicalState(t)
	prev := tropicalState(t.Add(-speedStep))
	next := tropicalState(t.Add(speedStep))

	stepDays := 2 * speedStep.Hours() / 24

	set := make(PositionSet, len(Bodies))
	for _, b := range Bodies {
		speed := angularDelta(prev[b].lon, next[b].lon) / stepDays
		set[b] = Position{
			Body:       b,
			Longitude:  normalizeDeg(cur[b].lon),
			Latitude:   cur[b].lat,
			Speed:      speed,
			Retrograde: speed < 0,
			Frame:      Tropical,
			Accuracy:   Approximate,
		}
	}
	return set
}

// eclState is an intermediate (longitude, latitude) pair before speed
// estimation and normalization.
type eclState struct {
	lon float64
	lat float64
}

// tropicalState evaluates every body's raw tropical longitude/latitude.
func tropicalState(t time.Time) map[Body]eclState {
	T := centuriesSinceJ2000(t)

	out := make(map[Body]eclState, len(Bodies))
	out[Sun] = eclState{lon: solarLongitude(T)}
	moonLon, moonLat := lunarPosition(T)
	out[Moon] = eclState{lon: moonLon, lat: moonLat}

	node := meanLunarNode(T)
	out[Rahu] = eclState{lon: node}
	out[Ketu] = eclState{lon: node + 180}

	earth := heliocentricXYZ(earthElements, T)
	for body, el := range planetElements {
		out[body] = geocentricEcliptic(heliocentricXYZ(el, T), earth)
	}
	return out
}

// angularDelta returns the signed shortest angular travel from a to b in
// degrees, in (−180, 180].
func angularDelta(a, b float64) float64 {
	d := normalizeDeg(b) - normalizeDeg(a)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}
