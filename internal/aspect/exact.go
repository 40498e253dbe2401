package aspect

import (
	"fmt"
	"math"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
)

// DefaultScanStep is the sampling interval for transit window scans. Six
// hours keeps even the Moon (~13°/day) from skipping past a tight orb
// between samples.
const DefaultScanStep = 6 * time.Hour

// exactTolerance is the bisection cutoff for the exact-alignment instant.
const exactTolerance = time.Minute

// ScanWindow samples the moving sky across [start, end] against a natal
// position set and reports every exact (zero orb-deviation) alignment, with
// the instant found by bisecting the signed deviation between samples. The
// natal set's frame is used for the moving samples.
func (e *Engine) ScanWindow(p ephemeris.Provider, natal ephemeris.PositionSet, start, end time.Time, step time.Duration) ([]Event, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("aspect: window end %v is not after start %v", end, start)
	}
	if step <= 0 {
		step = DefaultScanStep
	}
	frame := ephemeris.Tropical
	for _, pos := range natal {
		frame = pos.Frame
		break
	}

	natalBodies := sortedBodies(natal)

	prev, err := e.sample(p, start, frame)
	if err != nil {
		return nil, err
	}
	prevAt := start

	var events []Event
	for at := start.Add(step); ; at = at.Add(step) {
		if at.After(end) {
			at = end
		}
		cur, err := e.sample(p, at, frame)
		if err != nil {
			return nil, err
		}

		for _, moving := range sortedBodies(cur) {
			for _, nb := range natalBodies {
				natalLon := natal[nb].Longitude
				for k := Conjunction; k <= Opposition; k++ {
					for _, target := range k.targets() {
						f0 := signedDeviation(prev[moving].Longitude, natalLon, target)
						f1 := signedDeviation(cur[moving].Longitude, natalLon, target)

						// The folded deviation jumps by 360° at the target's
						// antipode; a sign change there is the wrap, not a
						// crossing. No body covers 90° in one step.
						if math.Abs(f0) > 90 || math.Abs(f1) > 90 {
							continue
						}

						var exact time.Time
						var sep float64
						switch {
						case f1 == 0:
							exact, sep = at, Separation(cur[moving].Longitude, natalLon)
						case f0 == 0:
							if !prevAt.Equal(start) {
								continue // reported by the previous interval
							}
							exact, sep = prevAt, Separation(prev[moving].Longitude, natalLon)
						case f0*f1 < 0:
							exact, sep, err = e.bisect(p, moving, natalLon, target, frame, prevAt, at)
							if err != nil {
								return nil, err
							}
						default:
							continue
						}

						events = append(events, Event{
							BodyA:        moving,
							BodyB:        nb,
							Kind:         k,
							Separation:   sep,
							OrbDeviation: 0,
							Orb:          e.pairOrb(k, moving, nb),
							Exact:        &exact,
						})
					}
				}
			}
		}

		prev, prevAt = cur, at
		if at.Equal(end) {
			break
		}
	}
	return events, nil
}

// targets returns the signed offsets from the natal point at which the
// aspect is exact. The symmetric aspects form on both sides of the natal
// point; conjunction and opposition have a single point each, since 0 and
// ±180 coincide under folding.
func (k Kind) targets() []float64 {
	switch k {
	case Conjunction:
		return []float64{0}
	case Opposition:
		return []float64{180}
	default:
		return []float64{k.Angle(), -k.Angle()}
	}
}

// signedDeviation is the directed angle from the natal point offset by
// target to the moving body, folded into (−180, 180]. Unlike the unsigned
// separation it crosses zero at an exact alignment rather than touching it,
// which makes conjunctions and oppositions bracketable.
func signedDeviation(movingLon, natalLon, target float64) float64 {
	d := math.Mod(movingLon-natalLon-target, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// sample fetches the moving position set at an instant. Transit positions
// are geocentric, so the observer coordinate is immaterial.
func (e *Engine) sample(p ephemeris.Provider, at time.Time, frame ephemeris.Frame) (ephemeris.PositionSet, error) {
	in, err := chart.NewInstant(at, 0, 0, "UTC")
	if err != nil {
		return nil, fmt.Errorf("aspect: sample instant: %w", err)
	}
	set, err := p.Positions(in, frame)
	if err != nil {
		return nil, fmt.Errorf("aspect: sample at %v: %w", at, err)
	}
	return set, nil
}

// bisect narrows a bracketed sign change of the signed deviation down to the
// exact instant within exactTolerance. The deviation is continuous inside
// the bracket, so a bracketing sign change always converges.
func (e *Engine) bisect(p ephemeris.Provider, moving ephemeris.Body, natalLon, target float64, frame ephemeris.Frame, lo, hi time.Time) (time.Time, float64, error) {
	devAt := func(at time.Time) (float64, error) {
		set, err := e.sample(p, at, frame)
		if err != nil {
			return 0, err
		}
		return signedDeviation(set[moving].Longitude, natalLon, target), nil
	}

	fLo, err := devAt(lo)
	if err != nil {
		return time.Time{}, 0, err
	}

	for hi.Sub(lo) > exactTolerance {
		mid := lo.Add(hi.Sub(lo) / 2)
		fMid, err := devAt(mid)
		if err != nil {
			return time.Time{}, 0, err
		}
		if (fLo < 0) == (fMid < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}

	exact := lo.Add(hi.Sub(lo) / 2)
	set, err := e.sample(p, exact, frame)
	if err != nil {
		return time.Time{}, 0, err
	}
	return exact, Separation(set[moving].Longitude, natalLon), nil
}
