package strength

import (
	"fmt"
	"math"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/tables"
)

// Dignity class values for the positional component. The classes themselves
// (which sign is exaltation, own, friend) come from the tables file; these
// interpolation anchors are fixed.
const (
	dignityExalted = 1.0
	dignityOwn     = 0.8
	dignityFriend  = 0.6
	dignityNeutral = 0.4
	dignityDebil   = 0.0
)

// Score is one body's composite strength. Directional is nil when the birth
// time is unknown, since houses cannot be erected without it.
type Score struct {
	Body        ephemeris.Body
	Positional  float64  // 0..1
	Directional *float64 // 0..1, nil when unavailable
	Temporal    float64  // 0..1
	Composite   float64  // 0..100
	// DomainImpact is this body's affinity-weighted contribution per domain,
	// on the composite's 0..100 scale.
	DomainImpact map[string]float64
}

// Result is a full scoring pass: per-body scores plus the aggregated
// per-domain impacts across every body relevant to each domain.
type Result struct {
	Scores  map[ephemeris.Body]Score
	Domains map[string]float64 // 0..100
}

// Scorer evaluates strength scores against one table set. It is stateless
// beyond the tables and safe for concurrent use.
type Scorer struct {
	tab *tables.Tables
}

// New returns a Scorer over the given tables.
func New(tab *tables.Tables) *Scorer {
	return &Scorer{tab: tab}
}

// diurnal and nocturnal rulers for the temporal component. Mercury serves
// both camps; the nodes and outer planets take the neutral base.
var (
	diurnalRulers   = map[ephemeris.Body]bool{ephemeris.Sun: true, ephemeris.Jupiter: true, ephemeris.Saturn: true}
	nocturnalRulers = map[ephemeris.Body]bool{ephemeris.Moon: true, ephemeris.Venus: true, ephemeris.Mars: true}
)

// Score computes the composite strength of every body in the position set.
// Positions are expected in the sidereal frame (the dignity table is
// sidereal); the set must be frame-consistent. When the birth time is
// unknown the directional component is reported as unavailable and the
// remaining component weights renormalize.
func (s *Scorer) Score(positions ephemeris.PositionSet, birth chart.BirthContext) (*Result, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("strength: empty position set")
	}
	frame, err := commonFrame(positions)
	if err != nil {
		return nil, err
	}

	// Erect houses once when the time is known.
	var ascLon float64
	var sunHouse int
	if birth.TimeKnown {
		ascLon = Ascendant(birth.Instant)
		if frame == ephemeris.Sidereal {
			ascLon = ascLon - ephemeris.Ayanamsha(birth.Time)
			ascLon = math.Mod(ascLon, 360)
			if ascLon < 0 {
				ascLon += 360
			}
		}
		if sun, ok := positions[ephemeris.Sun]; ok {
			sunHouse = HouseOf(sun.Longitude, ascLon)
		}
	}

	result := &Result{
		Scores:  make(map[ephemeris.Body]Score, len(positions)),
		Domains: make(map[string]float64, len(s.tab.Domains)),
	}

	for body, pos := range positions {
		sc := Score{Body: body, DomainImpact: make(map[string]float64)}

		sc.Positional = s.positional(body, pos.Longitude)

		if birth.TimeKnown {
			d := s.directional(pos.Longitude, ascLon)
			sc.Directional = &d
		}

		sc.Temporal = s.temporal(body, pos, birth.TimeKnown, sunHouse)
		sc.Composite = s.composite(sc)
		result.Scores[body] = sc
	}

	// Aggregate domain impacts, then record each body's contribution.
	for domain, affinities := range s.tab.Domains {
		var weighted, total float64
		for bodyName, affinity := range affinities {
			body, ok := ephemeris.BodyByName(bodyName)
			if !ok {
				continue
			}
			sc, ok := result.Scores[body]
			if !ok {
				continue
			}
			weighted += affinity * sc.Composite
			total += affinity
			sc.DomainImpact[domain] = affinity * sc.Composite
			result.Scores[body] = sc
		}
		if total > 0 {
			result.Domains[domain] = weighted / total
		}
	}

	return result, nil
}

// positional scores sign dignity: exaltation, debilitation, own, friend, or
// neutral, in that precedence.
func (s *Scorer) positional(body ephemeris.Body, lon float64) float64 {
	sign := tables.Signs[int(math.Mod(lon, 360)/30)%12]
	d, ok := s.tab.Dignity[body.String()]
	if !ok {
		return dignityNeutral
	}
	switch {
	case sign == d.Exaltation:
		return dignityExalted
	case sign == d.Debilitation:
		return dignityDebil
	case contains(d.Own, sign):
		return dignityOwn
	case contains(d.Friends, sign):
		return dignityFriend
	default:
		return dignityNeutral
	}
}

// directional scores house angularity from the tables.
func (s *Scorer) directional(bodyLon, ascLon float64) float64 {
	switch houseClass(HouseOf(bodyLon, ascLon)) {
	case "angular":
		return s.tab.Houses.Angular
	case "succeedent":
		return s.tab.Houses.Succeedent
	default:
		return s.tab.Houses.Cadent
	}
}

// temporal scores day/night ruler alignment and applies the retrograde
// penalty. Without a birth time the day/night call cannot be made and the
// neutral base applies. The nodes are exempt from the retrograde penalty;
// their motion is always retrograde and carries no affliction.
func (s *Scorer) temporal(body ephemeris.Body, pos ephemeris.Position, timeKnown bool, sunHouse int) float64 {
	t := s.tab.Temporal

	var base float64
	switch {
	case !timeKnown, sunHouse == 0:
		base = t.NeutralBase
	case body == ephemeris.Mercury:
		base = t.DayMatchBonus // serves both camps
	case !diurnalRulers[body] && !nocturnalRulers[body]:
		base = t.NeutralBase
	case aboveHorizon(sunHouse) == diurnalRulers[body]:
		base = t.DayMatchBonus
	default:
		base = t.DayMismatch
	}

	if pos.Retrograde && body != ephemeris.Rahu && body != ephemeris.Ketu {
		base *= t.RetrogradePenalty
	}
	return base
}

// composite combines the available components by the table weights,
// renormalizing when the directional component is unavailable, and scales
// to 0..100.
func (s *Scorer) composite(sc Score) float64 {
	w := s.tab.Weights
	if sc.Directional == nil {
		total := w.Positional + w.Temporal
		return 100 * (w.Positional*sc.Positional + w.Temporal*sc.Temporal) / total
	}
	return 100 * (w.Positional*sc.Positional + w.Directional**sc.Directional + w.Temporal*sc.Temporal)
}

func commonFrame(positions ephemeris.PositionSet) (ephemeris.Frame, error) {
	var frame ephemeris.Frame
	first := true
	for _, p := range positions {
		if first {
			frame, first = p.Frame, false
			continue
		}
		if p.Frame != frame {
			return 0, fmt.Errorf("strength: mixed frames in position set")
		}
	}
	return frame, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
