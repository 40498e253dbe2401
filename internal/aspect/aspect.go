// Package aspect classifies angular relationships between two position sets
// (natal vs. transiting, or two natal charts for synastry) against the five
// canonical angles, finds exact-alignment instants over a transit window by
// bisection, and condenses an event list into a categorical pulse label.
// Orb tolerances and pulse thresholds come from the tables package.
package aspect

import (
	"math"
	"sort"
	"time"

	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/tables"
)

// Kind is one of the five canonical aspects.
type Kind int

const (
	Conjunction Kind = iota
	Sextile
	Square
	Trine
	Opposition
)

var kindAngles = [5]float64{0, 60, 90, 120, 180}
var kindNames = [5]string{"conjunction", "sextile", "square", "trine", "opposition"}

// Angle returns the canonical angle in degrees.
func (k Kind) Angle() float64 { return kindAngles[k] }

func (k Kind) String() string { return kindNames[k] }

// Harmonious reports whether the aspect counts toward the pulse harmony
// tally. Conjunctions are neither harmonious nor challenging; they amplify.
func (k Kind) Harmonious() bool { return k == Sextile || k == Trine }

// Challenging reports whether the aspect counts toward the pulse tension tally.
func (k Kind) Challenging() bool { return k == Square || k == Opposition }

// Event is one classified angular relationship. Exact is set only by window
// scans, marking the instant of zero orb deviation.
type Event struct {
	BodyA        ephemeris.Body // from the first (moving, in transit mode) set
	BodyB        ephemeris.Body // from the second (natal) set
	Kind         Kind
	Separation   float64 // minimal angular separation, degrees [0, 180]
	OrbDeviation float64 // |separation − canonical angle|
	Orb          float64 // allowed tolerance for this pair and aspect
	Exact        *time.Time
}

// Engine classifies aspects against one table set. It is stateless beyond
// the tables and safe for concurrent use.
type Engine struct {
	tab *tables.Tables
}

// New returns an Engine over the given tables.
func New(tab *tables.Tables) *Engine {
	return &Engine{tab: tab}
}

// Find classifies every directed pair (bodyA ∈ setA, bodyB ∈ setB). A pair
// yields at most one event: the nearest canonical angle, and only when the
// separation falls within the pair's orb. Events come back ordered by body
// pair, so identical inputs produce identical output.
func (e *Engine) Find(setA, setB ephemeris.PositionSet) []Event {
	var events []Event
	for _, a := range sortedBodies(setA) {
		for _, b := range sortedBodies(setB) {
			if evt, ok := e.classify(a, setA[a].Longitude, b, setB[b].Longitude); ok {
				events = append(events, evt)
			}
		}
	}
	return events
}

// classify matches one pair's separation against the canonical angles,
// breaking ties by the smallest orb deviation.
func (e *Engine) classify(bodyA ephemeris.Body, lonA float64, bodyB ephemeris.Body, lonB float64) (Event, bool) {
	sep := Separation(lonA, lonB)

	best := Event{OrbDeviation: math.Inf(1)}
	found := false
	for k := Conjunction; k <= Opposition; k++ {
		dev := math.Abs(sep - k.Angle())
		orb := e.pairOrb(k, bodyA, bodyB)
		if dev > orb || dev >= best.OrbDeviation {
			continue
		}
		best = Event{
			BodyA:        bodyA,
			BodyB:        bodyB,
			Kind:         k,
			Separation:   sep,
			OrbDeviation: dev,
			Orb:          orb,
		}
		found = true
	}
	return best, found
}

// pairOrb is the mean of the two bodies' class orbs for the aspect, so a
// slow–fast pair lands between the class tolerances.
func (e *Engine) pairOrb(k Kind, a, b ephemeris.Body) float64 {
	return (e.tab.Orb(k.String(), a.String()) + e.tab.Orb(k.String(), b.String())) / 2
}

// Separation returns the minimal angular separation of two longitudes, in
// degrees [0, 180].
func Separation(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func sortedBodies(set ephemeris.PositionSet) []ephemeris.Body {
	bodies := make([]ephemeris.Body, 0, len(set))
	for b := range set {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })
	return bodies
}
