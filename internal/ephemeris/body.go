// Package ephemeris computes ecliptic positions for the twelve bodies used by
// the timeline, strength, and aspect engines. Two interchangeable strategies
// satisfy the same Provider contract: a precise one backed by a SQLite sample
// file and an approximate one built from closed-form mean-motion series. All
// outputs carry an accuracy flag so downstream consumers can disclose reduced
// confidence when the precise data source is unavailable.
package ephemeris

import "fmt"

// Body identifies one of the twelve computed celestial bodies.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Rahu // mean lunar ascending node
	Ketu // descending node, Rahu + 180°
)

// Bodies lists every computed body in canonical order.
var Bodies = [12]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, Rahu, Ketu}

var bodyNames = [12]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter",
	"Saturn", "Uranus", "Neptune", "Pluto", "Rahu", "Ketu",
}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// BodyByName resolves a canonical body name, or false for an unknown name.
func BodyByName(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

// Frame selects the zodiac reference convention.
type Frame int

const (
	Tropical Frame = iota
	Sidereal
)

func (f Frame) String() string {
	if f == Sidereal {
		return "sidereal"
	}
	return "tropical"
}

// Accuracy reports which strategy produced a position.
type Accuracy int

const (
	Approximate Accuracy = iota
	Precise
)

func (a Accuracy) String() string {
	if a == Precise {
		return "precise"
	}
	return "approximate"
}

// Position is one body's ecliptic state at a single instant. Values are
// produced fresh per request and never mutated.
type Position struct {
	Body       Body
	Longitude  float64 // ecliptic degrees in [0, 360)
	Latitude   float64 // ecliptic degrees, north positive
	Speed      float64 // degrees/day along the ecliptic; negative when retrograde
	Retrograde bool
	Frame      Frame
	Accuracy   Accuracy
}

// PositionSet maps every computed body to its position for one instant+frame.
type PositionSet map[Body]Position

// Clone returns an independent copy, so cached sets can be handed out without
// sharing mutable state.
func (s PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(s))
	for b, p := range s {
		out[b] = p
	}
	return out
}

// normalizeDeg folds an angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = mod360(deg)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func mod360(deg float64) float64 {
	n := int64(deg / 360)
	return deg - float64(n)*360
}
