package aspect

// Label is the categorical pulse classification of an aspect set.
type Label string

const (
	Flowing  Label = "flowing"  // harmony clearly dominates
	Magnetic Label = "magnetic" // harmony leads without dominating
	Electric Label = "electric" // heavy activity pulling both ways
	Grounded Label = "grounded" // little net pull either way
	Friction Label = "friction" // tension clearly dominates
)

// PulseResult carries the label along with the tallies behind it, so
// consumers can explain the classification.
type PulseResult struct {
	Label    Label
	Net      float64 // amplified harmony − tension tally
	Harmony  float64 // orb-tightness sum over sextiles and trines
	Tension  float64 // orb-tightness sum over squares and oppositions
	Activity float64 // total tightness across all aspects
}

// Pulse condenses an event list into a categorical label. Each aspect
// contributes its orb tightness (1 at exact, 0 at the orb edge); sextiles
// and trines add harmony, squares and oppositions add tension, and
// conjunctions amplify whichever side prevails.
func (e *Engine) Pulse(events []Event) PulseResult {
	var harmony, tension, conj float64
	for _, evt := range events {
		if evt.Orb <= 0 {
			continue
		}
		w := 1 - evt.OrbDeviation/evt.Orb
		if w < 0 {
			w = 0
		}
		switch {
		case evt.Kind.Harmonious():
			harmony += w
		case evt.Kind.Challenging():
			tension += w
		default:
			conj += w
		}
	}

	th := e.tab.Pulse
	net := (harmony - tension) * (1 + th.ConjunctionGain*conj)
	activity := harmony + tension + conj

	res := PulseResult{Net: net, Harmony: harmony, Tension: tension, Activity: activity}
	switch {
	case net >= th.FlowingMin:
		res.Label = Flowing
	case net >= th.MagneticMin:
		res.Label = Magnetic
	case net <= th.FrictionMax:
		res.Label = Friction
	case net > -th.MagneticMin && activity >= th.ElectricActivity:
		res.Label = Electric
	default:
		res.Label = Grounded
	}
	return res
}
