// Package tables holds the reviewable numeric tables that drive strength
// scoring and aspect classification: component weights, house-angularity
// weights, per-aspect per-body-class orb tolerances, sign dignities, the
// body→domain affinity matrix, and pulse thresholds. The tables ship as an
// embedded TOML document and may be partially overridden by a file on disk,
// so the numbers stay inspectable without recompiling.
package tables

import (
	_ "embed"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Signs lists the twelve zodiac sign names in longitude order, 30° each.
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// SignIndex returns the 0-based index of a sign name, or false if the name
// is not a zodiac sign.
func SignIndex(name string) (int, bool) {
	for i, s := range Signs {
		if s == name {
			return i, true
		}
	}
	return 0, false
}

// Weights are the composite-score component weights. They must sum to 1.0.
type Weights struct {
	Positional  float64 `toml:"positional"`
	Directional float64 `toml:"directional"`
	Temporal    float64 `toml:"temporal"`
}

// Temporal holds the day/night ruler alignment factors and the retrograde
// penalty multiplier.
type Temporal struct {
	DayMatchBonus     float64 `toml:"day_match_bonus"`
	DayMismatch       float64 `toml:"day_mismatch"`
	NeutralBase       float64 `toml:"neutral_base"`
	RetrogradePenalty float64 `toml:"retrograde_penalty"`
}

// Houses holds the angularity-class weights for the directional component.
type Houses struct {
	Angular    float64 `toml:"angular"`
	Succeedent float64 `toml:"succeedent"`
	Cadent     float64 `toml:"cadent"`
}

// Dignity describes one body's sign relationships. Precedence when a sign
// appears in more than one list: exaltation, debilitation, own, friend.
type Dignity struct {
	Exaltation   string   `toml:"exaltation"`
	Debilitation string   `toml:"debilitation"`
	Own          []string `toml:"own"`
	Friends      []string `toml:"friends"`
}

// Pulse holds the threshold rules mapping a net aspect tally to a
// categorical label.
type Pulse struct {
	FlowingMin       float64 `toml:"flowing_min"`
	MagneticMin      float64 `toml:"magnetic_min"`
	FrictionMax      float64 `toml:"friction_max"`
	ElectricActivity float64 `toml:"electric_activity"`
	ConjunctionGain  float64 `toml:"conjunction_gain"`
}

// Tables is the full table set consumed by the strength and aspect engines.
type Tables struct {
	Weights  Weights                       `toml:"weights"`
	Temporal Temporal                      `toml:"temporal"`
	Houses   Houses                        `toml:"houses"`
	Classes  map[string][]string           `toml:"classes"` // class → body names
	Orbs     map[string]map[string]float64 `toml:"orbs"`    // aspect → class → degrees
	Dignity  map[string]Dignity            `toml:"dignity"` // body name → dignity
	Domains  map[string]map[string]float64 `toml:"domains"` // domain → body → affinity
	Pulse    Pulse                         `toml:"pulse"`
}

// aspectNames are the canonical aspect table keys every orb section must cover.
var aspectNames = []string{"conjunction", "sextile", "square", "trine", "opposition"}

// Load returns the embedded default tables, with the file at path (if any)
// unmarshaled on top so overrides replace only the keys they set. An empty
// path or a missing file yields the pristine defaults, mirroring how absent
// catalogs are treated elsewhere in the codebase.
func Load(path string) (*Tables, error) {
	var t Tables
	if err := toml.Unmarshal(defaultsTOML, &t); err != nil {
		return nil, fmt.Errorf("tables: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("tables: reading %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &t); err != nil {
				return nil, fmt.Errorf("tables: parsing %s: %w", path, err)
			}
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks internal consistency: weights sum to 1, every aspect has an
// orb for every declared class, and dignity entries only reference real signs.
func (t *Tables) Validate() error {
	sum := t.Weights.Positional + t.Weights.Directional + t.Weights.Temporal
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("tables: component weights sum to %.4f, want 1.0", sum)
	}

	for _, aspect := range aspectNames {
		classOrbs, ok := t.Orbs[aspect]
		if !ok {
			return fmt.Errorf("tables: missing orb section for aspect %q", aspect)
		}
		for class := range t.Classes {
			if _, ok := classOrbs[class]; !ok {
				return fmt.Errorf("tables: aspect %q has no orb for class %q", aspect, class)
			}
		}
	}

	for body, d := range t.Dignity {
		for _, sign := range append([]string{d.Exaltation, d.Debilitation}, append(d.Own, d.Friends...)...) {
			if _, ok := SignIndex(sign); !ok {
				return fmt.Errorf("tables: dignity for %s references unknown sign %q", body, sign)
			}
		}
	}

	for domain, affinities := range t.Domains {
		for body, a := range affinities {
			if a < 0 {
				return fmt.Errorf("tables: domain %q affinity for %s is negative", domain, body)
			}
		}
	}
	return nil
}

// ClassOf returns the orb class for a body name, or "" if the body is not in
// any class list.
func (t *Tables) ClassOf(body string) string {
	for class, bodies := range t.Classes {
		for _, b := range bodies {
			if b == body {
				return class
			}
		}
	}
	return ""
}

// Orb returns the orb tolerance in degrees for the given aspect and body
// name, falling back to the tightest class when the body is unclassified.
func (t *Tables) Orb(aspect, body string) float64 {
	classOrbs, ok := t.Orbs[aspect]
	if !ok {
		return 0
	}
	if class := t.ClassOf(body); class != "" {
		return classOrbs[class]
	}
	min := 0.0
	first := true
	for _, v := range classOrbs {
		if first || v < min {
			min, first = v, false
		}
	}
	return min
}
