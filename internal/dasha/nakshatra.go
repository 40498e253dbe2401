// Package dasha assembles the Vimshottari hierarchical life-period timeline
// from the Moon's sidereal longitude at birth. Period boundaries are computed
// from cumulative fractions of the parent span, so sibling periods are
// contiguous by construction and rounding can never drift across levels.
package dasha

import (
	"fmt"

	"github.com/papapumpkin/siderea/internal/ephemeris"
)

// NakshatraSpan is the width of each of the 27 lunar mansions: 13°20′.
const NakshatraSpan = 360.0 / 27.0

// lordCycle is the fixed 9-lord Vimshottari sequence. It repeats three times
// across the 27 nakshatras, so a nakshatra's lord is its index mod 9.
var lordCycle = [9]ephemeris.Body{
	ephemeris.Ketu, ephemeris.Venus, ephemeris.Sun,
	ephemeris.Moon, ephemeris.Mars, ephemeris.Rahu,
	ephemeris.Jupiter, ephemeris.Saturn, ephemeris.Mercury,
}

// lordYears are the nominal Mahadasha lengths in years, parallel to
// lordCycle. They sum to TotalYears.
var lordYears = [9]float64{7, 20, 6, 10, 7, 18, 16, 19, 17}

// TotalYears is the full Vimshottari cycle length.
const TotalYears = 120.0

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// Nakshatra locates a sidereal longitude inside one of the 27 mansions.
type Nakshatra struct {
	Index   int            // 0..26
	Name    string
	Lord    ephemeris.Body // owner from the 9-lord cycle
	Elapsed float64        // fraction of the span already transited, [0, 1)
}

// NakshatraAt derives the nakshatra containing a sidereal longitude. The
// longitude must already be in the sidereal frame; it is folded into
// [0, 360) but otherwise must be a finite angle.
func NakshatraAt(siderealLon float64) (Nakshatra, error) {
	if siderealLon != siderealLon { // NaN
		return Nakshatra{}, fmt.Errorf("dasha: sidereal longitude is NaN")
	}
	lon := siderealLon
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}

	idx := int(lon / NakshatraSpan)
	if idx > 26 {
		idx = 26 // guards the lon→359.999… floating edge
	}
	return Nakshatra{
		Index:   idx,
		Name:    nakshatraNames[idx],
		Lord:    lordCycle[idx%9],
		Elapsed: (lon - float64(idx)*NakshatraSpan) / NakshatraSpan,
	}, nil
}

// Years returns the nominal Mahadasha length for a lord, or false if the
// body is not a Vimshottari lord (the outer planets are not).
func Years(lord ephemeris.Body) (float64, bool) {
	for i, l := range lordCycle {
		if l == lord {
			return lordYears[i], true
		}
	}
	return 0, false
}
