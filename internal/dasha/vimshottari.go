package dasha

import (
	"fmt"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
)

// YearDuration is the dasha year: exactly 365.25 days, the convention of
// published Vimshottari tables.
const YearDuration = time.Duration(365.25 * 24 * float64(time.Hour))

// MaxLevel bounds the requestable subdivision depth. Level 1 is Mahadasha,
// 2 Antardasha, 3 Pratyantardasha; deeper levels exist but each one
// multiplies the node count by nine.
const MaxLevel = 5

// Period is one node of the timeline tree. The first Mahadasha starts before
// birth by the portion the Moon had already transited, so recorded spans are
// always the full nominal lengths.
type Period struct {
	Lord     ephemeris.Body
	Level    int // 1 = Mahadasha, 2 = Antardasha, 3 = Pratyantardasha, …
	Start    time.Time
	End      time.Time
	Children []Period // all nine sub-periods; populated when this period overlaps the request window
}

// Duration returns the period's span.
func (p Period) Duration() time.Duration { return p.End.Sub(p.Start) }

// Timeline is the assembled, pruned Vimshottari tree for one birth.
type Timeline struct {
	Birth     time.Time
	Until     time.Time
	Nakshatra Nakshatra
	Periods   []Period // level-1 Mahadashas overlapping [Birth, Until]
}

// Assemble builds the timeline tree for a birth instant given the Moon's
// sidereal longitude at that instant. The timeline keeps the Mahadashas
// overlapping [birth, until], and any period overlapping that window carries
// all nine children down to maxLevel, so sibling sets are complete wherever
// they exist. Periods outside the window stay leaves. Recorded boundaries
// are never clamped to the window, and identical inputs yield bit-identical
// boundaries.
func Assemble(birth time.Time, moonSiderealLon float64, until time.Time, maxLevel int) (*Timeline, error) {
	if maxLevel < 1 || maxLevel > MaxLevel {
		return nil, fmt.Errorf("dasha: maxLevel %d outside [1, %d]", maxLevel, MaxLevel)
	}
	if !until.After(birth) {
		return nil, fmt.Errorf("dasha: until %v is not after birth %v", until, birth)
	}

	nak, err := NakshatraAt(moonSiderealLon)
	if err != nil {
		return nil, err
	}

	hostIdx := nak.Index % 9
	// The Moon's progress through the nakshatra maps linearly onto the
	// starting lord's Mahadasha: shifting the cycle start back by the
	// consumed portion leaves exactly lordYears × (1 − elapsed) after birth.
	consumed := time.Duration(nak.Elapsed * lordYears[hostIdx] * float64(YearDuration))
	birthUTC, untilUTC := birth.UTC(), until.UTC()
	cycleStart := birthUTC.Add(-consumed)

	all := subdivide(cycleStart, time.Duration(TotalYears*float64(YearDuration)), hostIdx, 1, maxLevel, birthUTC, untilUTC)
	periods := make([]Period, 0, len(all))
	for _, p := range all {
		if p.End.After(birthUTC) && p.Start.Before(untilUTC) {
			periods = append(periods, p)
		}
	}

	return &Timeline{
		Birth:     birthUTC,
		Until:     untilUTC,
		Nakshatra: nak,
		Periods:   periods,
	}, nil
}

// FromProvider computes the Moon's sidereal longitude at birth via the given
// ephemeris provider and assembles the timeline from it.
func FromProvider(p ephemeris.Provider, birth chart.Instant, until time.Time, maxLevel int) (*Timeline, error) {
	set, err := p.Positions(birth, ephemeris.Sidereal)
	if err != nil {
		return nil, fmt.Errorf("dasha: moon position: %w", err)
	}
	return Assemble(birth.Time, set[ephemeris.Moon].Longitude, until, maxLevel)
}

// subdivide generates the nine sub-periods of a span owned by the lord at
// hostIdx. Each boundary is start + span × (cumulative years / 120),
// computed once and shared between the period it ends and the one it
// begins; the ninth boundary is the parent end itself. All nine siblings are
// always generated, so they sum exactly to the parent; only those
// overlapping the window recurse further.
func subdivide(start time.Time, span time.Duration, hostIdx, level, maxLevel int, winStart, winEnd time.Time) []Period {
	if level > maxLevel {
		return nil
	}

	periods := make([]Period, 0, 9)
	cumYears := 0.0
	prevEnd := start
	for i := 0; i < 9; i++ {
		idx := (hostIdx + i) % 9
		cumYears += lordYears[idx]

		var end time.Time
		if i == 8 {
			end = start.Add(span)
		} else {
			end = start.Add(time.Duration(float64(span) * cumYears / TotalYears))
		}

		p := Period{Lord: lordCycle[idx], Level: level, Start: prevEnd, End: end}
		prevEnd = end

		if p.End.After(winStart) && p.Start.Before(winEnd) {
			p.Children = subdivide(p.Start, p.End.Sub(p.Start), idx, level+1, maxLevel, winStart, winEnd)
		}
		periods = append(periods, p)
	}
	return periods
}

// AtLevel flattens the tree into the ordered list of materialized periods at
// one level.
func (tl *Timeline) AtLevel(level int) []Period {
	var out []Period
	var walk func(ps []Period)
	walk = func(ps []Period) {
		for _, p := range ps {
			if p.Level == level {
				out = append(out, p)
				continue
			}
			walk(p.Children)
		}
	}
	walk(tl.Periods)
	return out
}

// Active returns the innermost materialized period containing the instant,
// or false when the instant falls outside every materialized node.
func (tl *Timeline) Active(at time.Time) (Period, bool) {
	ps := tl.Periods
	var found Period
	ok := false
	for len(ps) > 0 {
		matched := false
		for _, p := range ps {
			if !at.Before(p.Start) && at.Before(p.End) {
				found, ok, matched = p, true, true
				ps = p.Children
				break
			}
		}
		if !matched {
			break
		}
	}
	return found, ok
}
