package aspect

import (
	"math"
	"testing"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
)

func scanProvider() *ephemeris.ApproximateProvider {
	return ephemeris.NewApproximate()
}

func transitInstant(t *testing.T, at time.Time) chart.Instant {
	t.Helper()
	in, err := chart.NewInstant(at, 0, 0, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func TestScanWindow_MoonConjunction(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	p := scanProvider()

	// Anchor the natal longitude on the Moon's actual position mid-window,
	// so the scan must recover that instant as an exact conjunction.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	mid := start.Add(24 * time.Hour)

	midSet, err := p.Positions(transitInstant(t, mid), ephemeris.Tropical)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	natal := ephemeris.PositionSet{
		ephemeris.Sun: {Body: ephemeris.Sun, Longitude: midSet[ephemeris.Moon].Longitude, Frame: ephemeris.Tropical},
	}

	events, err := e.ScanWindow(p, natal, start, end, 0)
	if err != nil {
		t.Fatalf("ScanWindow: %v", err)
	}

	var hit *Event
	for i := range events {
		if events[i].BodyA == ephemeris.Moon && events[i].Kind == Conjunction {
			hit = &events[i]
			break
		}
	}
	if hit == nil {
		t.Fatalf("no Moon conjunction among %d events", len(events))
	}
	if hit.Exact == nil {
		t.Fatal("conjunction event has no exact instant")
	}
	if off := hit.Exact.Sub(mid); off < -5*time.Minute || off > 5*time.Minute {
		t.Errorf("exact instant %v is %v from the expected crossing", hit.Exact, off)
	}
	if hit.OrbDeviation != 0 {
		t.Errorf("orb deviation = %v, want 0", hit.OrbDeviation)
	}
	if math.Abs(hit.Separation) > 0.02 {
		t.Errorf("separation at exact = %v°, want ~0", hit.Separation)
	}
}

func TestScanWindow_MoonOpposition(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	p := scanProvider()

	// Anchor the natal longitude opposite the Moon's mid-window position;
	// the unsigned separation only touches 180 there, so the scan must still
	// bracket and recover the crossing.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	mid := start.Add(24 * time.Hour)

	midSet, err := p.Positions(transitInstant(t, mid), ephemeris.Tropical)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	opposite := math.Mod(midSet[ephemeris.Moon].Longitude+180, 360)
	natal := ephemeris.PositionSet{
		ephemeris.Sun: {Body: ephemeris.Sun, Longitude: opposite, Frame: ephemeris.Tropical},
	}

	events, err := e.ScanWindow(p, natal, start, end, 0)
	if err != nil {
		t.Fatalf("ScanWindow: %v", err)
	}

	var hit *Event
	for i := range events {
		if events[i].BodyA == ephemeris.Moon && events[i].Kind == Opposition {
			hit = &events[i]
			break
		}
	}
	if hit == nil {
		t.Fatalf("no Moon opposition among %d events", len(events))
	}
	if hit.Exact == nil {
		t.Fatal("opposition event has no exact instant")
	}
	if off := hit.Exact.Sub(mid); off < -5*time.Minute || off > 5*time.Minute {
		t.Errorf("exact instant %v is %v from the expected crossing", hit.Exact, off)
	}
	if math.Abs(hit.Separation-180) > 0.02 {
		t.Errorf("separation at exact = %v°, want ~180", hit.Separation)
	}
}

func TestScanWindow_AlignmentOnSampleInstant(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	p := scanProvider()

	// Anchor the natal longitude on the Moon's position at the second sample,
	// so the deviation is exactly zero at a sample boundary rather than
	// changing sign across one.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mark := start.Add(2 * DefaultScanStep)

	markSet, err := p.Positions(transitInstant(t, mark), ephemeris.Tropical)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	natal := ephemeris.PositionSet{
		ephemeris.Sun: {Body: ephemeris.Sun, Longitude: markSet[ephemeris.Moon].Longitude, Frame: ephemeris.Tropical},
	}

	events, err := e.ScanWindow(p, natal, start, start.Add(24*time.Hour), DefaultScanStep)
	if err != nil {
		t.Fatalf("ScanWindow: %v", err)
	}

	var hits []Event
	for _, evt := range events {
		if evt.BodyA == ephemeris.Moon && evt.Kind == Conjunction {
			hits = append(hits, evt)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("Moon conjunctions = %d, want exactly 1", len(hits))
	}
	if !hits[0].Exact.Equal(mark) {
		t.Errorf("exact instant = %v, want the sample instant %v", hits[0].Exact, mark)
	}
}

func TestScanWindow_EventsAreExactWithinWindow(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	p := scanProvider()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * 24 * time.Hour)
	natal := ephemeris.PositionSet{
		ephemeris.Sun:  {Body: ephemeris.Sun, Longitude: 100, Frame: ephemeris.Tropical},
		ephemeris.Mars: {Body: ephemeris.Mars, Longitude: 250, Frame: ephemeris.Tropical},
	}

	events, err := e.ScanWindow(p, natal, start, end, DefaultScanStep)
	if err != nil {
		t.Fatalf("ScanWindow: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("five-day scan against two natal points found no exact alignments")
	}

	for _, evt := range events {
		if evt.Exact == nil {
			t.Fatalf("%v %v–%v: nil exact instant", evt.Kind, evt.BodyA, evt.BodyB)
		}
		if evt.Exact.Before(start) || evt.Exact.After(end) {
			t.Errorf("%v %v–%v: exact %v outside window", evt.Kind, evt.BodyA, evt.BodyB, evt.Exact)
		}

		// Re-sample at the reported instant: the deviation must be inside the
		// bisection tolerance (the Moon covers under 0.01° per minute).
		set, err := p.Positions(transitInstant(t, *evt.Exact), ephemeris.Tropical)
		if err != nil {
			t.Fatalf("Positions: %v", err)
		}
		dev := math.Abs(Separation(set[evt.BodyA].Longitude, natal[evt.BodyB].Longitude) - evt.Kind.Angle())
		if dev > 0.02 {
			t.Errorf("%v %v–%v: deviation %v° at reported exact instant", evt.Kind, evt.BodyA, evt.BodyB, dev)
		}
	}
}

func TestScanWindow_Deterministic(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	p := scanProvider()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(3 * 24 * time.Hour)
	natal := ephemeris.PositionSet{
		ephemeris.Sun: {Body: ephemeris.Sun, Longitude: 100, Frame: ephemeris.Tropical},
	}

	first, err := e.ScanWindow(p, natal, start, end, DefaultScanStep)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ScanWindow(p, natal, start, end, DefaultScanStep)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("event counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Exact.Equal(*second[i].Exact) || first[i].Kind != second[i].Kind {
			t.Errorf("event %d differs across identical scans", i)
		}
	}
}

func TestScanWindow_RejectsEmptyWindow(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	natal := ephemeris.PositionSet{
		ephemeris.Sun: {Body: ephemeris.Sun, Longitude: 100, Frame: ephemeris.Tropical},
	}
	if _, err := e.ScanWindow(scanProvider(), natal, at, at, DefaultScanStep); err == nil {
		t.Error("zero-length window accepted")
	}
	if _, err := e.ScanWindow(scanProvider(), natal, at, at.Add(-time.Hour), DefaultScanStep); err == nil {
		t.Error("inverted window accepted")
	}
}
