package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
)

func utcInstant(t *testing.T, value string) chart.Instant {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	in, err := chart.NewInstant(ts, 0, 0, "UTC")
	if err != nil {
		t.Fatalf("NewInstant: %v", err)
	}
	return in
}

func TestJulianDay(t *testing.T) {
	t.Parallel()
	// J2000.0 epoch.
	got := JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(got-2451545.0) > 1e-9 {
		t.Errorf("JulianDay(J2000) = %.9f, want 2451545.0", got)
	}

	rt := TimeFromJulianDay(2451545.0)
	if want := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC); !rt.Equal(want) {
		t.Errorf("TimeFromJulianDay round trip = %v, want %v", rt, want)
	}
}

func TestSolarLongitude(t *testing.T) {
	t.Parallel()
	// Meeus, Astronomical Algorithms, example 25.a: 1992 October 13.0 TD,
	// true geometric longitude 199.90988°. The ~1 minute TT−UTC offset at
	// that date moves the Sun well under the test tolerance.
	T := centuriesSinceJ2000(time.Date(1992, 10, 13, 0, 0, 0, 0, time.UTC))
	got := normalizeDeg(solarLongitude(T))
	if math.Abs(got-199.90988) > 0.01 {
		t.Errorf("solarLongitude(1992-10-13) = %.5f, want 199.90988 ± 0.01", got)
	}
}

func TestLunarPosition(t *testing.T) {
	t.Parallel()
	// Meeus example 47.a: 1992 April 12.0 TD, λ = 133.162655°,
	// β = −3.229126°. The truncated series is good to a few hundredths
	// of a degree here.
	T := centuriesSinceJ2000(time.Date(1992, 4, 12, 0, 0, 0, 0, time.UTC))
	lon, lat := lunarPosition(T)
	if got := normalizeDeg(lon); math.Abs(got-133.162655) > 0.05 {
		t.Errorf("lunar longitude = %.6f, want 133.162655 ± 0.05", got)
	}
	if math.Abs(lat-(-3.229126)) > 0.05 {
		t.Errorf("lunar latitude = %.6f, want -3.229126 ± 0.05", lat)
	}
}

func TestApproximatePositions(t *testing.T) {
	t.Parallel()
	p := NewApproximate()
	in := utcInstant(t, "1990-03-14T05:30:00Z")

	set, err := p.Positions(in, Tropical)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	t.Run("all twelve bodies present and normalized", func(t *testing.T) {
		if len(set) != 12 {
			t.Fatalf("got %d bodies, want 12", len(set))
		}
		for _, b := range Bodies {
			pos, ok := set[b]
			if !ok {
				t.Fatalf("missing body %s", b)
			}
			if pos.Longitude < 0 || pos.Longitude >= 360 {
				t.Errorf("%s longitude %v outside [0, 360)", b, pos.Longitude)
			}
			if pos.Frame != Tropical {
				t.Errorf("%s frame = %v, want tropical", b, pos.Frame)
			}
			if pos.Accuracy != Approximate {
				t.Errorf("%s accuracy = %v, want approximate", b, pos.Accuracy)
			}
			if pos.Retrograde != (pos.Speed < 0) {
				t.Errorf("%s retrograde flag %v inconsistent with speed %v", b, pos.Retrograde, pos.Speed)
			}
		}
	})

	t.Run("inner planets stay near the Sun", func(t *testing.T) {
		// Geometry bounds Mercury's elongation to ~28° and Venus's to ~48°.
		sun := set[Sun].Longitude
		if d := math.Abs(angularDelta(sun, set[Mercury].Longitude)); d > 29 {
			t.Errorf("Mercury elongation = %.2f°, want ≤ 29", d)
		}
		if d := math.Abs(angularDelta(sun, set[Venus].Longitude)); d > 48.5 {
			t.Errorf("Venus elongation = %.2f°, want ≤ 48.5", d)
		}
	})

	t.Run("node geometry", func(t *testing.T) {
		if !set[Rahu].Retrograde {
			t.Error("Rahu not retrograde; the mean node always regresses")
		}
		want := normalizeDeg(set[Rahu].Longitude + 180)
		if math.Abs(angularDelta(set[Ketu].Longitude, want)) > 1e-9 {
			t.Errorf("Ketu = %.6f, want Rahu+180 = %.6f", set[Ketu].Longitude, want)
		}
	})

	t.Run("moon moves about 13 degrees per day", func(t *testing.T) {
		speed := set[Moon].Speed
		if speed < 11.5 || speed > 15.5 {
			t.Errorf("Moon speed = %.3f°/day, want within [11.5, 15.5]", speed)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := p.Positions(in, Tropical)
		if err != nil {
			t.Fatalf("Positions: %v", err)
		}
		for _, b := range Bodies {
			if again[b] != set[b] {
				t.Errorf("%s differs across identical calls: %+v vs %+v", b, again[b], set[b])
			}
		}
	})
}

func TestEraGuard(t *testing.T) {
	t.Parallel()
	p := NewApproximate()

	far := time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC)
	in, err := chart.NewInstant(far, 0, 0, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Positions(in, Tropical)
	var rerr *RangeError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RangeError", err)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err does not wrap ErrOutOfRange: %v", err)
	}
}

func TestAngularDelta(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b, want float64
	}{
		{10, 20, 10},
		{20, 10, -10},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
	}
	for _, tc := range cases {
		if got := angularDelta(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("angularDelta(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
