package cmd

import (
	"testing"
	"time"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
)

func TestParseFrame(t *testing.T) {
	t.Parallel()

	if f, err := parseFrame("tropical"); err != nil || f != ephemeris.Tropical {
		t.Errorf("parseFrame(tropical) = %v, %v", f, err)
	}
	if f, err := parseFrame("sidereal"); err != nil || f != ephemeris.Sidereal {
		t.Errorf("parseFrame(sidereal) = %v, %v", f, err)
	}
	if _, err := parseFrame("galactic"); err == nil {
		t.Error("parseFrame accepted an unknown frame")
	}
}

func TestSignOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		lon  float64
		want string
	}{
		{0, "Aries"},
		{29.999, "Aries"},
		{30, "Taurus"},
		{185, "Libra"},
		{359.9, "Pisces"},
	}
	for _, tc := range cases {
		if got := signOf(tc.lon); got != tc.want {
			t.Errorf("signOf(%v) = %q, want %q", tc.lon, got, tc.want)
		}
	}
}

func TestChartID(t *testing.T) {
	t.Parallel()

	in, err := chart.NewInstant(time.Date(1990, 3, 14, 5, 30, 0, 0, time.UTC), 28.6139, 77.209, "Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	got := chartID(in)
	want := "19900314T053000Z@+28.61+77.21"
	if got != want {
		t.Errorf("chartID = %q, want %q", got, want)
	}
}
