package dasha

import (
	"math"
	"testing"

	"github.com/papapumpkin/siderea/internal/ephemeris"
)

func TestNakshatraAt(t *testing.T) {
	t.Parallel()

	t.Run("zero degrees is Ashwini under Ketu", func(t *testing.T) {
		t.Parallel()
		n, err := NakshatraAt(0)
		if err != nil {
			t.Fatalf("NakshatraAt(0): %v", err)
		}
		if n.Name != "Ashwini" {
			t.Errorf("name = %q, want %q", n.Name, "Ashwini")
		}
		if n.Lord != ephemeris.Ketu {
			t.Errorf("lord = %v, want Ketu", n.Lord)
		}
		if n.Elapsed != 0 {
			t.Errorf("elapsed = %v, want 0", n.Elapsed)
		}
	})

	t.Run("lord cycle repeats three times", func(t *testing.T) {
		t.Parallel()
		// Magha (index 9) and Mula (index 18) restart the cycle at Ketu.
		for _, idx := range []int{9, 18} {
			n, err := NakshatraAt(float64(idx)*NakshatraSpan + 1)
			if err != nil {
				t.Fatal(err)
			}
			if n.Index != idx {
				t.Errorf("index = %d, want %d", n.Index, idx)
			}
			if n.Lord != ephemeris.Ketu {
				t.Errorf("nakshatra %d lord = %v, want Ketu", idx, n.Lord)
			}
		}
	})

	t.Run("elapsed fraction is linear in longitude", func(t *testing.T) {
		t.Parallel()
		n, err := NakshatraAt(NakshatraSpan / 2)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(n.Elapsed-0.5) > 1e-12 {
			t.Errorf("elapsed = %v, want 0.5", n.Elapsed)
		}
	})

	t.Run("revati ends the zodiac", func(t *testing.T) {
		t.Parallel()
		n, err := NakshatraAt(359.999999)
		if err != nil {
			t.Fatal(err)
		}
		if n.Name != "Revati" || n.Index != 26 {
			t.Errorf("got %q (index %d), want Revati (26)", n.Name, n.Index)
		}
	})

	t.Run("negative longitudes fold into range", func(t *testing.T) {
		t.Parallel()
		n, err := NakshatraAt(-350) // ≡ 10°
		if err != nil {
			t.Fatal(err)
		}
		if n.Index != 0 {
			t.Errorf("index = %d, want 0", n.Index)
		}
	})

	t.Run("NaN rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NakshatraAt(math.NaN()); err == nil {
			t.Error("NakshatraAt(NaN) = nil error, want error")
		}
	})
}

func TestYears(t *testing.T) {
	t.Parallel()
	if y, ok := Years(ephemeris.Venus); !ok || y != 20 {
		t.Errorf("Years(Venus) = %v, %v; want 20, true", y, ok)
	}
	if _, ok := Years(ephemeris.Uranus); ok {
		t.Error("Years(Uranus) = ok; outer planets are not Vimshottari lords")
	}

	var sum float64
	for _, y := range lordYears {
		sum += y
	}
	if sum != TotalYears {
		t.Errorf("lord years sum = %v, want %v", sum, TotalYears)
	}
}
