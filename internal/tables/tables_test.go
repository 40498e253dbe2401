package tables

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadDefaults(t *testing.T) *Tables {
	t.Helper()
	tab, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	return tab
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	tab := loadDefaults(t)

	t.Run("weights sum to one", func(t *testing.T) {
		sum := tab.Weights.Positional + tab.Weights.Directional + tab.Weights.Temporal
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("weights sum = %v, want 1.0", sum)
		}
	})

	t.Run("every aspect covers every class", func(t *testing.T) {
		for _, aspect := range aspectNames {
			for class := range tab.Classes {
				if tab.Orbs[aspect][class] <= 0 {
					t.Errorf("orb[%s][%s] = %v, want > 0", aspect, class, tab.Orbs[aspect][class])
				}
			}
		}
	})

	t.Run("outer orbs wider than inner", func(t *testing.T) {
		for _, aspect := range aspectNames {
			if tab.Orbs[aspect]["outer"] <= tab.Orbs[aspect]["inner"] {
				t.Errorf("aspect %s: outer orb %v not wider than inner %v",
					aspect, tab.Orbs[aspect]["outer"], tab.Orbs[aspect]["inner"])
			}
		}
	})

	t.Run("all twelve bodies have dignities", func(t *testing.T) {
		for _, body := range []string{
			"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter",
			"Saturn", "Uranus", "Neptune", "Pluto", "Rahu", "Ketu",
		} {
			if _, ok := tab.Dignity[body]; !ok {
				t.Errorf("no dignity entry for %s", body)
			}
		}
	})

	t.Run("all four domains present", func(t *testing.T) {
		for _, d := range []string{"career", "relationship", "health", "spiritual"} {
			if len(tab.Domains[d]) == 0 {
				t.Errorf("domain %q empty", d)
			}
		}
	})
}

func TestLoadOverride(t *testing.T) {
	t.Parallel()

	t.Run("override replaces only set keys", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "tables.toml")
		override := "[orbs.conjunction]\nluminary = 10.0\ninner = 6.0\nouter = 9.0\nnode = 5.0\n"
		if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
			t.Fatal(err)
		}

		tab, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if got := tab.Orbs["conjunction"]["luminary"]; got != 10.0 {
			t.Errorf("overridden orb = %v, want 10.0", got)
		}
		if got := tab.Orbs["trine"]["outer"]; got != 7.0 {
			t.Errorf("untouched orb = %v, want default 7.0", got)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		t.Parallel()
		tab, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("Load on absent file: %v", err)
		}
		if tab.Weights.Positional != 0.5 {
			t.Errorf("positional weight = %v, want default 0.5", tab.Weights.Positional)
		}
	})

	t.Run("invalid weights rejected", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "tables.toml")
		bad := "[weights]\npositional = 0.9\ndirectional = 0.3\ntemporal = 0.2\n"
		if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "sum") {
			t.Errorf("Load with bad weights: err = %v, want weight-sum error", err)
		}
	})
}

func TestSignIndex(t *testing.T) {
	t.Parallel()
	if i, ok := SignIndex("Aries"); !ok || i != 0 {
		t.Errorf("SignIndex(Aries) = %d, %v", i, ok)
	}
	if i, ok := SignIndex("Pisces"); !ok || i != 11 {
		t.Errorf("SignIndex(Pisces) = %d, %v", i, ok)
	}
	if _, ok := SignIndex("Ophiuchus"); ok {
		t.Error("SignIndex(Ophiuchus) = ok, want false")
	}
}

func TestClassOfAndOrb(t *testing.T) {
	t.Parallel()
	tab := loadDefaults(t)

	if got := tab.ClassOf("Saturn"); got != "outer" {
		t.Errorf("ClassOf(Saturn) = %q, want %q", got, "outer")
	}
	if got := tab.ClassOf("Vulcan"); got != "" {
		t.Errorf("ClassOf(Vulcan) = %q, want empty", got)
	}
	if got := tab.Orb("trine", "Moon"); got != tab.Orbs["trine"]["luminary"] {
		t.Errorf("Orb(trine, Moon) = %v, want luminary value %v", got, tab.Orbs["trine"]["luminary"])
	}
	// Unclassified bodies get the tightest orb for the aspect.
	want := tab.Orbs["sextile"]["node"]
	if got := tab.Orb("sextile", "Vulcan"); got != want {
		t.Errorf("Orb(sextile, unclassified) = %v, want tightest %v", got, want)
	}
}
