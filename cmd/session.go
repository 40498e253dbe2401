package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/config"
	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/tables"
	"github.com/papapumpkin/siderea/internal/telemetry"
)

// session bundles the engines a command needs, wired from config: loaded
// tables, the selected ephemeris provider, and an optional telemetry emitter.
type session struct {
	cfg      config.Config
	tab      *tables.Tables
	provider ephemeris.Provider
	fellBack bool
	emitter  *telemetry.Emitter
}

func openSession() (*session, error) {
	cfg := config.Load()

	tab, err := tables.Load(cfg.TablesPath)
	if err != nil {
		return nil, err
	}

	provider, fellBack, err := ephemeris.Select(cfg.EphemerisDB, cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, tab: tab, provider: provider, fellBack: fellBack}

	if cfg.TelemetryDir != "" {
		if err := os.MkdirAll(cfg.TelemetryDir, 0o755); err != nil {
			_ = provider.Close()
			return nil, fmt.Errorf("telemetry dir: %w", err)
		}
		path := filepath.Join(cfg.TelemetryDir, time.Now().UTC().Format("20060102")+".jsonl")
		em, err := telemetry.NewEmitter(path)
		if err != nil {
			_ = provider.Close()
			return nil, err
		}
		s.emitter = em
	}

	s.emit(telemetry.KindTablesLoaded, "", map[string]any{"override": cfg.TablesPath})
	if fellBack {
		s.emit(telemetry.KindFallbackEngaged, "", map[string]any{"db": cfg.EphemerisDB})
	}
	return s, nil
}

// emit records a telemetry event; a no-op when telemetry is disabled.
func (s *session) emit(kind, chartID string, data any) {
	_ = s.emitter.Emit(telemetry.Event{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		ChartID:   chartID,
		Data:      data,
	})
}

func (s *session) close() {
	_ = s.emitter.Close()
	_ = s.provider.Close()
}

// addChartFlags registers the flags that identify a chart instant.
func addChartFlags(c *cobra.Command) {
	c.Flags().String("time", "", "chart instant, RFC 3339 (required)")
	c.Flags().Float64("lat", 0, "geographic latitude, degrees north")
	c.Flags().Float64("lon", 0, "geographic longitude, degrees east")
	c.Flags().String("zone", "UTC", "IANA time zone of the chart")
	_ = c.MarkFlagRequired("time")
}

func instantFromFlags(c *cobra.Command) (chart.Instant, error) {
	raw, _ := c.Flags().GetString("time")
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return chart.Instant{}, fmt.Errorf("parse --time: %w", err)
	}
	lat, _ := c.Flags().GetFloat64("lat")
	lon, _ := c.Flags().GetFloat64("lon")
	zone, _ := c.Flags().GetString("zone")
	return chart.NewInstant(at, lat, lon, zone)
}

// chartID is the identifier charts carry through telemetry: the UTC instant
// plus the observer coordinate, enough to reproduce the computation.
func chartID(in chart.Instant) string {
	return fmt.Sprintf("%s@%+.2f%+.2f", in.Time.UTC().Format("20060102T150405Z"), in.Latitude, in.Longitude)
}

func parseFrame(name string) (ephemeris.Frame, error) {
	switch name {
	case "tropical":
		return ephemeris.Tropical, nil
	case "sidereal":
		return ephemeris.Sidereal, nil
	}
	return 0, fmt.Errorf("unknown frame %q (want tropical or sidereal)", name)
}

// signOf names the zodiac sign containing an ecliptic longitude.
func signOf(lon float64) string {
	idx := int(lon/30) % 12
	if idx < 0 {
		idx += 12
	}
	return tables.Signs[idx]
}
