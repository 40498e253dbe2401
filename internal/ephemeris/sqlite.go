package ephemeris

import (
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/siderea/internal/chart"
)

// sampleStepDays is the spacing of the rows in the data file. The builder
// writes one sample per body per day; interpolation assumes this grid.
const sampleStepDays = 1.0

// schema contains the DDL for the sample store. Using IF NOT EXISTS makes it
// safe to run when building a data file over an existing one.
const schema = `
CREATE TABLE IF NOT EXISTS samples (
    body  INTEGER NOT NULL,
    jd    REAL    NOT NULL,
    lon   REAL    NOT NULL,
    lat   REAL    NOT NULL,
    speed REAL    NOT NULL,
    PRIMARY KEY (body, jd)
);
`

// SQLiteProvider implements the Precise strategy from a SQLite file of daily
// position samples, interpolated with a centered 4-point Lagrange polynomial.
// Ketu is derived from the Rahu samples rather than stored.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider opens the data file at path. A missing, unreadable, or
// schema-less file yields an error wrapping ErrDataUnavailable so callers can
// fall back to the approximate strategy.
func NewSQLiteProvider(path string) (*SQLiteProvider, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ephemeris: data file %s: %w", path, ErrDataUnavailable)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ephemeris: open data file %s: %w", path, ErrDataUnavailable)
	}

	// One connection only. The provider is read-mostly and SQLite supports a
	// single writer; one pooled connection avoids per-connection PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephemeris: set busy timeout: %w", err)
	}

	// Reject files without the expected table up front rather than on the
	// first position request.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&n); err != nil || n == 0 {
		db.Close()
		return nil, fmt.Errorf("ephemeris: data file %s has no samples: %w", path, ErrDataUnavailable)
	}

	return &SQLiteProvider{db: db}, nil
}

// Accuracy implements Provider.
func (p *SQLiteProvider) Accuracy() Accuracy { return Precise }

// Close releases the underlying database.
func (p *SQLiteProvider) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("ephemeris: close data file: %w", err)
	}
	return nil
}

// Positions implements Provider.
func (p *SQLiteProvider) Positions(in chart.Instant, frame Frame) (PositionSet, error) {
	if err := checkEra(in.Time); err != nil {
		return nil, err
	}

	jd := JulianDay(in.Time)
	set := make(PositionSet, len(Bodies))
	for _, b := range Bodies {
		if b == Ketu {
			continue // derived from Rahu below
		}
		pos, err := p.interpolate(b, jd)
		if err != nil {
			return nil, err
		}
		set[b] = pos
	}

	rahu := set[Rahu]
	set[Ketu] = Position{
		Body:       Ketu,
		Longitude:  normalizeDeg(rahu.Longitude + 180),
		Latitude:   -rahu.Latitude,
		Speed:      rahu.Speed,
		Retrograde: rahu.Retrograde,
		Frame:      Tropical,
		Accuracy:   Precise,
	}

	if frame == Sidereal {
		set = toSidereal(set, in.Time)
	}
	return set, nil
}

// interpolate fetches the four samples bracketing jd for one body and
// evaluates a Lagrange polynomial through them. Longitudes are unwrapped
// before fitting so a 360° crossing inside the window cannot bend the curve.
func (p *SQLiteProvider) interpolate(b Body, jd float64) (Position, error) {
	lo := math.Floor(jd) - sampleStepDays
	hi := math.Floor(jd) + 2*sampleStepDays

	rows, err := p.db.Query(
		"SELECT jd, lon, lat, speed FROM samples WHERE body = ? AND jd BETWEEN ? AND ? ORDER BY jd",
		int(b), lo, hi)
	if err != nil {
		return Position{}, fmt.Errorf("ephemeris: query samples for %s: %w", b, err)
	}
	defer rows.Close()

	var jds, lons, lats, speeds []float64
	for rows.Next() {
		var sjd, lon, lat, speed float64
		if err := rows.Scan(&sjd, &lon, &lat, &speed); err != nil {
			return Position{}, fmt.Errorf("ephemeris: scan sample: %w", err)
		}
		jds = append(jds, sjd)
		lons = append(lons, lon)
		lats = append(lats, lat)
		speeds = append(speeds, speed)
	}
	if err := rows.Err(); err != nil {
		return Position{}, fmt.Errorf("ephemeris: read samples: %w", err)
	}
	if len(jds) < 4 {
		return Position{}, fmt.Errorf("ephemeris: data file does not cover JD %.2f for %s: %w", jd, b, ErrDataUnavailable)
	}

	unwrap(lons)
	lon := lagrange(jds, lons, jd)
	lat := lagrange(jds, lats, jd)
	speed := lagrange(jds, speeds, jd)

	return Position{
		Body:       b,
		Longitude:  normalizeDeg(lon),
		Latitude:   lat,
		Speed:      speed,
		Retrograde: speed < 0,
		Frame:      Tropical,
		Accuracy:   Precise,
	}, nil
}

// unwrap removes 360° discontinuities from a short longitude sequence in
// place, so successive values differ by less than 180°.
func unwrap(lons []float64) {
	for i := 1; i < len(lons); i++ {
		for lons[i]-lons[i-1] > 180 {
			lons[i] -= 360
		}
		for lons[i]-lons[i-1] < -180 {
			lons[i] += 360
		}
	}
}

// lagrange evaluates the interpolating polynomial through (xs, ys) at x.
func lagrange(xs, ys []float64, x float64) float64 {
	var sum float64
	for i := range xs {
		term := ys[i]
		for j := range xs {
			if i == j {
				continue
			}
			term *= (x - xs[j]) / (xs[i] - xs[j])
		}
		sum += term
	}
	return sum
}

// Sample is one row of the precise data file, used by builders and tests.
type Sample struct {
	Body  Body
	JD    float64
	Lon   float64
	Lat   float64
	Speed float64
}

// WriteSamples creates (or extends) a data file at path with the given rows.
// Operators use it to build siderea.eph files from an external high-precision
// source; tests use it to fabricate small fixtures.
func WriteSamples(path string, samples []Sample) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("ephemeris: create data file %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ephemeris: create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("ephemeris: begin sample insert: %w", err)
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO samples (body, jd, lon, lat, speed) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ephemeris: prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(int(s.Body), s.JD, s.Lon, s.Lat, s.Speed); err != nil {
			tx.Rollback()
			return fmt.Errorf("ephemeris: insert sample (%s, %.2f): %w", s.Body, s.JD, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ephemeris: commit samples: %w", err)
	}
	return nil
}
