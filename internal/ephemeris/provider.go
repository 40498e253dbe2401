package ephemeris

import (
	"errors"

	"github.com/papapumpkin/siderea/internal/chart"
)

// Provider computes the full position set for an instant in a given frame.
// Implementations are safe for concurrent use; the position set returned is
// owned by the caller.
type Provider interface {
	Positions(in chart.Instant, frame Frame) (PositionSet, error)

	// Accuracy reports which strategy this provider implements. Every
	// Position it returns carries the same flag.
	Accuracy() Accuracy

	// Close releases the underlying data source, if any.
	Close() error
}

// Select returns the best available provider wrapped in a bounded LRU cache:
// the precise SQLite strategy when the data file at dbPath opens, otherwise
// the approximate strategy. The returned bool reports whether the fallback
// engaged, so callers can disclose it. Selecting the fallback is a recovered
// condition, not an error; only unexpected open failures surface.
func Select(dbPath string, cacheSize int) (Provider, bool, error) {
	if dbPath != "" {
		p, err := NewSQLiteProvider(dbPath)
		switch {
		case err == nil:
			return Cached(p, cacheSize), false, nil
		case !errors.Is(err, ErrDataUnavailable):
			return nil, false, err
		}
	}
	return Cached(NewApproximate(), cacheSize), true, nil
}
