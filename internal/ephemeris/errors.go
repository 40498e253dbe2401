package ephemeris

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange marks instants outside the supported computation era.
	ErrOutOfRange = errors.New("instant outside supported ephemeris era")

	// ErrDataUnavailable marks a precise data source that cannot be opened.
	// Callers recover by selecting the approximate strategy.
	ErrDataUnavailable = errors.New("precise ephemeris data source unavailable")
)

// RangeError reports a request for an instant the ephemeris cannot serve.
// Positions are never silently clamped to the supported era.
type RangeError struct {
	Instant time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("ephemeris: %v is more than %d years from J2000: %v",
		e.Instant.UTC().Format(time.RFC3339), supportedYears, ErrOutOfRange)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// supportedYears bounds the era around J2000 that both strategies serve.
const supportedYears = 6000

// checkEra rejects instants outside the supported era. Both strategies apply
// the identical guard so the fallback path cannot widen the contract.
func checkEra(t time.Time) error {
	jd := JulianDay(t)
	if diff := jd - j2000; diff > supportedYears*daysPerJulianYear || diff < -supportedYears*daysPerJulianYear {
		return &RangeError{Instant: t}
	}
	return nil
}
