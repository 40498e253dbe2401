// Package chart defines the immutable input value types shared by every
// computation component: a geolocated UTC instant and the birth context built
// from one. Values are validated at construction and never mutated afterward.
package chart

import (
	"fmt"
	"time"
)

// Instant is a UTC point in time pinned to a geographic coordinate and an
// IANA timezone identifier. It is created once per request and passed by
// value everywhere.
type Instant struct {
	Time      time.Time // always UTC
	Latitude  float64   // degrees, north positive
	Longitude float64   // degrees, east positive
	Zone      string    // IANA identifier, e.g. "Asia/Kolkata"
}

// ValidationError reports a rejected input field. Inputs are never clamped
// into range; the caller must fix the value and retry.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chart: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// NewInstant validates the coordinate and timezone and returns an Instant
// with the time normalized to UTC.
func NewInstant(t time.Time, lat, lon float64, zone string) (Instant, error) {
	if lat < -90 || lat > 90 {
		return Instant{}, &ValidationError{Field: "latitude", Value: lat, Reason: "outside ±90°"}
	}
	if lon < -180 || lon > 180 {
		return Instant{}, &ValidationError{Field: "longitude", Value: lon, Reason: "outside ±180°"}
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return Instant{}, &ValidationError{Field: "zone", Value: zone, Reason: "not an IANA timezone"}
	}
	return Instant{
		Time:      t.UTC(),
		Latitude:  lat,
		Longitude: lon,
		Zone:      zone,
	}, nil
}

// BirthContext is an Instant plus a flag recording whether the clock time is
// actually known. When TimeKnown is false, house-dependent calculations
// (ascendant, directional strength) report themselves unavailable rather than
// guessing a time.
type BirthContext struct {
	Instant
	TimeKnown bool
}

// NewBirthContext builds a validated birth context. When timeKnown is false
// the instant's clock time is still carried (conventionally local noon) so
// that date-level calculations remain well defined.
func NewBirthContext(t time.Time, lat, lon float64, zone string, timeKnown bool) (BirthContext, error) {
	in, err := NewInstant(t, lat, lon, zone)
	if err != nil {
		return BirthContext{}, err
	}
	return BirthContext{Instant: in, TimeKnown: timeKnown}, nil
}
