package cotbridge

import "github.com/dittocot/cotbridge/geopoint"

// Policy is the construction-time configuration threaded through a
// conversion: whether out-of-range coordinates are rejected or clamped.
// This replaces the teacher's "global mutable safe/strict toggle"
// pattern with a small value object passed explicitly to each
// conversion, per spec §9's redesign flag — the engine itself remains
// side-effect-free and reentrant.
type Policy struct {
	coordinates geopoint.Policy
}

// StrictPolicy rejects out-of-range latitude/longitude and non-finite
// point values with a CoordinateError.
func StrictPolicy() Policy { return Policy{coordinates: geopoint.Strict} }

// SafePolicy clamps out-of-range latitude/longitude to the nearest
// valid value and replaces non-finite values with 0.0, recording the
// adjustment as a Diagnostic instead of raising.
func SafePolicy() Policy { return Policy{coordinates: geopoint.Safe} }

func (p Policy) coordinatePolicy() geopoint.Policy { return p.coordinates }

// CoordinatePolicy exposes the underlying geopoint policy for packages
// outside cotbridge (such as document) that need to convert Point
// values using the same strict/safe rule.
func (p Policy) CoordinatePolicy() geopoint.Policy { return p.coordinates }

// Diagnostic is a non-fatal observation surfaced alongside a successful
// conversion result: a coordinate clamp, a skipped malformed detail key,
// a detail subtree that could not be rebuilt. It replaces the "exceptions
// as control flow" pattern the teacher's observer paths would otherwise
// need, per spec §9.
type Diagnostic struct {
	Level   string // "warn" or "info"
	Code    string
	Message string
}
