// Package geopoint converts the CoT <point> element between its string
// wire representation and numeric form, applying a configurable
// strict/safe range policy to latitude and longitude.
package geopoint

import (
	"fmt"
	"math"
	"strconv"
)

// Policy selects how out-of-range or non-finite coordinates are handled.
type Policy int

const (
	// Strict rejects out-of-range latitude/longitude and non-finite
	// values with an error.
	Strict Policy = iota
	// Safe clamps latitude to [-90, 90] and longitude to [-180, 180],
	// and replaces non-finite values with 0.0, recording that an
	// adjustment occurred rather than raising.
	Safe
)

// Point is the CoT point element, keeping the original wire strings for
// lossless round-trip alongside the numeric values used by the stored
// document header.
type Point struct {
	LatStr string
	LonStr string
	HaeStr string
	CeStr  string
	LeStr  string
}

// Numeric is the decoded, numeric form of a Point.
type Numeric struct {
	Lat, Lon, Hae, Ce, Le float64
}

// Adjustment describes a safe-mode coordinate correction, returned
// alongside a successful safe-mode conversion so callers can surface a
// diagnostic without the codec raising an error.
type Adjustment struct {
	Field    string
	Original string
	Reason   string
}

// Parse wraps the five wire strings into a Point. It performs no range
// checking; range policy is applied by ToNumeric.
func Parse(lat, lon, hae, ce, le string) Point {
	return Point{LatStr: lat, LonStr: lon, HaeStr: hae, CeStr: ce, LeStr: le}
}

// ToNumeric converts p to its numeric form under the given policy.
// In Strict mode it returns an error for out-of-range latitude/longitude
// or non-finite values. In Safe mode it clamps/replaces and returns the
// list of adjustments made instead of an error. In either mode a
// non-empty value that does not parse as a number is an error.
func ToNumeric(p Point, policy Policy) (Numeric, []Adjustment, error) {
	lat, err := parseFloat(p.LatStr)
	if err != nil {
		return Numeric{}, nil, fmt.Errorf("geopoint: parse lat: %w", err)
	}
	lon, err := parseFloat(p.LonStr)
	if err != nil {
		return Numeric{}, nil, fmt.Errorf("geopoint: parse lon: %w", err)
	}
	hae, err := parseFloat(p.HaeStr)
	if err != nil {
		return Numeric{}, nil, fmt.Errorf("geopoint: parse hae: %w", err)
	}
	ce, err := parseFloat(p.CeStr)
	if err != nil {
		return Numeric{}, nil, fmt.Errorf("geopoint: parse ce: %w", err)
	}
	le, err := parseFloat(p.LeStr)
	if err != nil {
		return Numeric{}, nil, fmt.Errorf("geopoint: parse le: %w", err)
	}

	n := Numeric{Lat: lat, Lon: lon, Hae: hae, Ce: ce, Le: le}

	if policy == Strict {
		if !validRange(n.Lat, -90, 90) {
			return Numeric{}, nil, fmt.Errorf("geopoint: latitude %v out of range [-90,90]", n.Lat)
		}
		if !validRange(n.Lon, -180, 180) {
			return Numeric{}, nil, fmt.Errorf("geopoint: longitude %v out of range [-180,180]", n.Lon)
		}
		for _, v := range []struct {
			name string
			val  float64
		}{{"hae", n.Hae}, {"ce", n.Ce}, {"le", n.Le}} {
			if !isFinite(v.val) {
				return Numeric{}, nil, fmt.Errorf("geopoint: %s is not finite: %v", v.name, v.val)
			}
		}
		return n, nil, nil
	}

	var adjustments []Adjustment
	if !isFinite(n.Lat) {
		adjustments = append(adjustments, Adjustment{"lat", p.LatStr, "non-finite, replaced with 0.0"})
		n.Lat = 0.0
	} else if n.Lat < -90 || n.Lat > 90 {
		adjustments = append(adjustments, Adjustment{"lat", p.LatStr, "clamped to valid range"})
		n.Lat = clamp(n.Lat, -90, 90)
	}
	if !isFinite(n.Lon) {
		adjustments = append(adjustments, Adjustment{"lon", p.LonStr, "non-finite, replaced with 0.0"})
		n.Lon = 0.0
	} else if n.Lon < -180 || n.Lon > 180 {
		adjustments = append(adjustments, Adjustment{"lon", p.LonStr, "clamped to valid range"})
		n.Lon = clamp(n.Lon, -180, 180)
	}
	for _, f := range []struct {
		name string
		val  *float64
		raw  string
	}{{"hae", &n.Hae, p.HaeStr}, {"ce", &n.Ce, p.CeStr}, {"le", &n.Le, p.LeStr}} {
		if !isFinite(*f.val) {
			adjustments = append(adjustments, Adjustment{f.name, f.raw, "non-finite, replaced with 0.0"})
			*f.val = 0.0
		}
	}

	return n, adjustments, nil
}

// FromNumeric renders a Numeric back into wire strings.
func FromNumeric(n Numeric) Point {
	return Point{
		LatStr: strconv.FormatFloat(n.Lat, 'f', -1, 64),
		LonStr: strconv.FormatFloat(n.Lon, 'f', -1, 64),
		HaeStr: strconv.FormatFloat(n.Hae, 'f', -1, 64),
		CeStr:  strconv.FormatFloat(n.Ce, 'f', -1, 64),
		LeStr:  strconv.FormatFloat(n.Le, 'f', -1, 64),
	}
}

// IsZero reports whether p carries no wire data at all, the signal used
// by the engine to decide whether a <point> element is present.
func (p Point) IsZero() bool {
	return p.LatStr == "" && p.LonStr == "" && p.HaeStr == "" && p.CeStr == "" && p.LeStr == ""
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func validRange(v, lo, hi float64) bool {
	return isFinite(v) && v >= lo && v <= hi
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
