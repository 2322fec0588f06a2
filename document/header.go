package document

import (
	"github.com/dittocot/cotbridge"
	"github.com/dittocot/cotbridge/cottime"
	"github.com/dittocot/cotbridge/geopoint"
)

// Header is the common, short-coded document header shared by every
// variant (spec §3). Field names spell out their meaning; the short
// wire codes are applied only at the flat-map boundary in facade.go.
type Header struct {
	ID            string // _id
	Counter       int    // _c
	SchemaVersion int    // _v
	Removed       bool   // _r
	Producer      string // a
	TimeMillis    int64  // b
	UIDDup        string // d
	Callsign      string // e
	Version       string // g
	Ce            float64
	Hae           float64
	Lat           float64
	Le            float64
	Lon           float64
	StartMicros   int64  // n
	StaleMicros   int64  // o
	How           string // p
	Type          string // w

	// HasPoint distinguishes "no <point> element" from "a point with
	// all-zero coordinates"; it is not itself a short-coded field.
	HasPoint bool
}

// buildHeader fills the common header from an Event's attributes,
// point, and a previously-derived callsign. Coordinate conversion
// follows the policy's strict/safe rule; when no point is present the
// numeric fields default to zero and no diagnostic is produced.
func buildHeader(evt *cotbridge.Event, callsign string, policy cotbridge.Policy) (Header, []cotbridge.Diagnostic, error) {
	h := Header{
		ID:            evt.Uid,
		Counter:       1,
		SchemaVersion: 2,
		Removed:       false,
		UIDDup:        evt.Uid,
		Callsign:      callsign,
		Version:       evt.Version,
		How:           evt.How,
		Type:          evt.Type,
	}
	if h.Version == "" {
		h.Version = "2.0"
	}

	if t, err := cottime.Parse(evt.Time); err == nil {
		h.TimeMillis = cottime.ToMillis(t)
	}
	if t, err := cottime.Parse(evt.Start); err == nil {
		h.StartMicros = cottime.ToMicros(t)
	}
	if t, err := cottime.Parse(evt.Stale); err == nil {
		h.StaleMicros = cottime.ToMicros(t)
	}

	var diags []cotbridge.Diagnostic
	if evt.Point != nil && !evt.Point.IsZero() {
		n, adjustments, err := geopoint.ToNumeric(*evt.Point, policy.CoordinatePolicy())
		if err != nil {
			return Header{}, nil, &cotbridge.CoordinateError{Err: err}
		}
		h.Lat, h.Lon, h.Hae, h.Ce, h.Le = n.Lat, n.Lon, n.Hae, n.Ce, n.Le
		h.HasPoint = true
		for _, adj := range adjustments {
			diags = append(diags, cotbridge.Diagnostic{
				Level:   "warn",
				Code:    "coordinate_adjusted",
				Message: "field " + adj.Field + " (" + adj.Original + "): " + adj.Reason,
			})
		}
	}

	return h, diags, nil
}
