// Package cotbridge implements a bidirectional, deterministic codec
// between Cursor-on-Target (CoT) XML events and a replicated document
// store's flat key-value document model. The engine is stateless: a
// conversion is a pure function of its input and the Policy it is
// given; callers may share a single engine configuration across
// goroutines freely.
//
// Reference:
//   - "Cursor on Target Developer Guide"
//     https://apps.dtic.mil/sti/citations/ADA637348
//   - http://cot.mitre.org
package cotbridge

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/dittocot/cotbridge/cottime"
	"github.com/dittocot/cotbridge/detail"
	"github.com/dittocot/cotbridge/geopoint"
)

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger installs l as the package-level logger. A nil logger
// restores the default no-op logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger { return pkgLogger.Load() }

// Event is the CoT <event> element: header attributes, an optional
// point, and an optional detail subtree. Detail is represented as the
// ordered, generic element tree produced by the detail package rather
// than a fixed set of typed sub-schemas, so that arbitrary detail
// content survives storage and replication untouched.
type Event struct {
	Version string
	Uid     string
	Type    string
	Time    string
	Start   string
	Stale   string
	How     string

	Point *geopoint.Point

	// DetailPresent distinguishes "no <detail> element at all" from
	// "an empty <detail/>" — both produce a nil/empty Detail slice but
	// only the latter should round-trip back to an empty element.
	DetailPresent bool
	Detail        []*detail.Element
}

// Validate checks the required header fields (spec §3): uid, type, and
// time must be non-empty, and time/start/stale must parse as
// ISO-8601 when present.
func (e *Event) Validate() error {
	if e.Uid == "" {
		return fmt.Errorf("missing required attribute: uid")
	}
	if e.Type == "" {
		return fmt.Errorf("missing required attribute: type")
	}
	if e.Time == "" {
		return fmt.Errorf("missing required attribute: time")
	}
	for _, f := range []struct {
		name, value string
	}{{"time", e.Time}, {"start", e.Start}, {"stale", e.Stale}} {
		if f.value == "" {
			continue
		}
		if _, err := cottime.Parse(f.value); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return nil
}

// ParseXML parses raw CoT XML into an Event. Parse and validation
// failures are always fatal (spec §7): no partial Event is produced.
func ParseXML(data []byte) (*Event, error) {
	logger().Debug("parsing CoT event XML", "size", len(data))

	dec, err := newSecureDecoder(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	evt := getEvent()
	found := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			ReleaseEvent(evt)
			return nil, &ParseError{Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "event" {
			ReleaseEvent(evt)
			return nil, &ParseError{Err: fmt.Errorf("unexpected root element %q", start.Name.Local)}
		}
		found = true
		if err := parseEventInto(dec, start, evt); err != nil {
			ReleaseEvent(evt)
			return nil, &ParseError{Err: err}
		}
		break
	}
	if !found {
		ReleaseEvent(evt)
		return nil, &ParseError{Err: fmt.Errorf("no event element found")}
	}

	if err := evt.Validate(); err != nil {
		ReleaseEvent(evt)
		return nil, &ValidationError{Err: err}
	}

	logger().Info("parsed CoT event", "uid", evt.Uid, "type", evt.Type)
	return evt, nil
}

func parseEventInto(dec *xml.Decoder, start xml.StartElement, evt *Event) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "version":
			evt.Version = a.Value
		case "uid":
			evt.Uid = a.Value
		case "type":
			evt.Type = a.Value
		case "time":
			evt.Time = a.Value
		case "start":
			evt.Start = a.Value
		case "stale":
			evt.Stale = a.Value
		case "how":
			evt.How = a.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "point":
				p := geopoint.Point{}
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "lat":
						p.LatStr = a.Value
					case "lon":
						p.LonStr = a.Value
					case "hae":
						p.HaeStr = a.Value
					case "ce":
						p.CeStr = a.Value
					case "le":
						p.LeStr = a.Value
					}
				}
				if err := skipToEnd(dec); err != nil {
					return err
				}
				evt.Point = &p
			case "detail":
				children, err := detail.ParseChildren(dec, t)
				if err != nil {
					return err
				}
				evt.DetailPresent = true
				evt.Detail = children
			default:
				if err := skipToEnd(dec); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// skipToEnd consumes and discards tokens until the matching end element
// for the element just opened is reached.
func skipToEnd(dec *xml.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// ToXML serializes e back to CoT XML. The event is validated first;
// validation failures are returned without producing output.
func (e *Event) ToXML() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	buf := getBuffer()
	defer putBuffer(buf)
	enc := xml.NewEncoder(buf)

	start := xml.StartElement{Name: xml.Name{Local: "event"}}
	start.Attr = append(start.Attr,
		xml.Attr{Name: xml.Name{Local: "version"}, Value: e.Version},
		xml.Attr{Name: xml.Name{Local: "uid"}, Value: e.Uid},
		xml.Attr{Name: xml.Name{Local: "type"}, Value: e.Type},
		xml.Attr{Name: xml.Name{Local: "time"}, Value: e.Time},
		xml.Attr{Name: xml.Name{Local: "start"}, Value: e.Start},
		xml.Attr{Name: xml.Name{Local: "stale"}, Value: e.Stale},
	)
	if e.How != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "how"}, Value: e.How})
	}
	if err := enc.EncodeToken(start); err != nil {
		return nil, err
	}

	if e.Point != nil {
		pstart := xml.StartElement{Name: xml.Name{Local: "point"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "lat"}, Value: e.Point.LatStr},
			{Name: xml.Name{Local: "lon"}, Value: e.Point.LonStr},
			{Name: xml.Name{Local: "hae"}, Value: e.Point.HaeStr},
			{Name: xml.Name{Local: "ce"}, Value: e.Point.CeStr},
			{Name: xml.Name{Local: "le"}, Value: e.Point.LeStr},
		}}
		if err := enc.EncodeToken(pstart); err != nil {
			return nil, err
		}
		if err := enc.EncodeToken(xml.EndElement{Name: pstart.Name}); err != nil {
			return nil, err
		}
	}

	if e.DetailPresent {
		dstart := xml.StartElement{Name: xml.Name{Local: "detail"}}
		if err := enc.EncodeToken(dstart); err != nil {
			return nil, err
		}
		for _, child := range e.Detail {
			if err := detail.WriteXML(enc, child); err != nil {
				return nil, &ReconstructionError{Err: err}
			}
		}
		if err := enc.EncodeToken(xml.EndElement{Name: dstart.Name}); err != nil {
			return nil, err
		}
	}

	if err := enc.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
