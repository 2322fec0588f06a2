// Package xmlcompare implements the semantic equivalence check used to
// verify round-trip fidelity between an original CoT XML document and
// one reconstructed from a stored document (spec §4.7). Equivalence
// ignores whitespace, attribute order, and the order of sibling groups
// sharing a tag name, but enforces multiplicity, attribute values, and
// text content.
package xmlcompare

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dittocot/cotbridge/detail"
)

const numericTolerance = 1e-6

type parsedEvent struct {
	root     string
	attrs    map[string]string
	hasPoint bool
	point    map[string]string
	detail   []*detail.Element
}

// Equal reports whether a and b are semantically equivalent CoT XML
// documents. When they are not, it also returns a short, structured
// reason naming the phase and path at which the comparison failed.
func Equal(a, b []byte) (bool, string, error) {
	pa, err := parse(a)
	if err != nil {
		return false, "", fmt.Errorf("xmlcompare: parse a: %w", err)
	}
	pb, err := parse(b)
	if err != nil {
		return false, "", fmt.Errorf("xmlcompare: parse b: %w", err)
	}

	if pa.root != "event" || pb.root != "event" {
		return false, fmt.Sprintf("root: expected \"event\", got %q and %q", pa.root, pb.root), nil
	}

	if ok, reason := attrsEqual("event", pa.attrs, pb.attrs); !ok {
		return false, reason, nil
	}

	if pa.hasPoint != pb.hasPoint {
		return false, "point: present in one document but not the other", nil
	}
	if pa.hasPoint {
		if ok, reason := pointAttrsEqual(pa.point, pb.point); !ok {
			return false, reason, nil
		}
	}

	if ok, reason := detailGroupsEqual("detail", pa.detail, pb.detail); !ok {
		return false, reason, nil
	}

	return true, "", nil
}

func parse(data []byte) (parsedEvent, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = nil
	dec.Strict = true

	for {
		tok, err := dec.Token()
		if err != nil {
			return parsedEvent{}, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		pe := parsedEvent{root: start.Name.Local, attrs: attrMap(start.Attr)}
		if err := parseEventBody(dec, &pe); err != nil {
			return parsedEvent{}, err
		}
		return pe, nil
	}
}

func parseEventBody(dec *xml.Decoder, pe *parsedEvent) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "point":
				pe.hasPoint = true
				pe.point = attrMap(t.Attr)
				if err := skipToEnd(dec); err != nil {
					return err
				}
			case "detail":
				children, err := detail.ParseChildren(dec, t)
				if err != nil {
					return err
				}
				pe.detail = children
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

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func attrsEqual(path string, a, b map[string]string) (bool, string) {
	for k, v := range a {
		bv, ok := b[k]
		if !ok {
			return false, fmt.Sprintf("%s: attribute %q present in a, missing in b", path, k)
		}
		if v != bv {
			return false, fmt.Sprintf("%s: attribute %q differs: %q vs %q", path, k, v, bv)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return false, fmt.Sprintf("%s: attribute %q present in b, missing in a", path, k)
		}
	}
	return true, ""
}

func pointAttrsEqual(a, b map[string]string) (bool, string) {
	for k, v := range a {
		bv, ok := b[k]
		if !ok {
			return false, fmt.Sprintf("point: attribute %q present in a, missing in b", k)
		}
		if !valuesEqual(v, bv) {
			return false, fmt.Sprintf("point: attribute %q differs: %q vs %q", k, v, bv)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return false, fmt.Sprintf("point: attribute %q present in b, missing in a", k)
		}
	}
	return true, ""
}

// valuesEqual compares two point attribute values: numerically, within
// tolerance, when both parse as numbers; otherwise by strict string
// equality, per spec.
func valuesEqual(a, b string) bool {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return math.Abs(af-bf) <= numericTolerance
	}
	return a == b
}

func detailGroupsEqual(path string, a, b []*detail.Element) (bool, string) {
	ga := groupByTag(a)
	gb := groupByTag(b)

	for tag, as := range ga {
		bs, ok := gb[tag]
		if !ok {
			return false, fmt.Sprintf("%s: tag %q present in a, missing in b", path, tag)
		}
		if len(as) != len(bs) {
			return false, fmt.Sprintf("%s.%s: group size differs: %d vs %d", path, tag, len(as), len(bs))
		}
		for i := range as {
			if ok, reason := elementEqual(fmt.Sprintf("%s.%s[%d]", path, tag, i), as[i], bs[i]); !ok {
				return false, reason
			}
		}
	}
	for tag := range gb {
		if _, ok := ga[tag]; !ok {
			return false, fmt.Sprintf("%s: tag %q present in b, missing in a", path, tag)
		}
	}
	return true, ""
}

func elementEqual(path string, a, b *detail.Element) (bool, string) {
	if ok, reason := attrsEqual(path, a.Attrs, b.Attrs); !ok {
		return false, reason
	}
	at, bt := strings.TrimSpace(a.Text), strings.TrimSpace(b.Text)
	if at != bt {
		return false, fmt.Sprintf("%s: text differs: %q vs %q", path, at, bt)
	}
	return detailGroupsEqual(path, a.Children, b.Children)
}

func groupByTag(children []*detail.Element) map[string][]*detail.Element {
	m := make(map[string][]*detail.Element)
	for _, c := range children {
		m[c.Tag] = append(m[c.Tag], c)
	}
	return m
}
