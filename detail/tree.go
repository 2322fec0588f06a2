// Package detail implements the CoT <detail> subtree codec: the
// tree-to-nested-map transform (with CRDT-safe stable keys for
// duplicate sibling tags) and the nested-map-to-flat-r_* transform used
// by the stored document.
package detail

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Map is the nested, associative representation of a detail subtree.
// Values are one of: string (scalar text or attribute value), Map
// (a nested element), or []any (repeated nested elements outside the
// CRDT-scoped direct children of <detail> — see Open Question #2).
type Map map[string]any

// Element is a generic, ordered parse of one XML element: its
// attributes (in source order), text content, and ordered children.
// It carries no schema knowledge — any tag name is representable.
type Element struct {
	Tag       string
	AttrNames []string
	Attrs     map[string]string
	Text      string
	Children  []*Element
}

func newElement(tag string) *Element {
	return &Element{Tag: tag, Attrs: make(map[string]string)}
}

func (e *Element) setAttr(name, value string) {
	if _, exists := e.Attrs[name]; !exists {
		e.AttrNames = append(e.AttrNames, name)
	}
	e.Attrs[name] = value
}

// ParseChildren decodes the children of the element just opened by
// start, returning them as an ordered slice of Element. The caller's
// decoder is expected to already enforce whatever XML security limits
// apply (token length, depth, element count); ParseChildren performs no
// limiting of its own, only structural parsing.
func ParseChildren(dec *xml.Decoder, start xml.StartElement) ([]*Element, error) {
	root := newElement(start.Name.Local)
	if err := parseInto(dec, start, root); err != nil {
		return nil, err
	}
	return root.Children, nil
}

// ParseElement decodes a single element (and its subtree) starting at
// start.
func ParseElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	el := newElement(start.Name.Local)
	if err := parseInto(dec, start, el); err != nil {
		return nil, err
	}
	return el, nil
}

func parseInto(dec *xml.Decoder, start xml.StartElement, el *Element) error {
	for _, a := range start.Attr {
		el.setAttr(a.Name.Local, a.Value)
	}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("detail: parse %q: %w", el.Tag, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := ParseElement(dec, t)
			if err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			el.Text = text.String()
			return nil
		case xml.CharData:
			text.Write(t)
		}
	}
}

// WriteXML serializes el (and its subtree) to enc.
func WriteXML(enc *xml.Encoder, el *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Tag}}
	for _, name := range el.AttrNames {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: el.Attrs[name]})
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("detail: encode start %q: %w", el.Tag, err)
	}
	if len(el.Children) == 0 {
		if el.Text != "" {
			if err := enc.EncodeToken(xml.CharData(el.Text)); err != nil {
				return fmt.Errorf("detail: encode text of %q: %w", el.Tag, err)
			}
		}
	} else {
		for _, child := range el.Children {
			if err := WriteXML(enc, child); err != nil {
				return err
			}
		}
	}
	if err := enc.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return fmt.Errorf("detail: encode end %q: %w", el.Tag, err)
	}
	return nil
}

// elementValue implements spec rule (a): extract an element's value as
// either a scalar string or a Map, without any CRDT/stable-key
// handling (that is scoped to the direct children of <detail> only,
// applied by ToMap).
func elementValue(el *Element) any {
	if len(el.Children) == 0 {
		if len(el.Attrs) == 0 {
			return strings.TrimSpace(el.Text)
		}
		m := Map{}
		for _, name := range el.AttrNames {
			m[name] = el.Attrs[name]
		}
		if txt := strings.TrimSpace(el.Text); txt != "" {
			m["_text"] = txt
		}
		return m
	}

	m := Map{}
	for _, name := range el.AttrNames {
		m[name] = el.Attrs[name]
	}
	for tag, group := range groupByTag(el.Children) {
		if len(group) == 1 {
			m[tag] = elementValue(group[0])
		} else {
			vals := make([]any, len(group))
			for i, c := range group {
				vals[i] = elementValue(c)
			}
			m[tag] = vals
		}
	}
	return m
}

// groupByTag groups children by tag name, preserving source order within
// each group. The returned map has no order across tags; callers needing
// deterministic output sort by tag.
func groupByTag(children []*Element) map[string][]*Element {
	groups := make(map[string][]*Element)
	for _, c := range children {
		groups[c.Tag] = append(groups[c.Tag], c)
	}
	return groups
}

// stableValue wraps v (the result of elementValue for a duplicate
// sibling) so it always carries a _tag metadata entry recording the
// original element name, per spec 4.3(c).
func stableValue(tag string, v any) Map {
	switch vv := v.(type) {
	case Map:
		vv["_tag"] = tag
		return vv
	case string:
		m := Map{"_tag": tag}
		if vv != "" {
			m["_text"] = vv
		}
		return m
	default:
		return Map{"_tag": tag}
	}
}

// ToMap converts the direct children of <detail> into the nested map
// representation. uid is the owning event's uid, used to derive stable
// keys for any tag occurring more than once among children. Singleton
// tags keep their natural tag name.
func ToMap(children []*Element, uid string) Map {
	m := Map{}
	for tag, group := range groupByTag(children) {
		if len(group) == 1 {
			m[tag] = elementValue(group[0])
			continue
		}
		for i, child := range group {
			key := StableKey(uid, tag, i)
			m[key] = stableValue(tag, elementValue(child))
		}
	}
	return m
}

// Diagnostic records a non-fatal anomaly encountered while reconstructing
// a detail tree, such as a stable key whose value is missing its _tag
// metadata.
type Diagnostic struct {
	Key     string
	Message string
}

// FromMap reconstructs the ordered detail child elements from m. Stable
// keys are grouped by their _tag metadata and ordered by their integer
// suffix; a stable key missing _tag is skipped and recorded as a
// Diagnostic rather than failing the whole reconstruction, per spec 4.3(c)/7.
func FromMap(m Map) ([]*Element, []Diagnostic) {
	type stableMember struct {
		index int
		value Map
	}
	natural := make(map[string]any)
	stableGroups := make(map[string][]stableMember)
	var diags []Diagnostic

	for key, v := range m {
		if IsStableKey(key) {
			vm, ok := v.(Map)
			if !ok {
				diags = append(diags, Diagnostic{Key: key, Message: "stable key value is not a map"})
				continue
			}
			tag, ok := vm["_tag"].(string)
			if !ok || tag == "" {
				diags = append(diags, Diagnostic{Key: key, Message: "stable key missing _tag metadata"})
				continue
			}
			stableGroups[tag] = append(stableGroups[tag], stableMember{index: stableKeyIndex(key), value: vm})
			continue
		}
		natural[key] = v
	}

	var tags []string
	for tag := range natural {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var out []*Element
	for _, tag := range tags {
		el, err := valueToElement(tag, natural[tag])
		if err != nil {
			diags = append(diags, Diagnostic{Key: tag, Message: err.Error()})
			continue
		}
		out = append(out, el)
	}

	var groupTags []string
	for tag := range stableGroups {
		groupTags = append(groupTags, tag)
	}
	sort.Strings(groupTags)
	for _, tag := range groupTags {
		members := stableGroups[tag]
		sort.Slice(members, func(i, j int) bool { return members[i].index < members[j].index })
		for _, mem := range members {
			body := Map{}
			for k, v := range mem.value {
				if k == "_tag" {
					continue
				}
				body[k] = v
			}
			el, err := valueToElement(tag, body)
			if err != nil {
				diags = append(diags, Diagnostic{Key: tag, Message: err.Error()})
				continue
			}
			out = append(out, el)
		}
	}

	return out, diags
}

// valueToElement is the reverse-path heuristic from spec 4.3(a): a
// string becomes element text; a map's string entries become
// attributes (except the _text/_tag metadata keys) and its map/slice
// entries become nested child elements.
func valueToElement(tag string, v any) (*Element, error) {
	switch vv := v.(type) {
	case string:
		return &Element{Tag: tag, Text: vv, Attrs: map[string]string{}}, nil
	case Map:
		el := newElement(tag)
		var childTags []string
		for k := range vv {
			if k == "_tag" {
				continue
			}
			if k == "_text" {
				continue
			}
			switch vv[k].(type) {
			case Map, []any:
				childTags = append(childTags, k)
			}
		}
		sort.Strings(childTags)

		var attrNames []string
		for k, val := range vv {
			if k == "_tag" || k == "_text" {
				continue
			}
			if _, ok := val.(string); ok {
				attrNames = append(attrNames, k)
			}
		}
		sort.Strings(attrNames)
		for _, name := range attrNames {
			el.setAttr(name, vv[name].(string))
		}
		if txt, ok := vv["_text"].(string); ok {
			el.Text = txt
		}
		for _, childTag := range childTags {
			switch cv := vv[childTag].(type) {
			case Map:
				child, err := valueToElement(childTag, cv)
				if err != nil {
					return nil, err
				}
				el.Children = append(el.Children, child)
			case []any:
				for _, item := range cv {
					child, err := valueToElement(childTag, item)
					if err != nil {
						return nil, err
					}
					el.Children = append(el.Children, child)
				}
			}
		}
		return el, nil
	case []any:
		return nil, fmt.Errorf("detail: cannot reconstruct %q from a bare list value", tag)
	default:
		return nil, fmt.Errorf("detail: unsupported value type %T for %q", v, tag)
	}
}
