// Package typeinfo decomposes a CoT type string into human-readable
// descriptions of its atom, affiliation, and battle-dimension
// segments. It is ambient enrichment only: its output never feeds the
// document classifier and is never required for round-trip fidelity.
package typeinfo

import (
	"fmt"
	"strings"
)

var atomMap = map[string]string{
	"a": "Atom",
	"b": "Bits",
	"c": "Capability",
	"t": "Tasking",
	"y": "Reply",
}

var affiliationMap = map[string]string{
	"f": "Friendly",
	"h": "Hostile",
	"n": "Neutral",
	"u": "Unknown",
	"p": "Pending",
	"a": "Assumed Friend",
	"s": "Suspect",
}

var battleDimensionMap = map[string]string{
	"A": "Air",
	"G": "Ground",
	"S": "Surface",
	"U": "Subsurface",
	"X": "Other",
	"P": "Space",
}

// Explain resolves a CoT type code into its component meanings: atom,
// affiliation, and battle dimension. Any segments beyond the first
// three are returned verbatim, since their meaning depends on a type
// catalog this package does not carry.
func Explain(code string) ([]string, error) {
	if code == "" {
		return nil, fmt.Errorf("typeinfo: empty type")
	}

	parts := strings.Split(code, "-")
	if len(parts) < 3 {
		return nil, fmt.Errorf("typeinfo: invalid type format %q", code)
	}

	res := make([]string, 0, len(parts))

	atom, ok := atomMap[parts[0]]
	if !ok {
		return nil, fmt.Errorf("typeinfo: unknown atom prefix: %s", parts[0])
	}
	res = append(res, atom)

	aff, ok := affiliationMap[parts[1]]
	if !ok {
		return nil, fmt.Errorf("typeinfo: unknown affiliation: %s", parts[1])
	}
	res = append(res, aff)

	dim, ok := battleDimensionMap[parts[2]]
	if !ok {
		return nil, fmt.Errorf("typeinfo: unknown battle dimension: %s", parts[2])
	}
	res = append(res, dim)

	res = append(res, parts[3:]...)
	return res, nil
}

// Describe is a best-effort variant of Explain for ambient enrichment
// call sites that must never fail: it returns the joined English
// description on success and the empty string on any error.
func Describe(code string) string {
	parts, err := Explain(code)
	if err != nil {
		return ""
	}
	return strings.Join(parts, " / ")
}
