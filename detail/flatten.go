package detail

import (
	"sort"
	"strings"
)

// Flatten implements spec rule (b): each top-level key k of m becomes
// either a scalar r_k entry, or — when its value is itself a map — one
// r_k_<attr> entry per leaf, recursing through further nested maps with
// additional underscore joins. Values inside a []any (repeated nested
// elements outside the CRDT-scoped direct children of <detail>, see
// Open Question #2) have no defined flat encoding and are skipped.
func Flatten(m Map) map[string]string {
	out := make(map[string]string)
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flattenValue("r_"+k, m[k], out)
	}
	return out
}

func flattenValue(prefix string, v any, out map[string]string) {
	switch vv := v.(type) {
	case string:
		out[prefix] = vv
	case Map:
		var keys []string
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenValue(prefix+"_"+k, vv[k], out)
		}
	case []any:
		// No normative flat encoding for repeated nested elements; see
		// Open Question #2. Silently omitted from the flat document.
	}
}

// Unflatten implements the normative reverse of Flatten (spec §6): every
// key is stripped of its "r_" prefix and split on the last underscore
// into (detailType, attribute). detailType may itself contain
// underscores and is preserved verbatim. A key with no underscore after
// the prefix produces a scalar entry r.detailType = value.
//
// As a lossless refinement over the literal last-underscore split, a
// split that recovers attribute "text" or "tag" immediately after a
// detailType ending in "_" is treated as the metadata keys _text/_tag
// rather than literal attribute names "text"/"tag" — see DESIGN.md's
// resolution of the §9 split-ambiguity Open Question.
func Unflatten(flat map[string]string) (Map, []Diagnostic) {
	out := Map{}
	var diags []Diagnostic

	var keys []string
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.HasPrefix(key, "r_") {
			continue
		}
		rest := key[len("r_"):]
		if rest == "" {
			diags = append(diags, Diagnostic{Key: key, Message: "empty detail type"})
			continue
		}
		idx := strings.LastIndexByte(rest, '_')
		if idx < 0 {
			out[rest] = flat[key]
			continue
		}
		detailType, attribute := rest[:idx], rest[idx+1:]
		if detailType == "" {
			diags = append(diags, Diagnostic{Key: key, Message: "empty detail type component"})
			continue
		}
		if (attribute == "text" || attribute == "tag") && strings.HasSuffix(detailType, "_") {
			attribute = "_" + attribute
			detailType = detailType[:len(detailType)-1]
		}
		if attribute == "" {
			diags = append(diags, Diagnostic{Key: key, Message: "empty attribute component"})
			continue
		}

		existing, ok := out[detailType]
		if !ok {
			out[detailType] = Map{attribute: flat[key]}
			continue
		}
		m, ok := existing.(Map)
		if !ok {
			diags = append(diags, Diagnostic{Key: key, Message: "detail type already has a scalar value"})
			continue
		}
		m[attribute] = flat[key]
	}

	return out, diags
}
