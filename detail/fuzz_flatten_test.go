package detail

import "testing"

// FuzzFlattenUnflatten exercises Unflatten on arbitrary r_*-keyed flat
// maps, then re-flattens the result, checking neither direction panics
// and that every key Flatten produces from the result carries the r_
// prefix (the split is lossy per spec §9, not lossless, so byte-for-byte
// equality is not asserted).
func FuzzFlattenUnflatten(f *testing.F) {
	seeds := []struct{ key, value string }{
		{"r_contact_callsign", "ALPHA-1"},
		{"r_remarks", "hello"},
		{"r___chat_chatroom", "BLUE"},
		{"r_", "x"},
		{"not_prefixed", "y"},
	}
	for _, s := range seeds {
		f.Add(s.key, s.value)
	}
	f.Fuzz(func(t *testing.T, key, value string) {
		flat := map[string]string{key: value}
		m, _ := Unflatten(flat)
		back := Flatten(m)
		for k := range back {
			if len(k) < len("r_") || k[:2] != "r_" {
				t.Fatalf("Flatten produced non-r_-prefixed key %q from Unflatten(%q=%q)", k, key, value)
			}
		}
	})
}
