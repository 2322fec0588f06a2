package document

import "testing"

func TestClassifyOrderedRules(t *testing.T) {
	cases := []struct {
		typ  string
		want Kind
	}{
		{"t-x-c-t", KindApi},
		{"b-m-p-s-p-i", KindApi},
		{"some-api-thing", KindApi},
		{"some-data-thing", KindApi},
		{"b-t-f", KindChat},
		{"room-chat-x", KindChat},
		{"b-f-t-f", KindFile},
		{"b-f-t-a", KindFile},
		{"has-attachment-x", KindFile},
		{"a-f-G-U-C", KindMapItem},
		{"a-h-G", KindMapItem},
		{"a-n-G", KindMapItem},
		{"a-u-G", KindMapItem},
		{"a-u-S", KindMapItem},
		{"a-u-A", KindMapItem},
		{"a-u-r-loc-g", KindMapItem},
		{"a-u-Z", KindGeneric},
		{"totally-unknown", KindGeneric},
	}
	for _, c := range cases {
		if got := Classify(c.typ); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestKindStringNeverEmpty(t *testing.T) {
	for k := KindMapItem; k <= KindGeneric; k++ {
		if k.String() == "" {
			t.Errorf("Kind(%d).String() is empty", k)
		}
	}
}
