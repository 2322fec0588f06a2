package cotbridge

import (
	"strings"
	"testing"
)

func TestDecodeLimitsRejectExcessiveElementCount(t *testing.T) {
	prevCount := currentMaxElementCount()
	SetMaxElementCount(3)
	defer SetMaxElementCount(prevCount)

	var b strings.Builder
	b.WriteString(`<event uid="T" type="a-f-G" time="2025-06-24T14:10:00Z"><detail>`)
	for i := 0; i < 10; i++ {
		b.WriteString(`<x/>`)
	}
	b.WriteString(`</detail></event>`)

	if _, err := ParseXML([]byte(b.String())); err == nil {
		t.Fatal("expected element-count limit to reject this document")
	}
}

func TestDecodeLimitsRejectExcessiveDepth(t *testing.T) {
	prevDepth := currentMaxElementDepth()
	SetMaxElementDepth(3)
	defer SetMaxElementDepth(prevDepth)

	var b strings.Builder
	b.WriteString(`<event uid="T" type="a-f-G" time="2025-06-24T14:10:00Z"><detail>`)
	for i := 0; i < 10; i++ {
		b.WriteString(`<nest>`)
	}
	for i := 0; i < 10; i++ {
		b.WriteString(`</nest>`)
	}
	b.WriteString(`</detail></event>`)

	if _, err := ParseXML([]byte(b.String())); err == nil {
		t.Fatal("expected element-depth limit to reject this document")
	}
}

func TestDecodeLimitsAllowWithinDefaults(t *testing.T) {
	const in = `<event uid="T" type="a-f-G" time="2025-06-24T14:10:00Z"><detail><a/><b/><c/></detail></event>`
	if _, err := ParseXML([]byte(in)); err != nil {
		t.Fatalf("expected default limits to allow a small document: %v", err)
	}
}
