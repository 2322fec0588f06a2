package document

import (
	"strings"
	"testing"

	"github.com/dittocot/cotbridge"
)

func TestXMLToDocumentFriendlyMapItem(t *testing.T) {
	const in = `<event version="2.0" uid="Alpha1" type="a-f-G-U-C" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z" how="m-g">
  <point lat="34.052235" lon="-118.243683" hae="100.0" ce="10.0" le="5.0"/>
  <detail><contact callsign="Alpha1"/></detail>
</event>`

	doc, diags, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if doc.Kind() != KindMapItem {
		t.Fatalf("Kind() = %v, want MapItem", doc.Kind())
	}
	h := doc.CommonHeader()
	if h.ID != "Alpha1" || h.Type != "a-f-G-U-C" {
		t.Errorf("header id/type = %q/%q", h.ID, h.Type)
	}
	if h.Lat != 34.052235 || h.Lon != -118.243683 || h.Hae != 100.0 || h.Ce != 10.0 || h.Le != 5.0 {
		t.Errorf("unexpected numeric point fields: %+v", h)
	}
	if h.Callsign != "Alpha1" {
		t.Errorf("Callsign = %q, want Alpha1", h.Callsign)
	}
	flat := doc.FlatDetail()
	if flat["r_contact_callsign"] != "Alpha1" {
		t.Errorf("flat detail = %v, want r_contact_callsign=Alpha1", flat)
	}
}

func TestXMLToDocumentChat(t *testing.T) {
	const in = `<event version="2.0" uid="CHAT-001" type="b-t-f" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z">
  <detail>
    <__chat senderCallsign="ALPHA-1" chatroom="BLUE-CHAT"/>
    <remarks>Roger that</remarks>
  </detail>
</event>`

	doc, _, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	if doc.Kind() != KindChat {
		t.Fatalf("Kind() = %v, want Chat", doc.Kind())
	}
	chat := doc.(Chat)
	if doc.CommonHeader().Callsign != "ALPHA-1" {
		t.Errorf("Callsign = %q, want ALPHA-1", doc.CommonHeader().Callsign)
	}
	if chat.Message != "Roger that" {
		t.Errorf("Message = %q, want %q", chat.Message, "Roger that")
	}
	if chat.Room != "BLUE-CHAT" {
		t.Errorf("Room = %q, want BLUE-CHAT", chat.Room)
	}
	flat := doc.FlatDetail()
	if flat["r___chat_senderCallsign"] != "ALPHA-1" || flat["r___chat_chatroom"] != "BLUE-CHAT" {
		t.Errorf("unexpected flat detail: %v", flat)
	}
	if _, ok := flat["r_remarks"]; !ok {
		t.Errorf("expected r_remarks key, got: %v", flat)
	}
}

func TestXMLToDocumentFileShare(t *testing.T) {
	const in = `<event version="2.0" uid="F1" type="b-f-t-f" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z">
  <detail><fileshare filename="mission.pdf" sizeInBytes="1048576" mimetype="application/pdf" sha256hash="9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"/></detail>
</event>`

	doc, _, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	if doc.Kind() != KindFile {
		t.Fatalf("Kind() = %v, want File", doc.Kind())
	}
	file := doc.(File)
	if file.Filename != "mission.pdf" || file.Mimetype != "application/pdf" || file.SizeBytes != 1048576 {
		t.Errorf("unexpected file fields: %+v", file)
	}
	if file.SHA256 != "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08" {
		t.Errorf("SHA256 = %q, want the fileshare sha256hash attribute value", file.SHA256)
	}
}

func TestXMLToDocumentCoordinateClampingSafeMode(t *testing.T) {
	const in = `<event version="2.0" uid="T1" type="a-f-G" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z">
  <point lat="200" lon="-999" hae="0" ce="0" le="0"/>
</event>`

	doc, diags, err := XMLToDocument([]byte(in), cotbridge.SafePolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	h := doc.CommonHeader()
	if h.Lat != 90.0 || h.Lon != -180.0 {
		t.Errorf("clamped lat/lon = %v/%v, want 90/-180", h.Lat, h.Lon)
	}
	if len(diags) == 0 {
		t.Error("expected coordinate-adjustment diagnostic")
	}

	if _, _, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy()); err == nil {
		t.Error("expected CoordinateError under strict policy")
	} else if _, ok := err.(*cotbridge.CoordinateError); !ok {
		t.Errorf("expected *cotbridge.CoordinateError, got %T", err)
	}
}

func TestDocumentToXMLRoundTrip(t *testing.T) {
	const in = `<event version="2.0" uid="Alpha1" type="a-f-G-U-C" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z" how="m-g">
  <point lat="34.052235" lon="-118.243683" hae="100.0" ce="10.0" le="5.0"/>
  <detail><contact callsign="Alpha1"/></detail>
</event>`

	doc, _, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	out, diags, err := DocumentToXML(doc)
	if err != nil {
		t.Fatalf("DocumentToXML: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(string(out), `uid="Alpha1"`) {
		t.Errorf("reconstructed XML missing uid: %s", out)
	}
	if !strings.Contains(string(out), `callsign="Alpha1"`) {
		t.Errorf("reconstructed XML missing detail: %s", out)
	}
}

func TestObserverMapToTypedNeverRaises(t *testing.T) {
	doc := ObserverMapToTyped(map[string]any{})
	if doc == nil {
		t.Fatal("expected a Document, got nil")
	}
	if doc.Kind() != KindGeneric {
		t.Errorf("Kind() = %v, want Generic for an empty map", doc.Kind())
	}

	doc2 := ObserverMapToTyped(map[string]any{
		"_id":                "Alpha1",
		"w":                  "a-f-G-U-C",
		"j":                  34.052235,
		"r_contact_callsign": "Alpha1",
	})
	if doc2.Kind() != KindMapItem {
		t.Errorf("Kind() = %v, want MapItem", doc2.Kind())
	}
	if DocumentIDOf(map[string]any{"_id": "Alpha1"}) != "Alpha1" {
		t.Error("DocumentIDOf mismatch")
	}
	if DocumentTypeOf(map[string]any{"w": "a-f-G"}) != "a-f-G" {
		t.Error("DocumentTypeOf mismatch")
	}
}

func TestToFlatMapRoundTripsThroughObserverMapToTyped(t *testing.T) {
	const in = `<event version="2.0" uid="Alpha1" type="a-f-G-U-C" time="2025-06-24T14:10:00Z" start="2025-06-24T14:10:00Z" stale="2025-06-24T14:16:00Z">
  <point lat="34.052235" lon="-118.243683" hae="100.0" ce="10.0" le="5.0"/>
  <detail><contact callsign="Alpha1"/></detail>
</event>`

	doc, _, err := XMLToDocument([]byte(in), cotbridge.StrictPolicy())
	if err != nil {
		t.Fatalf("XMLToDocument: %v", err)
	}
	flat := ToFlatMap(doc)
	back := ObserverMapToTyped(flat)
	if back.CommonHeader().ID != "Alpha1" || back.Kind() != KindMapItem {
		t.Errorf("round-tripped document mismatch: %+v", back.CommonHeader())
	}
}
