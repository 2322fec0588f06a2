package document

import (
	"context"
	"strings"

	"github.com/dittocot/cotbridge"
	"github.com/dittocot/cotbridge/cottime"
	"github.com/dittocot/cotbridge/ctxlog"
	"github.com/dittocot/cotbridge/detail"
	"github.com/dittocot/cotbridge/geopoint"
)

// XMLToDocument parses raw CoT XML and converts it into a typed
// Document, orchestrating the detail codec, classifier, and header
// codec (spec §4.6). Parse and validation failures are returned
// unchanged from the underlying Event conversion; coordinate policy
// violations surface as a CoordinateError in strict mode.
func XMLToDocument(data []byte, policy cotbridge.Policy) (Document, []cotbridge.Diagnostic, error) {
	evt, err := cotbridge.ParseXML(data)
	if err != nil {
		return nil, nil, err
	}
	children := evt.Detail
	hasDetail := evt.DetailPresent
	uid := evt.Uid

	var m detail.Map
	if hasDetail {
		m = detail.ToMap(children, uid)
	} else {
		m = detail.Map{}
	}
	callsign := extractCallsign(m, uid)

	hdr, diags, err := buildHeader(evt, callsign, policy)
	cotbridge.ReleaseEvent(evt)
	if err != nil {
		return nil, diags, err
	}

	flat := detail.Flatten(m)
	doc := newDocument(hdr, flat, m)
	return doc, diags, nil
}

func newDocument(hdr Header, flat map[string]string, m detail.Map) Document {
	b := base{Header: hdr, Detail: flat}
	switch Classify(hdr.Type) {
	case KindChat:
		message, room, groupOwner := chatFields(m)
		return Chat{base: b, Message: message, Room: room, GroupOwner: groupOwner}
	case KindFile:
		filename, mimetype, sha256, size := fileFields(m)
		return File{base: b, Filename: filename, Mimetype: mimetype, SHA256: sha256, SizeBytes: size}
	case KindApi:
		return Api{base: b}
	case KindMapItem:
		return MapItem{base: b}
	default:
		return Generic{base: b, TypeDescription: describeType(hdr.Type)}
	}
}

// DocumentToXML reconstructs CoT XML from a Document. Per spec §4.5 the
// reverse path reads the header and the flat r_* keys back into detail;
// it does not attempt to reconstruct variant-specific synthetic fields.
// A detail subtree that cannot be rebuilt never corrupts the header:
// the engine emits an empty detail and returns a diagnostic instead of
// failing the whole conversion (spec §7).
func DocumentToXML(doc Document) ([]byte, []cotbridge.Diagnostic, error) {
	hdr := doc.CommonHeader()

	m, diags := detail.Unflatten(doc.FlatDetail())
	children, treeDiags := detail.FromMap(m)
	diags = append(diags, asCotbridgeDiagnostics(treeDiags)...)

	evt := &cotbridge.Event{
		Version: hdr.Version,
		Uid:     hdr.ID,
		Type:    hdr.Type,
		How:     hdr.How,
	}
	if evt.Version == "" {
		evt.Version = "2.0"
	}
	if hdr.TimeMillis != 0 {
		evt.Time = cottime.FromMillisString(hdr.TimeMillis)
	}
	if hdr.StartMicros != 0 {
		evt.Start = cottime.FromMicrosString(hdr.StartMicros)
	}
	if hdr.StaleMicros != 0 {
		evt.Stale = cottime.FromMicrosString(hdr.StaleMicros)
	}
	if evt.Time == "" {
		evt.Time = evt.Start
	}
	if hdr.HasPoint {
		numeric := geopoint.Numeric{Lat: hdr.Lat, Lon: hdr.Lon, Hae: hdr.Hae, Ce: hdr.Ce, Le: hdr.Le}
		p := geopoint.FromNumeric(numeric)
		evt.Point = &p
	}
	if len(children) > 0 {
		evt.DetailPresent = true
		evt.Detail = children
	}

	xmlBytes, err := evt.ToXML()
	if err != nil {
		if _, ok := err.(*cotbridge.ReconstructionError); ok {
			diags = append(diags, cotbridge.Diagnostic{
				Level:   "warn",
				Code:    "detail_reconstruction_failed",
				Message: err.Error(),
			})
			evt.DetailPresent = true
			evt.Detail = nil
			xmlBytes, err = evt.ToXML()
		}
		if err != nil {
			return nil, diags, err
		}
	}
	return xmlBytes, diags, nil
}

func asCotbridgeDiagnostics(ds []detail.Diagnostic) []cotbridge.Diagnostic {
	out := make([]cotbridge.Diagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, cotbridge.Diagnostic{Level: "warn", Code: "detail_key", Message: d.Key + ": " + d.Message})
	}
	return out
}

// XMLToDocumentContext is XMLToDocument with a context-scoped logger:
// callers on a replicated-store ingest path typically carry a
// request- or subscription-scoped *slog.Logger in ctx (see ctxlog),
// and this wrapper logs the diagnostics XMLToDocument returns (coordinate
// adjustments) through it instead of the package-level logger.
func XMLToDocumentContext(ctx context.Context, data []byte, policy cotbridge.Policy) (Document, []cotbridge.Diagnostic, error) {
	log := ctxlog.LoggerFromContext(ctx)
	doc, diags, err := XMLToDocument(data, policy)
	for _, d := range diags {
		log.Warn("cot document diagnostic", "code", d.Code, "message", d.Message)
	}
	if err != nil {
		log.Debug("xml to document failed", "error", err)
	}
	return doc, diags, err
}

// ObserverMapToTyped takes a flat key map as received from the store,
// unflattens its r_* keys, and deserializes it into a typed Document.
// It must never raise (spec §4.6, §7): any missing or malformed header
// field is treated as its zero value (for `_c` and `_v`, the header
// defaults 1 and 2) and classification falls through to Generic.
func ObserverMapToTyped(flat map[string]any) Document {
	hdr := Header{}
	if s, ok := flat["_id"].(string); ok {
		hdr.ID = s
	}
	hdr.Counter = intField(flat, "_c", 1)
	hdr.SchemaVersion = intField(flat, "_v", 2)
	if b, ok := flat["_r"].(bool); ok {
		hdr.Removed = b
	}
	if s, ok := flat["a"].(string); ok {
		hdr.Producer = s
	}
	hdr.TimeMillis = int64Field(flat, "b")
	if s, ok := flat["d"].(string); ok {
		hdr.UIDDup = s
	}
	if s, ok := flat["e"].(string); ok {
		hdr.Callsign = s
	}
	if s, ok := flat["g"].(string); ok {
		hdr.Version = s
	}
	if s, ok := flat["p"].(string); ok {
		hdr.How = s
	}
	if s, ok := flat["w"].(string); ok {
		hdr.Type = s
	}
	hdr.Ce = floatField(flat, "h")
	hdr.Hae = floatField(flat, "i")
	hdr.Lat = floatField(flat, "j")
	hdr.Le = floatField(flat, "k")
	hdr.Lon = floatField(flat, "l")
	hdr.StartMicros = int64Field(flat, "n")
	hdr.StaleMicros = int64Field(flat, "o")
	_, hdr.HasPoint = flat["j"]

	rFlat := make(map[string]string)
	for k, v := range flat {
		if !strings.HasPrefix(k, "r_") {
			continue
		}
		if s, ok := v.(string); ok {
			rFlat[k] = s
		}
	}

	m, _ := detail.Unflatten(rFlat)
	if hdr.Callsign == "" {
		hdr.Callsign = extractCallsign(m, hdr.ID)
	}

	return newDocument(hdr, rFlat, m)
}

// ObserverMapToTypedContext is ObserverMapToTyped with a context-scoped
// logger, used by store subscription callbacks to note when a record
// degraded to Generic because its `w` type field is missing or empty.
func ObserverMapToTypedContext(ctx context.Context, flat map[string]any) Document {
	doc := ObserverMapToTyped(flat)
	if doc.Kind() == KindGeneric && DocumentTypeOf(flat) == "" {
		ctxlog.LoggerFromContext(ctx).Warn("observer record missing type discriminator, degraded to generic", "id", DocumentIDOf(flat))
	}
	return doc
}

func intField(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func int64Field(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// DocumentIDOf returns the `_id` header field directly from a flat
// document map, without deserializing the rest of the document.
func DocumentIDOf(flat map[string]any) string {
	s, _ := flat["_id"].(string)
	return s
}

// DocumentTypeOf returns the `w` header field directly from a flat
// document map, without deserializing the rest of the document.
func DocumentTypeOf(flat map[string]any) string {
	s, _ := flat["w"].(string)
	return s
}

// ToFlatMap renders doc into the header-plus-r_* flat map shape
// accepted by the store (spec §6): short-coded header fields alongside
// the variant's already-flattened detail keys. No variant discriminator
// is emitted on this path; callers needing polymorphic deserialization
// add one of their own (spec §6) rather than relying on this engine to
// supply it.
func ToFlatMap(doc Document) map[string]any {
	hdr := doc.CommonHeader()
	out := map[string]any{
		"_id": hdr.ID,
		"_c":  hdr.Counter,
		"_v":  hdr.SchemaVersion,
		"_r":  hdr.Removed,
		"a":   hdr.Producer,
		"b":   hdr.TimeMillis,
		"d":   hdr.UIDDup,
		"e":   hdr.Callsign,
		"g":   hdr.Version,
		"h":   hdr.Ce,
		"i":   hdr.Hae,
		"j":   hdr.Lat,
		"k":   hdr.Le,
		"l":   hdr.Lon,
		"n":   hdr.StartMicros,
		"o":   hdr.StaleMicros,
		"p":   hdr.How,
		"w":   hdr.Type,
	}
	for k, v := range doc.FlatDetail() {
		out[k] = v
	}
	return out
}
