package document

import "github.com/dittocot/cotbridge/typeinfo"

// describeType best-effort enriches a Generic document with an English
// description of its type code; it never fails the conversion (spec
// §6.3 — ambient enrichment only, never consulted by the classifier).
func describeType(typ string) string {
	return typeinfo.Describe(typ)
}

// Document is the tagged sum type of storable document variants,
// replacing the teacher's reflection-based class hierarchy (spec §9):
// a value is always exactly one of MapItem, Chat, File, Api, or
// Generic, dispatched by Kind rather than by runtime type assertion.
type Document interface {
	CommonHeader() Header
	FlatDetail() map[string]string
	Kind() Kind

	sealed()
}

type base struct {
	Header Header
	Detail map[string]string
}

func (b base) CommonHeader() Header          { return b.Header }
func (b base) FlatDetail() map[string]string { return b.Detail }
func (base) sealed()                         {}

// MapItem is a friendly/hostile/neutral/unknown map item: a point with
// a callsign and no variant-specific synthetic fields.
type MapItem struct{ base }

func (MapItem) Kind() Kind { return KindMapItem }

// Chat is a chat-room message, exposing the convenience fields derived
// from `__chat` and `remarks` per spec §4.5. These fields are
// read-only conveniences; the reverse path reconstructs detail only
// from the header and the flat `r_*` keys (spec §4.5).
type Chat struct {
	base
	Message    string
	Room       string
	GroupOwner string
}

func (Chat) Kind() Kind { return KindChat }

// File is a file-share descriptor derived from `fileshare` detail.
type File struct {
	base
	Filename  string
	Mimetype  string
	SizeBytes float64
	SHA256    string
}

func (File) Kind() Kind { return KindFile }

// Api is an API/data event: header-only, no variant-specific fields.
type Api struct{ base }

func (Api) Kind() Kind { return KindApi }

// Generic is the catch-all variant for any type string the classifier
// does not otherwise recognize. TypeDescription is ambient enrichment
// from the typeinfo package; it is best-effort and never required for
// round-trip fidelity.
type Generic struct {
	base
	TypeDescription string
}

func (Generic) Kind() Kind { return KindGeneric }
