package cotbridge

import (
	"bytes"
	"encoding/xml"

	"golang.org/x/net/html/charset"
)

// limitTokenReader wraps an xml.Decoder and enforces XML security
// limits while streaming tokens: element depth, element count,
// attribute/character data length, and token length, exactly the
// defenses the teacher library applies to its own fixed-schema decode
// path, generalized here to the arbitrary detail subtrees this engine
// must accept.
type limitTokenReader struct {
	dec   *xml.Decoder
	depth int
	count int
}

func (l *limitTokenReader) Token() (xml.Token, error) {
	off := l.dec.InputOffset()
	tok, err := l.dec.RawToken()
	if err != nil {
		return tok, err
	}
	if l.dec.InputOffset()-off > currentMaxTokenLen() {
		return nil, ErrInvalidInput
	}
	switch t := tok.(type) {
	case xml.StartElement:
		l.depth++
		l.count++
		if int64(l.depth) > currentMaxElementDepth() || int64(l.count) > currentMaxElementCount() {
			return nil, ErrInvalidInput
		}
		for _, a := range t.Attr {
			if int64(len(a.Value)) > currentMaxValueLen() {
				return nil, ErrInvalidInput
			}
		}
	case xml.EndElement:
		if l.depth > 0 {
			l.depth--
		}
	case xml.CharData:
		if int64(len(t)) > currentMaxValueLen() {
			return nil, ErrInvalidInput
		}
	}
	return tok, nil
}

// newSecureDecoder wraps data in an xml.Decoder that disables external
// entity and DTD processing (preventing XXE) and enforces the package's
// configured security limits while tokenizing.
func newSecureDecoder(data []byte) (*xml.Decoder, error) {
	if int64(len(data)) > currentMaxXMLSize() {
		return nil, ErrInvalidInput
	}
	raw := xml.NewDecoder(bytes.NewReader(data))
	raw.Entity = nil
	raw.Strict = true
	// Legacy TAK servers occasionally emit CoT without a UTF-8 charset
	// declaration; fall back to sniffing/transcoding rather than failing
	// the whole parse, matching what CoT consumers in the wild tolerate.
	raw.CharsetReader = charset.NewReaderLabel
	limited := &limitTokenReader{dec: raw}
	return xml.NewTokenDecoder(limited), nil
}
