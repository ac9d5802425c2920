// Package exportparser turns followers/following export files into canonical identifier lists.
//
// Two payload formats are understood: the structured-data (JSON) export, which appears in several
// layouts, and the markup (HTML) export, which is scraped for profile links. Both produce a
// CanonicalList: identifiers in first-seen order with duplicates and blanks removed.
package exportparser

import "bytes"

// utf8ByteOrderMark prefixes exports re-saved by some editors and is not part of the content.
var utf8ByteOrderMark = []byte("\xef\xbb\xbf")

// Config customizes a Normalizer.
type Config struct {
	// Diagnostics receives per-entry misses and shape detection events. Nil discards them.
	Diagnostics DiagnosticSink
}

// Normalizer converts raw export payloads into canonical identifier lists. The zero value is ready to
// use and a Normalizer holds no state between calls.
type Normalizer struct {
	diagnostics DiagnosticSink
}

// NewNormalizer constructs a Normalizer from configuration.
func NewNormalizer(configuration Config) Normalizer {
	return Normalizer{diagnostics: configuration.Diagnostics}
}

// Normalize parses payload according to kind. It returns a *SyntaxError when the payload is not
// well-formed and a *FormatError when its shape or the requested kind is not recognized. A leading
// UTF-8 byte order mark is ignored.
func (normalizer Normalizer) Normalize(payload []byte, kind FormatKind) (CanonicalList, error) {
	payload = bytes.TrimPrefix(payload, utf8ByteOrderMark)
	sink := normalizer.diagnostics
	if sink == nil {
		sink = discardDiagnosticSink{}
	}
	switch kind {
	case FormatStructuredData:
		return normalizeStructuredData(payload, sink)
	case FormatMarkup:
		return normalizeMarkup(payload, sink)
	default:
		return nil, &FormatError{Format: kind, Reason: errMessageUnknownFormat}
	}
}

// Normalize parses payload with a Normalizer that discards diagnostics.
func Normalize(payload []byte, kind FormatKind) (CanonicalList, error) {
	return Normalizer{}.Normalize(payload, kind)
}
