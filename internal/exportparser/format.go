package exportparser

import (
	"fmt"
	"strings"
)

// FormatKind identifies how an export payload is encoded.
type FormatKind string

const (
	// FormatStructuredData is the JSON export variant.
	FormatStructuredData FormatKind = "structured-data"
	// FormatMarkup is the HTML export variant.
	FormatMarkup FormatKind = "markup"

	formatAliasJSON          = "json"
	formatAliasHTML          = "html"
	formatAliasHTM           = "htm"
	errMessageUnknownFormat  = "unknown export format"
	structuredDataExtension  = ".json"
	markupPrimaryExtension   = ".html"
	markupSecondaryExtension = ".htm"
)

var formatKindsByName = map[string]FormatKind{
	string(FormatStructuredData): FormatStructuredData,
	string(FormatMarkup):         FormatMarkup,
	formatAliasJSON:              FormatStructuredData,
	formatAliasHTML:              FormatMarkup,
	formatAliasHTM:               FormatMarkup,
}

// ParseFormatKind resolves user input such as "json" or "markup" to a FormatKind.
func ParseFormatKind(value string) (FormatKind, error) {
	kind, known := formatKindsByName[strings.ToLower(strings.TrimSpace(value))]
	if !known {
		return "", &FormatError{Format: FormatKind(value), Reason: fmt.Sprintf("%s %q", errMessageUnknownFormat, value)}
	}
	return kind, nil
}

// Valid reports whether the kind is one of the supported formats.
func (kind FormatKind) Valid() bool {
	return kind == FormatStructuredData || kind == FormatMarkup
}

// FileExtensions lists the lower-case file extensions accepted for the format.
func (kind FormatKind) FileExtensions() []string {
	switch kind {
	case FormatStructuredData:
		return []string{structuredDataExtension}
	case FormatMarkup:
		return []string{markupPrimaryExtension, markupSecondaryExtension}
	default:
		return nil
	}
}

// MatchesFileName reports whether fileName carries one of the format's extensions.
func (kind FormatKind) MatchesFileName(fileName string) bool {
	lowerName := strings.ToLower(fileName)
	for _, extension := range kind.FileExtensions() {
		if strings.HasSuffix(lowerName, extension) {
			return true
		}
	}
	return false
}

func (kind FormatKind) String() string {
	return string(kind)
}
