package exportparser

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fieldRelationshipsFollowing = "relationships_following"
	fieldFollowing              = "following"
	fieldFollowers              = "followers"
	fieldStringListData         = "string_list_data"
	fieldValue                  = "value"
	fieldTitle                  = "title"
	fieldHref                   = "href"
	instagramHostName           = "instagram.com"
	urlPathSeparator            = "/"

	detailTopLevelScalar   = "top-level value is neither an object nor an array"
	detailNoKnownField     = "object carries no recognized list field"
	detailEntryUnextracted = "entry yielded no identifier"
	detailShapeFormat      = "matched shape %s with %d entries"
)

// exportShape tags the recognized structured-data layouts.
type exportShape int

const (
	shapeUnrecognized exportShape = iota
	shapeRelationshipsFollowing
	shapeBareList
	shapeFollowingField
	shapeFollowersField
)

var exportShapeNames = map[exportShape]string{
	shapeUnrecognized:           "unrecognized",
	shapeRelationshipsFollowing: fieldRelationshipsFollowing,
	shapeBareList:               "bare-list",
	shapeFollowingField:         fieldFollowing,
	shapeFollowersField:         fieldFollowers,
}

func (shape exportShape) String() string {
	return exportShapeNames[shape]
}

// shapeField pairs an object field with the shape it selects, in priority order.
type shapeField struct {
	shape exportShape
	field string
}

// objectShapeFields lists the object layouts in priority order.
var objectShapeFields = []shapeField{
	{shape: shapeRelationshipsFollowing, field: fieldRelationshipsFollowing},
	{shape: shapeFollowingField, field: fieldFollowing},
	{shape: shapeFollowersField, field: fieldFollowers},
}

// classifiedDocument is the decoded payload reduced to its matched shape and entries.
type classifiedDocument struct {
	shape   exportShape
	entries []any
}

// classifyDocument maps a decoded JSON document onto one of the recognized shapes. Objects and arrays
// never fail; any other top-level value is a FormatError.
func classifyDocument(document any) (classifiedDocument, error) {
	switch typed := document.(type) {
	case map[string]any:
		if classified, matched := matchObjectFields(typed, objectShapeFields); matched {
			return classified, nil
		}
		return classifiedDocument{shape: shapeUnrecognized}, nil
	case []any:
		return classifiedDocument{shape: shapeBareList, entries: typed}, nil
	default:
		return classifiedDocument{}, &FormatError{Format: FormatStructuredData, Reason: detailTopLevelScalar}
	}
}

func matchObjectFields(object map[string]any, candidates []shapeField) (classifiedDocument, bool) {
	for _, candidate := range candidates {
		value, exists := object[candidate.field]
		if !exists {
			continue
		}
		entries, isArray := value.([]any)
		if !isArray {
			continue
		}
		return classifiedDocument{shape: candidate.shape, entries: entries}, true
	}
	return classifiedDocument{}, false
}

// entryExtractor pulls an identifier out of a single export entry.
type entryExtractor func(entry map[string]any) (string, bool)

// entryExtractors run in order; the first success wins.
var entryExtractors = []entryExtractor{
	extractStringListValue,
	extractTitle,
	extractStringListHref,
}

func extractStringListValue(entry map[string]any) (string, bool) {
	item := firstStringListItem(entry)
	if item == nil {
		return "", false
	}
	return trimmedNonEmpty(stringValueForKey(item, fieldValue))
}

func extractTitle(entry map[string]any) (string, bool) {
	return trimmedNonEmpty(stringValueForKey(entry, fieldTitle))
}

func extractStringListHref(entry map[string]any) (string, bool) {
	item := firstStringListItem(entry)
	if item == nil {
		return "", false
	}
	href := stringValueForKey(item, fieldHref)
	if href == "" {
		return "", false
	}
	lastSegment := ""
	for _, segment := range strings.Split(href, urlPathSeparator) {
		if segment != "" {
			lastSegment = segment
		}
	}
	if strings.TrimSpace(lastSegment) == "" || lastSegment == instagramHostName {
		return "", false
	}
	return lastSegment, true
}

func firstStringListItem(entry map[string]any) map[string]any {
	items, isArray := entry[fieldStringListData].([]any)
	if !isArray || len(items) == 0 {
		return nil
	}
	item, _ := items[0].(map[string]any)
	return item
}

func extractEntryIdentifier(entry any) (string, bool) {
	object, isObject := entry.(map[string]any)
	if !isObject {
		return "", false
	}
	for _, extractor := range entryExtractors {
		if identifier, extracted := extractor(object); extracted {
			return identifier, true
		}
	}
	return "", false
}

func normalizeStructuredData(payload []byte, sink DiagnosticSink) (CanonicalList, error) {
	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, &SyntaxError{Format: FormatStructuredData, Err: err}
	}

	classified, err := classifyDocument(document)
	if err != nil {
		return nil, err
	}
	if classified.shape == shapeUnrecognized {
		sink.Report(Diagnostic{
			Format:     FormatStructuredData,
			Kind:       DiagnosticShapeUnrecognized,
			EntryIndex: noEntryIndex,
			Message:    detailNoKnownField,
		})
		return CanonicalList{}, nil
	}
	sink.Report(Diagnostic{
		Format:     FormatStructuredData,
		Kind:       DiagnosticShapeDetected,
		EntryIndex: noEntryIndex,
		Message:    fmt.Sprintf(detailShapeFormat, classified.shape, len(classified.entries)),
	})

	builder := newCanonicalListBuilder(len(classified.entries))
	for entryIndex, entry := range classified.entries {
		identifier, extracted := extractEntryIdentifier(entry)
		if !extracted {
			sink.Report(Diagnostic{
				Format:     FormatStructuredData,
				Kind:       DiagnosticEntrySkipped,
				EntryIndex: entryIndex,
				Message:    detailEntryUnextracted,
			})
			continue
		}
		builder.add(identifier)
	}
	return builder.list(), nil
}

func stringValueForKey(data map[string]any, key string) string {
	if value, ok := data[key]; ok {
		if str, ok2 := value.(string); ok2 {
			return str
		}
	}
	return ""
}

func trimmedNonEmpty(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	return trimmed, trimmed != ""
}
