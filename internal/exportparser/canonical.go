package exportparser

import "strings"

// CanonicalList is an ordered, duplicate-free sequence of non-empty identifiers.
type CanonicalList []string

type canonicalListBuilder struct {
	seen        map[string]struct{}
	identifiers CanonicalList
}

func newCanonicalListBuilder(capacity int) *canonicalListBuilder {
	return &canonicalListBuilder{
		seen:        make(map[string]struct{}, capacity),
		identifiers: make(CanonicalList, 0, capacity),
	}
}

// add keeps the first occurrence of identifier and ignores blanks.
func (builder *canonicalListBuilder) add(identifier string) bool {
	if strings.TrimSpace(identifier) == "" {
		return false
	}
	if _, duplicate := builder.seen[identifier]; duplicate {
		return false
	}
	builder.seen[identifier] = struct{}{}
	builder.identifiers = append(builder.identifiers, identifier)
	return true
}

func (builder *canonicalListBuilder) list() CanonicalList {
	return builder.identifiers
}
