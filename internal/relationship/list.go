package relationship

import (
	"errors"
	"fmt"
	"strings"
)

// ListKind names one of the three partitions of an AnalysisResult.
type ListKind string

const (
	// ListNotFollowingBack selects accounts followed by the user that do not follow back.
	ListNotFollowingBack ListKind = "not-following-back"
	// ListFans selects accounts following the user that the user does not follow.
	ListFans ListKind = "fans"
	// ListMutual selects accounts present in both lists.
	ListMutual ListKind = "mutual"

	errMessageUnknownListKind = "unknown relationship list"
)

// ErrUnknownListKind indicates that a list name is not one of the known partitions.
var ErrUnknownListKind = errors.New(errMessageUnknownListKind)

// ListKinds returns the partitions in display order.
func ListKinds() []ListKind {
	return []ListKind{ListNotFollowingBack, ListFans, ListMutual}
}

var listKindsByName = map[string]ListKind{
	string(ListNotFollowingBack): ListNotFollowingBack,
	"notfollowingback":           ListNotFollowingBack,
	string(ListFans):             ListFans,
	string(ListMutual):           ListMutual,
}

// ParseListKind resolves a list name; "notFollowingBack" and "not-following-back" are equivalent.
func ParseListKind(value string) (ListKind, error) {
	kind, known := listKindsByName[strings.ToLower(strings.TrimSpace(value))]
	if !known {
		return "", fmt.Errorf("%w: %q", ErrUnknownListKind, value)
	}
	return kind, nil
}

// List returns the identifiers of the requested partition, or nil for an unknown kind.
func (result AnalysisResult) List(kind ListKind) []string {
	switch kind {
	case ListNotFollowingBack:
		return result.NotFollowingBack
	case ListFans:
		return result.Fans
	case ListMutual:
		return result.Mutual
	default:
		return nil
	}
}
