package ingest

import (
	"errors"
	"strings"

	"github.com/f-sync/followback/internal/exportparser"
)

// Slot names the role an export file plays in an analysis.
type Slot string

const (
	// SlotFollowers holds the list of accounts following the user.
	SlotFollowers Slot = "followers"
	// SlotFollowing holds the list of accounts the user follows.
	SlotFollowing Slot = "following"

	followersNameMarker = "followers"
	followingNameMarker = "following"

	errMessageIncompletePair = "both a followers file and a following file are required"
)

// ErrIncompletePair indicates that a followers or following source is missing.
var ErrIncompletePair = errors.New(errMessageIncompletePair)

// SlotAssignment pairs sources with their slots.
type SlotAssignment struct {
	Followers Source
	Following Source
	// Ignored lists the names of sources whose extension does not match the format.
	Ignored []string
}

// AssignSlots pairs sources by file name. Files without the format's extension are ignored. A name
// containing "followers" fills the followers slot, a name containing "following" fills the following
// slot, and any other file fills the first empty slot, followers first. Later files overwrite earlier
// ones in the same slot.
func AssignSlots(sources []Source, kind exportparser.FormatKind) (SlotAssignment, error) {
	var assignment SlotAssignment
	for _, source := range sources {
		if source == nil {
			continue
		}
		name := source.Name()
		if !kind.MatchesFileName(name) {
			assignment.Ignored = append(assignment.Ignored, name)
			continue
		}
		lowerName := strings.ToLower(name)
		switch {
		case strings.Contains(lowerName, followersNameMarker):
			assignment.Followers = source
		case strings.Contains(lowerName, followingNameMarker):
			assignment.Following = source
		case assignment.Followers == nil:
			assignment.Followers = source
		case assignment.Following == nil:
			assignment.Following = source
		}
	}
	if assignment.Followers == nil || assignment.Following == nil {
		return assignment, ErrIncompletePair
	}
	return assignment, nil
}
