package report

import (
	"net/url"
	"strings"

	"github.com/f-sync/followback/internal/relationship"
)

const (
	profileBaseURL             = "https://instagram.com/"
	headingNotFollowingBack    = "Not following back"
	headingFans                = "Fans"
	headingMutual              = "Mutual"
	labelTotalFollowers        = "Followers"
	labelTotalFollowing        = "Following"
	labelTotalNotFollowingBack = "Not following back"
	labelTotalFans             = "Fans"
	labelTotalMutual           = "Mutual"
)

type summaryRow struct {
	label string
	count int
}

func summaryRows(stats relationship.Stats) []summaryRow {
	return []summaryRow{
		{label: labelTotalFollowers, count: stats.TotalFollowers},
		{label: labelTotalFollowing, count: stats.TotalFollowing},
		{label: labelTotalNotFollowingBack, count: stats.TotalNotFollowingBack},
		{label: labelTotalFans, count: stats.TotalFans},
		{label: labelTotalMutual, count: stats.TotalMutual},
	}
}

func listHeading(kind relationship.ListKind) string {
	switch kind {
	case relationship.ListNotFollowingBack:
		return headingNotFollowingBack
	case relationship.ListFans:
		return headingFans
	case relationship.ListMutual:
		return headingMutual
	default:
		return string(kind)
	}
}

// profileURL links an identifier to its public profile page.
func profileURL(identifier string) string {
	trimmedIdentifier := strings.TrimSpace(identifier)
	if trimmedIdentifier == "" {
		return ""
	}
	return profileBaseURL + url.PathEscape(trimmedIdentifier)
}
