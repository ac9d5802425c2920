// Package relationship derives who follows back from a followers list and a following list.
package relationship

// Analyze classifies the two lists. Accounts present in both lists are mutual and appear in following
// order; accounts only in following do not follow back; accounts only in followers are fans and keep
// followers order. Analyze never fails and never mutates its inputs.
func Analyze(followers []string, following []string) AnalysisResult {
	followerSet := membershipSet(followers)
	followingSet := membershipSet(following)

	notFollowingBack, mutual := classifyFollowing(following, followerSet)
	fans := excludeMembers(followers, followingSet)

	return AnalysisResult{
		NotFollowingBack: notFollowingBack,
		Fans:             fans,
		Mutual:           mutual,
		Stats: Stats{
			TotalFollowers:        len(followerSet),
			TotalFollowing:        len(followingSet),
			TotalNotFollowingBack: len(notFollowingBack),
			TotalFans:             len(fans),
			TotalMutual:           len(mutual),
		},
	}
}

func classifyFollowing(following []string, followerSet map[string]struct{}) ([]string, []string) {
	notFollowingBack := make([]string, 0, len(following))
	mutual := make([]string, 0, len(following))
	for _, identifier := range following {
		if _, followsBack := followerSet[identifier]; followsBack {
			mutual = append(mutual, identifier)
		} else {
			notFollowingBack = append(notFollowingBack, identifier)
		}
	}
	return notFollowingBack, mutual
}

func excludeMembers(identifiers []string, excluded map[string]struct{}) []string {
	remaining := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		if _, exists := excluded[identifier]; !exists {
			remaining = append(remaining, identifier)
		}
	}
	return remaining
}

func membershipSet(identifiers []string) map[string]struct{} {
	members := make(map[string]struct{}, len(identifiers))
	for _, identifier := range identifiers {
		members[identifier] = struct{}{}
	}
	return members
}
