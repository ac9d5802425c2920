package relationship

// AnalysisResult partitions the union of a followers list and a following list.
type AnalysisResult struct {
	NotFollowingBack []string `json:"notFollowingBack" yaml:"notFollowingBack"`
	Fans             []string `json:"fans" yaml:"fans"`
	Mutual           []string `json:"mutual" yaml:"mutual"`
	Stats            Stats    `json:"stats" yaml:"stats"`
}

// Stats holds the aggregate counts of an analysis.
type Stats struct {
	TotalFollowers        int `json:"totalFollowers" yaml:"totalFollowers"`
	TotalFollowing        int `json:"totalFollowing" yaml:"totalFollowing"`
	TotalNotFollowingBack int `json:"totalNotFollowingBack" yaml:"totalNotFollowingBack"`
	TotalFans             int `json:"totalFans" yaml:"totalFans"`
	TotalMutual           int `json:"totalMutual" yaml:"totalMutual"`
}
