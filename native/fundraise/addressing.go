package fundraise

import (
	"strconv"

	"fundchain/crypto"
)

const (
	platformNamespace    = "fundraise_platform"
	leaderboardNamespace = "top_ten_contributors"
	contributorNamespace = "fundraise_platform_contributor"
	campaignNamespace    = "fundraise_campaign"
)

// PlatformAddress derives the ledger record address owned by authority.
func PlatformAddress(authority [20]byte) [20]byte {
	return crypto.DeriveAddress(platformNamespace, authority[:])
}

// LeaderboardAddress derives the leaderboard record address owned by authority.
func LeaderboardAddress(authority [20]byte) [20]byte {
	return crypto.DeriveAddress(leaderboardNamespace, authority[:])
}

// ContributorAddress derives the contributor record address for a slot of platform.
func ContributorAddress(platform [20]byte, slot uint64) [20]byte {
	return crypto.DeriveAddress(contributorNamespace, platform[:], []byte(strconv.FormatUint(slot, 10)))
}

// CampaignAddress derives the campaign record address for authority under platform.
func CampaignAddress(platform, authority [20]byte) [20]byte {
	return crypto.DeriveAddress(campaignNamespace, platform[:], authority[:])
}
