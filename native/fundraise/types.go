package fundraise

import "time"

const (
	// MaxLeaderboardEntries bounds the top contributor list.
	MaxLeaderboardEntries = 10
	// MaxCampaignBalances bounds the per-campaign raised list on the ledger.
	MaxCampaignBalances = 10
	// MaxReferrerHistory bounds the referrer history kept per contributor.
	MaxReferrerHistory = 16

	// DefaultRewardRatio is the number of reward tokens minted per native unit contributed.
	DefaultRewardRatio uint64 = 10
)

// Fixed record sizes, used to compute reserve floors.
const (
	recordDiscriminator = 8
	addressSize         = 20

	LedgerRecordSize      = recordDiscriminator + addressSize + 8*11 + 1 + 16*MaxCampaignBalances + 4
	LeaderboardRecordSize = recordDiscriminator + 1 + (addressSize+8)*MaxLeaderboardEntries
	ContributorRecordSize = recordDiscriminator + 8 + addressSize + 8 + 4 + addressSize*MaxReferrerHistory
	CampaignRecordSize    = recordDiscriminator + addressSize*2 + 8 + 1 + 1 + 8 + 8
)

// LedgerRecord is the platform-wide fundraising state owned by its authority.
type LedgerRecord struct {
	Authority                 [20]byte         `json:"authority"`
	Goal                      uint64           `json:"goal"`
	Raised                    uint64           `json:"raised"`
	IDCounter                 uint64           `json:"idCounter"`
	CommissionRate            uint64           `json:"commissionRate"`
	CommissionAccrued         uint64           `json:"commissionAccrued"`
	RewardRatio               uint64           `json:"rewardRatio"`
	PeriodLength              int64            `json:"periodLength"`
	PeriodDeadline            int64            `json:"periodDeadline"`
	RewardPerRecipient        uint64           `json:"rewardPerRecipient"`
	CommissionExemptThreshold uint64           `json:"commissionExemptThreshold"`
	CampaignCloseThreshold    uint64           `json:"campaignCloseThreshold"`
	CampaignBalances          CampaignBalances `json:"campaignBalances"`
	ClosedCampaignCount       uint32           `json:"closedCampaignCount"`
}

// Period returns the reward issuance period as a duration.
func (l *LedgerRecord) Period() time.Duration {
	return time.Duration(l.PeriodLength) * time.Second
}

// Clone returns a deep copy of the ledger record.
func (l *LedgerRecord) Clone() *LedgerRecord {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// ContributorRecord tracks the cumulative contribution of one contributor slot.
type ContributorRecord struct {
	Slot      uint64     `json:"slot"`
	Address   [20]byte   `json:"address"`
	Amount    uint64     `json:"amount"`
	Referrers [][20]byte `json:"referrers"`
}

// Clone returns a deep copy of the contributor record.
func (c *ContributorRecord) Clone() *ContributorRecord {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Referrers = append([][20]byte(nil), c.Referrers...)
	return &clone
}

func (c *ContributorRecord) recordReferrer(referrer [20]byte) {
	c.Referrers = append(c.Referrers, referrer)
	if len(c.Referrers) > MaxReferrerHistory {
		c.Referrers = append([][20]byte(nil), c.Referrers[len(c.Referrers)-MaxReferrerHistory:]...)
	}
}

// CampaignRecord is the per-campaign bookkeeping owned by the campaign authority.
// IsCommissionFree is recorded at creation and not consulted afterwards.
type CampaignRecord struct {
	Platform                    [20]byte `json:"platform"`
	CampaignAuthority           [20]byte `json:"campaignAuthority"`
	CampaignID                  uint64   `json:"campaignId"`
	IsCommissionFree            bool     `json:"isCommissionFree"`
	IsActive                    bool     `json:"isActive"`
	TokenReceivedCommissionFree uint64   `json:"tokenReceivedCommissionFree"`
	TokenCoverGoal              uint64   `json:"tokenCoverGoal"`
}

// Clone returns a copy of the campaign record.
func (c *CampaignRecord) Clone() *CampaignRecord {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ContributionReceipt summarises an applied contribution.
type ContributionReceipt struct {
	Amount             uint64 `json:"amount"`
	Slot               uint64 `json:"slot"`
	NewSlot            bool   `json:"newSlot"`
	Commission         uint64 `json:"commission"`
	Fee                uint64 `json:"fee"`
	Raised             uint64 `json:"raised"`
	ContributorTotal   uint64 `json:"contributorTotal"`
	ReferrerReward     uint64 `json:"referrerReward"`
	LeaderboardPayouts int    `json:"leaderboardPayouts"`
}

// ClosureReceipt summarises a campaign closure.
type ClosureReceipt struct {
	CampaignID    uint64 `json:"campaignId"`
	Redistributed uint64 `json:"redistributed"`
	Remaining     int    `json:"remaining"`
}
