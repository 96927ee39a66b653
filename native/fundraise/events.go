package fundraise

import (
	"strconv"

	"fundchain/core/events"
	"fundchain/core/types"
	"fundchain/crypto"
)

const (
	// EventTypeInitialized is emitted when a platform ledger is created.
	EventTypeInitialized = "fundraise.initialized"
	// EventTypeContribution is emitted for every accepted native contribution.
	EventTypeContribution = "fundraise.contribution"
	// EventTypeWithdraw is emitted when raised funds leave the platform.
	EventTypeWithdraw = "fundraise.withdraw"
	// EventTypeCommissionWithdrawn is emitted when accrued commission is settled.
	EventTypeCommissionWithdrawn = "fundraise.commission.withdrawn"
	// EventTypeCampaignCreated is emitted when a campaign record is allocated.
	EventTypeCampaignCreated = "fundraise.campaign.created"
	// EventTypeCampaignTokenContribution is emitted when reward tokens are sent to a campaign.
	EventTypeCampaignTokenContribution = "fundraise.campaign.token_contribution"
	// EventTypeCampaignClosed is emitted when a campaign is closed and its balance redistributed.
	EventTypeCampaignClosed = "fundraise.campaign.closed"
	// EventTypeLeaderboardRewarded is emitted once per leaderboard member paid at period end.
	EventTypeLeaderboardRewarded = "fundraise.leaderboard.rewarded"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func addr(a [20]byte) string { return crypto.FormatIdentity(a) }

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

func i64(v int64) string { return strconv.FormatInt(v, 10) }

// InitializedEvent announces a new platform ledger.
func InitializedEvent(platform, authority [20]byte, goal, rate uint64, deadline int64) *types.Event {
	return &types.Event{
		Type: EventTypeInitialized,
		Attributes: map[string]string{
			"platform":       addr(platform),
			"authority":      addr(authority),
			"goal":           u64(goal),
			"commissionRate": u64(rate),
			"periodDeadline": i64(deadline),
		},
	}
}

// ContributionEvent captures an accepted contribution and the platform total after it.
func ContributionEvent(platform [20]byte, at int64, amount, raised uint64, from, referrer [20]byte, slot, commission, fee uint64) *types.Event {
	return &types.Event{
		Type: EventTypeContribution,
		Attributes: map[string]string{
			"platform":      addr(platform),
			"at":            i64(at),
			"amount":        u64(amount),
			"platformAfter": u64(raised),
			"from":          addr(from),
			"referrer":      addr(referrer),
			"slot":          u64(slot),
			"commission":    u64(commission),
			"fee":           u64(fee),
		},
	}
}

// WithdrawEvent captures a payout of raised funds. campaign is empty for
// platform-wide withdrawals.
func WithdrawEvent(platform [20]byte, at int64, amount uint64, to [20]byte, campaign string) *types.Event {
	attrs := map[string]string{
		"platform": addr(platform),
		"at":       i64(at),
		"amount":   u64(amount),
		"to":       addr(to),
	}
	if campaign != "" {
		attrs["campaignId"] = campaign
	}
	return &types.Event{Type: EventTypeWithdraw, Attributes: attrs}
}

// CommissionWithdrawnEvent captures a commission settlement.
func CommissionWithdrawnEvent(platform [20]byte, at int64, amount uint64, to [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeCommissionWithdrawn,
		Attributes: map[string]string{
			"platform": addr(platform),
			"at":       i64(at),
			"amount":   u64(amount),
			"to":       addr(to),
		},
	}
}

// CampaignCreatedEvent announces a campaign record.
func CampaignCreatedEvent(platform, campaign, authority [20]byte, campaignID uint64, commissionFree bool) *types.Event {
	return &types.Event{
		Type: EventTypeCampaignCreated,
		Attributes: map[string]string{
			"platform":       addr(platform),
			"campaign":       addr(campaign),
			"authority":      addr(authority),
			"campaignId":     u64(campaignID),
			"commissionFree": strconv.FormatBool(commissionFree),
		},
	}
}

// CampaignTokenContributionEvent captures reward tokens sent to a campaign.
func CampaignTokenContributionEvent(platform, campaign, from [20]byte, amount uint64, commissionFree bool, total uint64) *types.Event {
	return &types.Event{
		Type: EventTypeCampaignTokenContribution,
		Attributes: map[string]string{
			"platform":       addr(platform),
			"campaign":       addr(campaign),
			"from":           addr(from),
			"amount":         u64(amount),
			"commissionFree": strconv.FormatBool(commissionFree),
			"total":          u64(total),
		},
	}
}

// CampaignClosedEvent captures a closure and the amount spread over sibling campaigns.
func CampaignClosedEvent(platform, campaign [20]byte, campaignID, redistributed uint64, remaining int) *types.Event {
	return &types.Event{
		Type: EventTypeCampaignClosed,
		Attributes: map[string]string{
			"platform":      addr(platform),
			"campaign":      addr(campaign),
			"campaignId":    u64(campaignID),
			"redistributed": u64(redistributed),
			"remaining":     strconv.Itoa(remaining),
		},
	}
}

// LeaderboardRewardedEvent captures a period-end reward to one leaderboard member.
func LeaderboardRewardedEvent(platform, recipient [20]byte, amount, contributed uint64) *types.Event {
	return &types.Event{
		Type: EventTypeLeaderboardRewarded,
		Attributes: map[string]string{
			"platform":    addr(platform),
			"recipient":   addr(recipient),
			"amount":      u64(amount),
			"contributed": u64(contributed),
		},
	}
}
