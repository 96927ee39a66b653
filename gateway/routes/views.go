package routes

import (
	"fundchain/core"
	"fundchain/core/types"
	"fundchain/crypto"
	"fundchain/native/fundraise"
)

// Request bodies. Addresses travel as bech32 strings.

type contributeRequest struct {
	CampaignID uint64 `json:"campaignId"`
	Amount     uint64 `json:"amount"`
	Referrer   string `json:"referrer"`
	Campaign   string `json:"campaign"`
}

type contributeWithTokenRequest struct {
	CampaignID       uint64 `json:"campaignId"`
	Amount           uint64 `json:"amount"`
	IsCommissionFree bool   `json:"isCommissionFree"`
	Campaign         string `json:"campaign"`
}

type campaignRequest struct {
	CampaignID uint64 `json:"campaignId"`
	Campaign   string `json:"campaign"`
}

type faucetRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type campaignBalanceView struct {
	CampaignID uint64 `json:"campaignId"`
	Amount     uint64 `json:"amount"`
}

type ledgerView struct {
	Address                   string                `json:"address"`
	Authority                 string                `json:"authority"`
	Goal                      uint64                `json:"goal"`
	Raised                    uint64                `json:"raised"`
	IDCounter                 uint64                `json:"idCounter"`
	CommissionRate            uint64                `json:"commissionRate"`
	CommissionAccrued         uint64                `json:"commissionAccrued"`
	RewardRatio               uint64                `json:"rewardRatio"`
	PeriodLength              int64                 `json:"periodLength"`
	PeriodDeadline            int64                 `json:"periodDeadline"`
	RewardPerRecipient        uint64                `json:"rewardPerRecipient"`
	CommissionExemptThreshold uint64                `json:"commissionExemptThreshold"`
	CampaignCloseThreshold    uint64                `json:"campaignCloseThreshold"`
	CampaignBalances          []campaignBalanceView `json:"campaignBalances"`
	ClosedCampaignCount       uint32                `json:"closedCampaignCount"`
}

func newLedgerView(platform [20]byte, l *fundraise.LedgerRecord) *ledgerView {
	if l == nil {
		return nil
	}
	balances := make([]campaignBalanceView, 0, l.CampaignBalances.Len())
	for _, entry := range l.CampaignBalances.List() {
		balances = append(balances, campaignBalanceView{CampaignID: entry.CampaignID, Amount: entry.Amount})
	}
	return &ledgerView{
		Address:                   crypto.FormatIdentity(platform),
		Authority:                 crypto.FormatIdentity(l.Authority),
		Goal:                      l.Goal,
		Raised:                    l.Raised,
		IDCounter:                 l.IDCounter,
		CommissionRate:            l.CommissionRate,
		CommissionAccrued:         l.CommissionAccrued,
		RewardRatio:               l.RewardRatio,
		PeriodLength:              l.PeriodLength,
		PeriodDeadline:            l.PeriodDeadline,
		RewardPerRecipient:        l.RewardPerRecipient,
		CommissionExemptThreshold: l.CommissionExemptThreshold,
		CampaignCloseThreshold:    l.CampaignCloseThreshold,
		CampaignBalances:          balances,
		ClosedCampaignCount:       l.ClosedCampaignCount,
	}
}

type leaderboardEntryView struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

func newLeaderboardView(board *fundraise.Leaderboard) []leaderboardEntryView {
	out := []leaderboardEntryView{}
	if board == nil {
		return out
	}
	for _, entry := range board.List() {
		out = append(out, leaderboardEntryView{Address: crypto.FormatIdentity(entry.Address), Amount: entry.Amount})
	}
	return out
}

type campaignView struct {
	Address                     string `json:"address"`
	Platform                    string `json:"platform"`
	CampaignAuthority           string `json:"campaignAuthority"`
	CampaignID                  uint64 `json:"campaignId"`
	IsCommissionFree            bool   `json:"isCommissionFree"`
	IsActive                    bool   `json:"isActive"`
	TokenReceivedCommissionFree uint64 `json:"tokenReceivedCommissionFree"`
	TokenCoverGoal              uint64 `json:"tokenCoverGoal"`
}

func newCampaignView(addr [20]byte, c *fundraise.CampaignRecord) *campaignView {
	if c == nil {
		return nil
	}
	return &campaignView{
		Address:                     crypto.FormatIdentity(addr),
		Platform:                    crypto.FormatIdentity(c.Platform),
		CampaignAuthority:           crypto.FormatIdentity(c.CampaignAuthority),
		CampaignID:                  c.CampaignID,
		IsCommissionFree:            c.IsCommissionFree,
		IsActive:                    c.IsActive,
		TokenReceivedCommissionFree: c.TokenReceivedCommissionFree,
		TokenCoverGoal:              c.TokenCoverGoal,
	}
}

type contributorView struct {
	Slot      uint64   `json:"slot"`
	Address   string   `json:"address"`
	Amount    uint64   `json:"amount"`
	Referrers []string `json:"referrers"`
}

func newContributorView(c *fundraise.ContributorRecord) *contributorView {
	referrers := make([]string, 0, len(c.Referrers))
	for _, ref := range c.Referrers {
		referrers = append(referrers, crypto.FormatIdentity(ref))
	}
	return &contributorView{
		Slot:      c.Slot,
		Address:   crypto.FormatIdentity(c.Address),
		Amount:    c.Amount,
		Referrers: referrers,
	}
}

type resultView struct {
	Call         string                         `json:"call"`
	Platform     string                         `json:"platform"`
	Campaign     string                         `json:"campaign,omitempty"`
	Ledger       *ledgerView                    `json:"ledger,omitempty"`
	CampaignInfo *campaignView                  `json:"campaignInfo,omitempty"`
	Contribution *fundraise.ContributionReceipt `json:"contribution,omitempty"`
	Closure      *fundraise.ClosureReceipt      `json:"closure,omitempty"`
	Amount       uint64                         `json:"amount,omitempty"`
	Events       []*types.Event                 `json:"events"`
}

func newResultView(res *core.Result) *resultView {
	view := &resultView{
		Call:         res.Call.String(),
		Platform:     crypto.FormatIdentity(res.Platform),
		Ledger:       newLedgerView(res.Platform, res.Ledger),
		CampaignInfo: newCampaignView(res.Campaign, res.CampaignInfo),
		Contribution: res.Contribution,
		Closure:      res.Closure,
		Amount:       res.Amount,
		Events:       res.Events,
	}
	if res.Campaign != ([20]byte{}) {
		view.Campaign = crypto.FormatIdentity(res.Campaign)
	}
	if view.Events == nil {
		view.Events = []*types.Event{}
	}
	return view
}

type accountView struct {
	Address      string `json:"address"`
	Balance      uint64 `json:"balance"`
	TokenBalance uint64 `json:"tokenBalance"`
}
