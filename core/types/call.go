package types

import "fmt"

// CallType enumerates the externally triggered transitions the ledger accepts.
type CallType uint8

const (
	CallInitialize CallType = iota + 1
	CallCreateCampaign
	CallContribute
	CallContributeWithToken
	CallWithdraw
	CallWithdrawCampaign
	CallWithdrawCommission
	CallEndCampaign
	// CallFaucet credits native units to an identity. Only honoured on dev networks.
	CallFaucet
)

var callTypeNames = map[CallType]string{
	CallInitialize:          "initialize",
	CallCreateCampaign:      "create_campaign",
	CallContribute:          "contribute",
	CallContributeWithToken: "contribute_with_token",
	CallWithdraw:            "withdraw",
	CallWithdrawCampaign:    "withdraw_campaign",
	CallWithdrawCommission:  "withdraw_commission",
	CallEndCampaign:         "end_campaign",
	CallFaucet:              "faucet",
}

func (c CallType) String() string {
	if name, ok := callTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("call(%d)", uint8(c))
}

// Call is one signed request submitted to the ledger. Signer has already been
// verified by the transport; Platform is the ledger record address the call
// targets and is ignored by initialize, which derives it from the signer.
type Call struct {
	Type     CallType `json:"type"`
	Signer   [20]byte `json:"signer"`
	Platform [20]byte `json:"platform"`

	Initialize          *InitializeParams          `json:"initialize,omitempty"`
	CreateCampaign      *CreateCampaignParams      `json:"createCampaign,omitempty"`
	Contribute          *ContributeParams          `json:"contribute,omitempty"`
	ContributeWithToken *ContributeWithTokenParams `json:"contributeWithToken,omitempty"`
	Campaign            *CampaignParams            `json:"campaign,omitempty"`
	Faucet              *FaucetParams              `json:"faucet,omitempty"`
}

// InitializeParams carries the platform configuration fixed at creation.
type InitializeParams struct {
	Goal                      uint64 `json:"goal"`
	CommissionRate            uint64 `json:"commissionRate"`
	RewardPerRecipient        uint64 `json:"rewardPerRecipient"`
	PeriodLength              int64  `json:"periodLength"`
	CommissionExemptThreshold uint64 `json:"commissionExemptThreshold"`
	CampaignCloseThreshold    uint64 `json:"campaignCloseThreshold"`
}

type CreateCampaignParams struct {
	CampaignID       uint64 `json:"campaignId"`
	IsCommissionFree bool   `json:"isCommissionFree"`
}

type ContributeParams struct {
	CampaignID uint64   `json:"campaignId"`
	Amount     uint64   `json:"amount"`
	Referrer   [20]byte `json:"referrer"`
	Campaign   [20]byte `json:"campaign"`
}

type ContributeWithTokenParams struct {
	CampaignID       uint64   `json:"campaignId"`
	Amount           uint64   `json:"amount"`
	IsCommissionFree bool     `json:"isCommissionFree"`
	Campaign         [20]byte `json:"campaign"`
}

// CampaignParams addresses a campaign record by its authority. CampaignID must
// match the id the record was created with.
type CampaignParams struct {
	CampaignID uint64   `json:"campaignId"`
	Campaign   [20]byte `json:"campaign"`
}

type FaucetParams struct {
	Recipient [20]byte `json:"recipient"`
	Amount    uint64   `json:"amount"`
}

// Validate checks that the payload matching the call type is present.
func (c *Call) Validate() error {
	if c == nil {
		return fmt.Errorf("call required")
	}
	var missing bool
	switch c.Type {
	case CallInitialize:
		missing = c.Initialize == nil
	case CallCreateCampaign:
		missing = c.CreateCampaign == nil
	case CallContribute:
		missing = c.Contribute == nil
	case CallContributeWithToken:
		missing = c.ContributeWithToken == nil
	case CallWithdrawCampaign, CallEndCampaign:
		missing = c.Campaign == nil
	case CallFaucet:
		missing = c.Faucet == nil
	case CallWithdraw, CallWithdrawCommission:
	default:
		return fmt.Errorf("unknown call type %s", c.Type)
	}
	if missing {
		return fmt.Errorf("%s: payload required", c.Type)
	}
	return nil
}
