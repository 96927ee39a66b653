package fundraise

import (
	"fmt"

	"fundchain/core/types"
)

// ContributeWithToken moves reward tokens from the contributor's token account
// to the campaign's token account and credits the matching accumulator.
func (e *Engine) ContributeWithToken(contributor, platform [20]byte, params *types.ContributeWithTokenParams) (*CampaignRecord, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, errNilRequest
	}
	if params.Amount == 0 {
		return nil, ErrZeroAmount
	}
	if _, err := e.loadLedger(platform); err != nil {
		return nil, err
	}
	addr, campaign, err := e.loadCampaignFor(platform, params.Campaign, params.CampaignID)
	if err != nil {
		return nil, err
	}
	var total uint64
	if params.IsCommissionFree {
		total, err = checkedAdd(campaign.TokenReceivedCommissionFree, params.Amount)
	} else {
		total, err = checkedAdd(campaign.TokenCoverGoal, params.Amount)
	}
	if err != nil {
		return nil, err
	}
	from := e.tokens.AssociatedAccount(contributor)
	to := e.tokens.AssociatedAccount(addr)
	if err := e.tokens.Transfer(from, to, params.Amount); err != nil {
		return nil, fmt.Errorf("transfer tokens: %w", err)
	}
	if params.IsCommissionFree {
		campaign.TokenReceivedCommissionFree = total
	} else {
		campaign.TokenCoverGoal = total
	}
	if err := e.state.FundraiseCampaignPut(addr, campaign); err != nil {
		return nil, err
	}
	e.emit(CampaignTokenContributionEvent(platform, addr, contributor, params.Amount, params.IsCommissionFree, total))
	return campaign.Clone(), nil
}

// EndCampaign closes a campaign and spreads its raised balance over the
// remaining campaign balances in proportion to their amounts.
//
// The guards are taken literally: closing requires the activity flag to be
// unset and the token cover to have reached the close threshold. The flag is
// then flipped.
func (e *Engine) EndCampaign(signer, platform [20]byte, params *types.CampaignParams) (*ClosureReceipt, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, errNilRequest
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return nil, err
	}
	addr, campaign, err := e.loadCampaignFor(platform, params.Campaign, params.CampaignID)
	if err != nil {
		return nil, err
	}
	if signer != campaign.CampaignAuthority {
		return nil, ErrNotOwner
	}
	if campaign.IsActive {
		return nil, ErrCampaignNotActive
	}
	if campaign.TokenCoverGoal < ledger.CampaignCloseThreshold {
		return nil, ErrInsufficientTokens
	}
	balances := ledger.CampaignBalances
	removed, ok := balances.Remove(campaign.CampaignID)
	if !ok {
		return nil, ErrCampaignBalanceNotFound
	}
	redistributed, err := balances.Redistribute(removed.Amount)
	if err != nil {
		return nil, err
	}
	closed, err := checkedAdd(uint64(ledger.ClosedCampaignCount), 1)
	if err != nil || closed > uint64(^uint32(0)) {
		return nil, ErrArithmeticOverflow
	}
	campaign.IsActive = !campaign.IsActive
	ledger.CampaignBalances = balances
	ledger.ClosedCampaignCount = uint32(closed)
	if err := e.state.FundraiseCampaignPut(addr, campaign); err != nil {
		return nil, err
	}
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return nil, err
	}
	receipt := &ClosureReceipt{
		CampaignID:    campaign.CampaignID,
		Redistributed: redistributed,
		Remaining:     balances.Len(),
	}
	e.emit(CampaignClosedEvent(platform, addr, receipt.CampaignID, receipt.Redistributed, receipt.Remaining))
	return receipt, nil
}
