package fundraise

import (
	"fmt"

	"fundchain/core/types"
)

// Contribute applies a native-unit contribution from contributor to platform.
//
// Every validation runs before the first transfer. A non-zero campaign id
// must match the id recorded on the named campaign. Commission is
// floor(amount/100)*rate and is charged while the campaign's commission-free
// token intake is below the ledger's exemption threshold. A charged fee moves
// the full amount to the platform in two transfers; without a fee only the
// commission is moved. raised grows by amount-commission either way.
func (e *Engine) Contribute(contributor, platform [20]byte, params *types.ContributeParams) (*ContributionReceipt, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, errNilRequest
	}
	amount := params.Amount
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return nil, err
	}
	if params.CampaignID > ledger.IDCounter {
		return nil, ErrInvalidCampaignID
	}
	if ledger.Raised >= ledger.Goal {
		return nil, ErrGoalReached
	}
	var campaign *CampaignRecord
	if params.CampaignID == 0 {
		campaign, err = e.loadCampaign(CampaignAddress(platform, params.Campaign))
	} else {
		_, campaign, err = e.loadCampaignFor(platform, params.Campaign, params.CampaignID)
	}
	if err != nil {
		return nil, err
	}
	board, err := e.loadLeaderboard(ledger.Authority)
	if err != nil {
		return nil, err
	}

	slot := params.CampaignID
	if slot == 0 {
		slot = ledger.IDCounter
	}
	newSlot := slot == ledger.IDCounter
	contributorAddr := ContributorAddress(platform, slot)
	var record *ContributorRecord
	if newSlot {
		record = &ContributorRecord{Slot: slot, Address: contributor}
	} else {
		existing, ok, err := e.state.FundraiseContributorGet(contributorAddr)
		if err != nil {
			return nil, err
		}
		if !ok || existing == nil {
			return nil, ErrContributorNotFound
		}
		record = existing
	}
	if !ledger.CampaignBalances.CanInsert(params.CampaignID) {
		return nil, ErrCampaignBalancesFull
	}

	commission := commissionFor(amount, ledger.CommissionRate)
	var fee uint64
	if campaign.TokenReceivedCommissionFree < ledger.CommissionExemptThreshold {
		fee = commission
	}
	net := amount - commission
	reward, err := checkedMul(amount, ledger.RewardRatio)
	if err != nil {
		return nil, err
	}
	newAmount, err := checkedAdd(record.Amount, amount)
	if err != nil {
		return nil, err
	}
	raised, err := checkedAdd(ledger.Raised, net)
	if err != nil {
		return nil, err
	}
	accrued, err := checkedAdd(ledger.CommissionAccrued, fee)
	if err != nil {
		return nil, err
	}

	if fee > 0 {
		if err := e.bank.Transfer(contributor, platform, net); err != nil {
			return nil, fmt.Errorf("transfer contribution: %w", err)
		}
	}
	if err := e.bank.Transfer(contributor, platform, commission); err != nil {
		return nil, fmt.Errorf("transfer commission: %w", err)
	}

	if newSlot {
		if err := e.state.AllocateRecord(contributor, contributorAddr, ContributorRecordSize); err != nil {
			return nil, fmt.Errorf("allocate contributor: %w", err)
		}
		ledger.IDCounter++
	}
	if _, err := ledger.CampaignBalances.Insert(params.CampaignID, amount); err != nil {
		return nil, err
	}
	record.Amount = newAmount
	record.recordReferrer(params.Referrer)
	ledger.CommissionAccrued = accrued
	ledger.Raised = raised

	board.Update(record.Address, record.Amount)

	if err := e.tokens.MintTo(e.tokens.MintAuthority(), e.tokens.AssociatedAccount(params.Referrer), reward); err != nil {
		return nil, fmt.Errorf("mint referrer reward: %w", err)
	}

	now := e.now()
	payouts, err := e.drainLeaderboard(platform, ledger, board, now)
	if err != nil {
		return nil, err
	}

	if err := e.state.FundraiseContributorPut(contributorAddr, record); err != nil {
		return nil, err
	}
	if err := e.state.FundraiseLeaderboardPut(LeaderboardAddress(ledger.Authority), board); err != nil {
		return nil, err
	}
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return nil, err
	}
	e.emit(ContributionEvent(platform, now, amount, ledger.Raised, record.Address, params.Referrer, slot, commission, fee))
	return &ContributionReceipt{
		Amount:             amount,
		Slot:               slot,
		NewSlot:            newSlot,
		Commission:         commission,
		Fee:                fee,
		Raised:             ledger.Raised,
		ContributorTotal:   record.Amount,
		ReferrerReward:     reward,
		LeaderboardPayouts: payouts,
	}, nil
}

// drainLeaderboard pays every leaderboard member once the reward period has
// elapsed and opens the next period.
func (e *Engine) drainLeaderboard(platform [20]byte, ledger *LedgerRecord, board *Leaderboard, now int64) (int, error) {
	if now < ledger.PeriodDeadline {
		return 0, nil
	}
	authority := e.tokens.MintAuthority()
	drained := board.Drain()
	for _, entry := range drained {
		if err := e.tokens.MintTo(authority, e.tokens.AssociatedAccount(entry.Address), ledger.RewardPerRecipient); err != nil {
			return 0, fmt.Errorf("mint leaderboard reward: %w", err)
		}
		e.emit(LeaderboardRewardedEvent(platform, entry.Address, ledger.RewardPerRecipient, entry.Amount))
	}
	ledger.PeriodDeadline = addSeconds(now, ledger.PeriodLength)
	return len(drained), nil
}
