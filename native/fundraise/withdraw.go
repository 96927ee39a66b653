package fundraise

import (
	"fmt"
	"strconv"
)

// Withdraw pays the platform balance above its reserve floor to the ledger
// authority and resets raised.
func (e *Engine) Withdraw(signer, platform [20]byte) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return 0, err
	}
	if ledger.Raised == 0 {
		return 0, ErrZeroRaised
	}
	if signer != ledger.Authority {
		return 0, ErrNotOwner
	}
	balance, err := e.bank.Balance(platform)
	if err != nil {
		return 0, err
	}
	floor := e.state.MinimumBalance(LedgerRecordSize)
	if balance < floor {
		return 0, fmt.Errorf("%w: balance %d, floor %d", ErrInsufficientBalance, balance, floor)
	}
	amount := balance - floor
	if err := e.bank.Transfer(platform, ledger.Authority, amount); err != nil {
		return 0, fmt.Errorf("transfer withdrawal: %w", err)
	}
	ledger.Raised = 0
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return 0, err
	}
	e.emit(WithdrawEvent(platform, e.now(), amount, ledger.Authority, ""))
	return amount, nil
}

// WithdrawCampaign pays a campaign's raised balance entry to its authority.
// The platform must keep its reserve floor after the payout.
func (e *Engine) WithdrawCampaign(signer, platform, campaignAuthority [20]byte, campaignID uint64) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return 0, err
	}
	_, campaign, err := e.loadCampaignFor(platform, campaignAuthority, campaignID)
	if err != nil {
		return 0, err
	}
	entry, ok := ledger.CampaignBalances.Get(campaign.CampaignID)
	if !ok || entry.Amount == 0 {
		return 0, ErrZeroRaised
	}
	if signer != campaign.CampaignAuthority {
		return 0, ErrNotOwner
	}
	balance, err := e.bank.Balance(platform)
	if err != nil {
		return 0, err
	}
	available := saturatingSub(balance, e.state.MinimumBalance(LedgerRecordSize))
	if available < entry.Amount {
		return 0, fmt.Errorf("%w: available %d, owed %d", ErrInsufficientBalance, available, entry.Amount)
	}
	if err := e.bank.Transfer(platform, campaign.CampaignAuthority, entry.Amount); err != nil {
		return 0, fmt.Errorf("transfer campaign withdrawal: %w", err)
	}
	ledger.CampaignBalances.Set(entry.CampaignID, 0)
	ledger.Raised = saturatingSub(ledger.Raised, entry.Amount)
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return 0, err
	}
	e.emit(WithdrawEvent(platform, e.now(), entry.Amount, campaign.CampaignAuthority, strconv.FormatUint(entry.CampaignID, 10)))
	return entry.Amount, nil
}

// WithdrawCommission pays the whole accrued commission to the ledger authority.
// The reserve floor is not consulted.
func (e *Engine) WithdrawCommission(signer, platform [20]byte) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return 0, err
	}
	if signer != ledger.Authority {
		return 0, ErrNotOwner
	}
	amount := ledger.CommissionAccrued
	if err := e.bank.Transfer(platform, ledger.Authority, amount); err != nil {
		return 0, fmt.Errorf("transfer commission: %w", err)
	}
	ledger.CommissionAccrued = 0
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return 0, err
	}
	e.emit(CommissionWithdrawnEvent(platform, e.now(), amount, ledger.Authority))
	return amount, nil
}
