package state

import (
	"fmt"

	"fundchain/native/fundraise"
)

var (
	fundraiseLedgerPrefix      = []byte("fundraise/ledger:")
	fundraiseLeaderboardPrefix = []byte("fundraise/leaderboard:")
	fundraiseContributorPrefix = []byte("fundraise/contributor:")
	fundraiseCampaignPrefix    = []byte("fundraise/campaign:")
)

type storedCampaignBalance struct {
	CampaignID uint64
	Amount     uint64
}

type storedLedger struct {
	Authority                 [20]byte
	Goal                      uint64
	Raised                    uint64
	IDCounter                 uint64
	CommissionRate            uint64
	CommissionAccrued         uint64
	RewardRatio               uint64
	PeriodLength              uint64
	PeriodDeadline            uint64
	RewardPerRecipient        uint64
	CommissionExemptThreshold uint64
	CampaignCloseThreshold    uint64
	CampaignBalances          []storedCampaignBalance
	ClosedCampaignCount       uint32
}

func newStoredLedger(l *fundraise.LedgerRecord) *storedLedger {
	stored := &storedLedger{
		Authority:                 l.Authority,
		Goal:                      l.Goal,
		Raised:                    l.Raised,
		IDCounter:                 l.IDCounter,
		CommissionRate:            l.CommissionRate,
		CommissionAccrued:         l.CommissionAccrued,
		RewardRatio:               l.RewardRatio,
		PeriodLength:              uint64(l.PeriodLength),
		PeriodDeadline:            uint64(l.PeriodDeadline),
		RewardPerRecipient:        l.RewardPerRecipient,
		CommissionExemptThreshold: l.CommissionExemptThreshold,
		CampaignCloseThreshold:    l.CampaignCloseThreshold,
		ClosedCampaignCount:       l.ClosedCampaignCount,
	}
	for _, entry := range l.CampaignBalances.List() {
		stored.CampaignBalances = append(stored.CampaignBalances, storedCampaignBalance{CampaignID: entry.CampaignID, Amount: entry.Amount})
	}
	return stored
}

func (s *storedLedger) toLedger() (*fundraise.LedgerRecord, error) {
	if len(s.CampaignBalances) > fundraise.MaxCampaignBalances {
		return nil, fmt.Errorf("state: ledger holds %d campaign balances", len(s.CampaignBalances))
	}
	ledger := &fundraise.LedgerRecord{
		Authority:                 s.Authority,
		Goal:                      s.Goal,
		Raised:                    s.Raised,
		IDCounter:                 s.IDCounter,
		CommissionRate:            s.CommissionRate,
		CommissionAccrued:         s.CommissionAccrued,
		RewardRatio:               s.RewardRatio,
		PeriodLength:              int64(s.PeriodLength),
		PeriodDeadline:            int64(s.PeriodDeadline),
		RewardPerRecipient:        s.RewardPerRecipient,
		CommissionExemptThreshold: s.CommissionExemptThreshold,
		CampaignCloseThreshold:    s.CampaignCloseThreshold,
		ClosedCampaignCount:       s.ClosedCampaignCount,
	}
	for i, entry := range s.CampaignBalances {
		ledger.CampaignBalances.Entries[i] = fundraise.CampaignBalanceEntry{CampaignID: entry.CampaignID, Amount: entry.Amount}
	}
	ledger.CampaignBalances.Count = uint8(len(s.CampaignBalances))
	return ledger, nil
}

type storedLeaderboardEntry struct {
	Address [20]byte
	Amount  uint64
}

type storedContributor struct {
	Slot      uint64
	Address   [20]byte
	Amount    uint64
	Referrers [][20]byte
}

type storedCampaign struct {
	Platform                    [20]byte
	CampaignAuthority           [20]byte
	CampaignID                  uint64
	IsCommissionFree            bool
	IsActive                    bool
	TokenReceivedCommissionFree uint64
	TokenCoverGoal              uint64
}

// FundraiseLedgerGet loads the ledger record stored at platform.
func (m *Manager) FundraiseLedgerGet(platform [20]byte) (*fundraise.LedgerRecord, bool, error) {
	var stored storedLedger
	ok, err := m.KVGet(prefixedKey(fundraiseLedgerPrefix, platform), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	ledger, err := stored.toLedger()
	if err != nil {
		return nil, false, err
	}
	return ledger, true, nil
}

// FundraiseLedgerPut stores the ledger record at platform.
func (m *Manager) FundraiseLedgerPut(platform [20]byte, ledger *fundraise.LedgerRecord) error {
	if ledger == nil {
		return fmt.Errorf("state: nil ledger")
	}
	return m.KVPut(prefixedKey(fundraiseLedgerPrefix, platform), newStoredLedger(ledger))
}

// FundraiseLeaderboardGet loads the leaderboard stored at addr.
func (m *Manager) FundraiseLeaderboardGet(addr [20]byte) (*fundraise.Leaderboard, bool, error) {
	var stored []storedLeaderboardEntry
	ok, err := m.KVGet(prefixedKey(fundraiseLeaderboardPrefix, addr), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(stored) > fundraise.MaxLeaderboardEntries {
		return nil, false, fmt.Errorf("state: leaderboard holds %d entries", len(stored))
	}
	board := &fundraise.Leaderboard{Count: uint8(len(stored))}
	for i, entry := range stored {
		board.Entries[i] = fundraise.LeaderboardEntry{Address: entry.Address, Amount: entry.Amount}
	}
	return board, true, nil
}

// FundraiseLeaderboardPut stores the leaderboard at addr.
func (m *Manager) FundraiseLeaderboardPut(addr [20]byte, board *fundraise.Leaderboard) error {
	if board == nil {
		return fmt.Errorf("state: nil leaderboard")
	}
	stored := make([]storedLeaderboardEntry, 0, board.Len())
	for _, entry := range board.List() {
		stored = append(stored, storedLeaderboardEntry{Address: entry.Address, Amount: entry.Amount})
	}
	return m.KVPut(prefixedKey(fundraiseLeaderboardPrefix, addr), stored)
}

// FundraiseContributorGet loads the contributor record stored at addr.
func (m *Manager) FundraiseContributorGet(addr [20]byte) (*fundraise.ContributorRecord, bool, error) {
	var stored storedContributor
	ok, err := m.KVGet(prefixedKey(fundraiseContributorPrefix, addr), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &fundraise.ContributorRecord{
		Slot:      stored.Slot,
		Address:   stored.Address,
		Amount:    stored.Amount,
		Referrers: stored.Referrers,
	}, true, nil
}

// FundraiseContributorPut stores the contributor record at addr.
func (m *Manager) FundraiseContributorPut(addr [20]byte, contributor *fundraise.ContributorRecord) error {
	if contributor == nil {
		return fmt.Errorf("state: nil contributor")
	}
	return m.KVPut(prefixedKey(fundraiseContributorPrefix, addr), &storedContributor{
		Slot:      contributor.Slot,
		Address:   contributor.Address,
		Amount:    contributor.Amount,
		Referrers: contributor.Referrers,
	})
}

// FundraiseCampaignGet loads the campaign record stored at addr.
func (m *Manager) FundraiseCampaignGet(addr [20]byte) (*fundraise.CampaignRecord, bool, error) {
	var stored storedCampaign
	ok, err := m.KVGet(prefixedKey(fundraiseCampaignPrefix, addr), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	campaign := fundraise.CampaignRecord(stored)
	return &campaign, true, nil
}

// FundraiseCampaignPut stores the campaign record at addr.
func (m *Manager) FundraiseCampaignPut(addr [20]byte, campaign *fundraise.CampaignRecord) error {
	if campaign == nil {
		return fmt.Errorf("state: nil campaign")
	}
	stored := storedCampaign(*campaign)
	return m.KVPut(prefixedKey(fundraiseCampaignPrefix, addr), &stored)
}
