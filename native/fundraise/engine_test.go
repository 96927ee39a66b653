package fundraise

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"fundchain/core/events"
	"fundchain/core/types"
	"fundchain/crypto"
)

var (
	errMockInsufficient = errors.New("mock: insufficient balance")
	errMockExists       = errors.New("mock: record exists")
)

type mockBank struct {
	balances map[[20]byte]uint64
}

func (b *mockBank) Transfer(from, to [20]byte, amount uint64) error {
	if b.balances[from] < amount {
		return errMockInsufficient
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

func (b *mockBank) Balance(addr [20]byte) (uint64, error) {
	return b.balances[addr], nil
}

type mockTokens struct {
	authority [20]byte
	balances  map[[20]byte]uint64
	minted    uint64
}

func (m *mockTokens) MintAuthority() [20]byte { return m.authority }

func (m *mockTokens) MintTo(authority, destination [20]byte, amount uint64) error {
	if authority != m.authority {
		return errors.New("mock: bad mint authority")
	}
	m.balances[destination] += amount
	m.minted += amount
	return nil
}

func (m *mockTokens) Transfer(from, to [20]byte, amount uint64) error {
	if m.balances[from] < amount {
		return errMockInsufficient
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

func (m *mockTokens) AssociatedAccount(owner [20]byte) [20]byte {
	return crypto.DeriveAddress("mock_token", owner[:])
}

type mockState struct {
	bank         *mockBank
	allocated    map[[20]byte]uint64
	ledgers      map[[20]byte]*LedgerRecord
	leaderboards map[[20]byte]*Leaderboard
	contributors map[[20]byte]*ContributorRecord
	campaigns    map[[20]byte]*CampaignRecord
}

func newMockState(bank *mockBank) *mockState {
	return &mockState{
		bank:         bank,
		allocated:    make(map[[20]byte]uint64),
		ledgers:      make(map[[20]byte]*LedgerRecord),
		leaderboards: make(map[[20]byte]*Leaderboard),
		contributors: make(map[[20]byte]*ContributorRecord),
		campaigns:    make(map[[20]byte]*CampaignRecord),
	}
}

func (m *mockState) FundraiseLedgerGet(addr [20]byte) (*LedgerRecord, bool, error) {
	ledger, ok := m.ledgers[addr]
	return ledger.Clone(), ok, nil
}

func (m *mockState) FundraiseLedgerPut(addr [20]byte, ledger *LedgerRecord) error {
	m.ledgers[addr] = ledger.Clone()
	return nil
}

func (m *mockState) FundraiseLeaderboardGet(addr [20]byte) (*Leaderboard, bool, error) {
	board, ok := m.leaderboards[addr]
	return board.Clone(), ok, nil
}

func (m *mockState) FundraiseLeaderboardPut(addr [20]byte, board *Leaderboard) error {
	m.leaderboards[addr] = board.Clone()
	return nil
}

func (m *mockState) FundraiseContributorGet(addr [20]byte) (*ContributorRecord, bool, error) {
	contributor, ok := m.contributors[addr]
	return contributor.Clone(), ok, nil
}

func (m *mockState) FundraiseContributorPut(addr [20]byte, contributor *ContributorRecord) error {
	m.contributors[addr] = contributor.Clone()
	return nil
}

func (m *mockState) FundraiseCampaignGet(addr [20]byte) (*CampaignRecord, bool, error) {
	campaign, ok := m.campaigns[addr]
	return campaign.Clone(), ok, nil
}

func (m *mockState) FundraiseCampaignPut(addr [20]byte, campaign *CampaignRecord) error {
	m.campaigns[addr] = campaign.Clone()
	return nil
}

func (m *mockState) AllocateRecord(payer, addr [20]byte, size uint64) error {
	if _, ok := m.allocated[addr]; ok {
		return errMockExists
	}
	if err := m.bank.Transfer(payer, addr, m.MinimumBalance(size)); err != nil {
		return err
	}
	m.allocated[addr] = size
	return nil
}

func (m *mockState) MinimumBalance(size uint64) uint64 {
	return (size + 128) * 10
}

type harness struct {
	engine   *Engine
	state    *mockState
	bank     *mockBank
	tokens   *mockTokens
	clock    *clockwork.FakeClock
	events   *events.Buffer
	owner    [20]byte
	funds    [20]byte
	backer   [20]byte
	other    [20]byte
	ref      [20]byte
	platform [20]byte
	// campaign authorities by campaign id
	campaigns map[uint64][20]byte
}

const startingBalance = 1_000_000

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		bank:   &mockBank{balances: make(map[[20]byte]uint64)},
		tokens: &mockTokens{authority: testAddr('M'), balances: make(map[[20]byte]uint64)},
		clock:  clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0)),
		events: &events.Buffer{},
		owner:  testAddr('O'),
		funds:  testAddr('F'),
		backer: testAddr('B'),
		other:  testAddr('X'),
		ref:    testAddr('R'),
	}
	for _, who := range [][20]byte{h.owner, h.funds, h.backer, h.other} {
		h.bank.balances[who] = startingBalance
	}
	h.state = newMockState(h.bank)
	h.engine = NewEngine()
	h.engine.SetState(h.state)
	h.engine.SetNativeLedger(h.bank)
	h.engine.SetRewardToken(h.tokens)
	h.engine.SetEmitter(h.events)
	h.engine.SetClock(h.clock)
	return h
}

func (h *harness) init(t *testing.T, params types.InitializeParams) {
	t.Helper()
	platform, ledger, err := h.engine.Initialize(h.owner, &params)
	require.NoError(t, err)
	require.Equal(t, PlatformAddress(h.owner), platform)
	require.Equal(t, params.Goal, ledger.Goal)
	h.platform = platform
	_, _, err = h.engine.CreateCampaign(h.funds, platform, &types.CreateCampaignParams{CampaignID: 0})
	require.NoError(t, err)
	h.campaigns = map[uint64][20]byte{0: h.funds}
}

// campaign returns the authority of the campaign with id, creating and
// funding one on first use.
func (h *harness) campaign(t *testing.T, id uint64) [20]byte {
	t.Helper()
	if authority, ok := h.campaigns[id]; ok {
		return authority
	}
	authority := testAddr(byte(0x80 + id))
	h.bank.balances[authority] = startingBalance
	_, _, err := h.engine.CreateCampaign(authority, h.platform, &types.CreateCampaignParams{CampaignID: id})
	require.NoError(t, err)
	h.campaigns[id] = authority
	return authority
}

func (h *harness) contribute(t *testing.T, from [20]byte, id, amount uint64) *ContributionReceipt {
	t.Helper()
	receipt, err := h.engine.Contribute(from, h.platform, &types.ContributeParams{
		CampaignID: id,
		Amount:     amount,
		Referrer:   h.ref,
		Campaign:   h.campaign(t, id),
	})
	require.NoError(t, err)
	return receipt
}

func defaultParams() types.InitializeParams {
	return types.InitializeParams{
		Goal:                      1000,
		CommissionRate:            5,
		RewardPerRecipient:        7,
		PeriodLength:              3600,
		CommissionExemptThreshold: 10,
		CampaignCloseThreshold:    50,
	}
}

func TestInitializeValidation(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name   string
		mutate func(*types.InitializeParams)
		err    error
	}{
		{"zero goal", func(p *types.InitializeParams) { p.Goal = 0 }, ErrInvalidGoal},
		{"rate above 100", func(p *types.InitializeParams) { p.CommissionRate = 101 }, ErrInvalidCommissionRate},
		{"negative period", func(p *types.InitializeParams) { p.PeriodLength = -1 }, ErrInvalidPeriod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := defaultParams()
			tc.mutate(&params)
			_, _, err := h.engine.Initialize(h.owner, &params)
			require.ErrorIs(t, err, tc.err)
			require.Empty(t, h.state.ledgers)
		})
	}
}

func TestInitializeSetsDeadlineAndFundsReserve(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, h.clock.Now().Unix()+3600, ledger.PeriodDeadline)
	require.Zero(t, ledger.IDCounter)
	require.Equal(t, DefaultRewardRatio, ledger.RewardRatio)
	require.Equal(t, h.state.MinimumBalance(LedgerRecordSize), h.bank.balances[h.platform])

	_, _, err = h.engine.Initialize(h.owner, func() *types.InitializeParams { p := defaultParams(); return &p }())
	require.ErrorIs(t, err, errMockExists)
}

func TestContributeChargedFeeScenario(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	platformBefore := h.bank.balances[h.platform]

	receipt := h.contribute(t, h.backer, 0, 100)
	require.True(t, receipt.NewSlot)
	require.Zero(t, receipt.Slot)
	require.Equal(t, uint64(5), receipt.Commission)
	require.Equal(t, uint64(5), receipt.Fee)
	require.Equal(t, uint64(1000), receipt.ReferrerReward)

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ledger.IDCounter)
	require.Equal(t, uint64(95), ledger.Raised)
	require.Equal(t, uint64(5), ledger.CommissionAccrued)
	require.Equal(t, platformBefore+100, h.bank.balances[h.platform])
	require.Equal(t, uint64(1000), h.tokens.balances[h.tokens.AssociatedAccount(h.ref)])

	contributor, err := h.engine.Contributor(h.platform, 0)
	require.NoError(t, err)
	require.Equal(t, h.backer, contributor.Address)
	require.Equal(t, uint64(100), contributor.Amount)
	require.Equal(t, [][20]byte{h.ref}, contributor.Referrers)

	entry, ok := ledger.CampaignBalances.Get(0)
	require.True(t, ok)
	require.Equal(t, uint64(100), entry.Amount)

	board, err := h.engine.Leaderboard(h.platform)
	require.NoError(t, err)
	require.Equal(t, []LeaderboardEntry{{Address: h.backer, Amount: 100}}, board.List())

	evts := h.events.Events()
	last := evts[len(evts)-1].(events.Payload).Event()
	require.Equal(t, EventTypeContribution, last.Type)
	require.Equal(t, "95", last.Attributes["platformAfter"])
}

func TestContributeWithoutFeeMovesOnlyCommission(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.CommissionExemptThreshold = 0
	h.init(t, params)
	platformBefore := h.bank.balances[h.platform]

	receipt := h.contribute(t, h.backer, 0, 100)
	require.Equal(t, uint64(5), receipt.Commission)
	require.Zero(t, receipt.Fee)

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, uint64(95), ledger.Raised)
	require.Zero(t, ledger.CommissionAccrued)
	require.Equal(t, platformBefore+5, h.bank.balances[h.platform])
}

func TestContributeRejectsWithoutMutation(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	ledgerBefore := h.state.ledgers[h.platform].Clone()
	balancesBefore := make(map[[20]byte]uint64)
	for k, v := range h.bank.balances {
		balancesBefore[k] = v
	}

	_, err := h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{CampaignID: 1, Amount: 100, Campaign: h.funds})
	require.ErrorIs(t, err, ErrInvalidCampaignID)
	_, err = h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{Amount: 0, Campaign: h.funds})
	require.ErrorIs(t, err, ErrZeroAmount)
	_, err = h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{Amount: 100, Campaign: h.other})
	require.ErrorIs(t, err, ErrCampaignNotFound)

	require.Equal(t, ledgerBefore, h.state.ledgers[h.platform])
	require.Equal(t, balancesBefore, h.bank.balances)
	require.Empty(t, h.state.contributors)
	require.Zero(t, h.tokens.minted)
}

func TestContributeStopsAtGoal(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 150
	h.init(t, params)

	var last uint64
	for i := 0; i < 2; i++ {
		receipt := h.contribute(t, h.backer, 0, 100)
		require.GreaterOrEqual(t, receipt.Raised, last)
		last = receipt.Raised
	}
	_, err := h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{Amount: 100, Campaign: h.funds})
	require.ErrorIs(t, err, ErrGoalReached)
}

func TestContributeReusesSlot(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 10_000
	h.init(t, params)

	h.contribute(t, h.backer, 0, 100)
	h.contribute(t, h.other, 0, 100)
	receipt := h.contribute(t, h.other, 1, 300)
	require.False(t, receipt.NewSlot)
	require.Equal(t, uint64(1), receipt.Slot)
	require.Equal(t, uint64(400), receipt.ContributorTotal)

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, uint64(2), ledger.IDCounter)
	require.Equal(t, []CampaignBalanceEntry{{CampaignID: 0, Amount: 100}, {CampaignID: 1, Amount: 300}}, ledger.CampaignBalances.List())
}

func TestContributeDrainsLeaderboardAfterDeadline(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 10_000
	h.init(t, params)

	h.contribute(t, h.backer, 0, 100)
	h.clock.Advance(time.Hour)
	receipt := h.contribute(t, h.other, 0, 200)
	require.Equal(t, 2, receipt.LeaderboardPayouts)

	board, err := h.engine.Leaderboard(h.platform)
	require.NoError(t, err)
	require.Zero(t, board.Len())
	require.Equal(t, uint64(7), h.tokens.balances[h.tokens.AssociatedAccount(h.backer)])
	require.Equal(t, uint64(7), h.tokens.balances[h.tokens.AssociatedAccount(h.other)])

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, h.clock.Now().Unix()+3600, ledger.PeriodDeadline)

	receipt = h.contribute(t, h.backer, 0, 100)
	require.Zero(t, receipt.LeaderboardPayouts)
}

func TestWithdrawKeepsReserveFloor(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	_, err := h.engine.Withdraw(h.owner, h.platform)
	require.ErrorIs(t, err, ErrZeroRaised)

	h.contribute(t, h.backer, 0, 300)
	_, err = h.engine.Withdraw(h.other, h.platform)
	require.ErrorIs(t, err, ErrNotOwner)

	ownerBefore := h.bank.balances[h.owner]
	amount, err := h.engine.Withdraw(h.owner, h.platform)
	require.NoError(t, err)
	require.Equal(t, uint64(300), amount)
	require.Equal(t, ownerBefore+300, h.bank.balances[h.owner])
	require.Equal(t, h.state.MinimumBalance(LedgerRecordSize), h.bank.balances[h.platform])

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Zero(t, ledger.Raised)
	_, err = h.engine.Withdraw(h.owner, h.platform)
	require.ErrorIs(t, err, ErrZeroRaised)
}

func TestWithdrawCommission(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	h.contribute(t, h.backer, 0, 200)

	_, err := h.engine.WithdrawCommission(h.backer, h.platform)
	require.ErrorIs(t, err, ErrNotOwner)

	ownerBefore := h.bank.balances[h.owner]
	amount, err := h.engine.WithdrawCommission(h.owner, h.platform)
	require.NoError(t, err)
	require.Equal(t, uint64(10), amount)
	require.Equal(t, ownerBefore+10, h.bank.balances[h.owner])
	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Zero(t, ledger.CommissionAccrued)
	require.Equal(t, uint64(190), ledger.Raised)
}

func TestWithdrawCampaign(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	h.contribute(t, h.backer, 0, 200)

	_, err := h.engine.WithdrawCampaign(h.other, h.platform, h.funds, 0)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.engine.WithdrawCampaign(h.funds, h.platform, h.funds, 3)
	require.ErrorIs(t, err, ErrInvalidCampaignID)

	before := h.bank.balances[h.funds]
	amount, err := h.engine.WithdrawCampaign(h.funds, h.platform, h.funds, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(200), amount)
	require.Equal(t, before+200, h.bank.balances[h.funds])

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Zero(t, ledger.Raised)
	entry, ok := ledger.CampaignBalances.Get(0)
	require.True(t, ok)
	require.Zero(t, entry.Amount)

	_, err = h.engine.WithdrawCampaign(h.funds, h.platform, h.funds, 0)
	require.ErrorIs(t, err, ErrZeroRaised)
}

func TestContributeWithToken(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	h.tokens.balances[h.tokens.AssociatedAccount(h.backer)] = 100

	_, err := h.engine.ContributeWithToken(h.backer, h.platform, &types.ContributeWithTokenParams{Amount: 0, Campaign: h.funds})
	require.ErrorIs(t, err, ErrZeroAmount)

	campaign, err := h.engine.ContributeWithToken(h.backer, h.platform, &types.ContributeWithTokenParams{Amount: 30, IsCommissionFree: true, Campaign: h.funds})
	require.NoError(t, err)
	require.Equal(t, uint64(30), campaign.TokenReceivedCommissionFree)
	campaign, err = h.engine.ContributeWithToken(h.backer, h.platform, &types.ContributeWithTokenParams{Amount: 20, Campaign: h.funds})
	require.NoError(t, err)
	require.Equal(t, uint64(20), campaign.TokenCoverGoal)

	campaignAccount := h.tokens.AssociatedAccount(CampaignAddress(h.platform, h.funds))
	require.Equal(t, uint64(50), h.tokens.balances[campaignAccount])
	require.Equal(t, uint64(50), h.tokens.balances[h.tokens.AssociatedAccount(h.backer)])

	_, err = h.engine.ContributeWithToken(h.backer, h.platform, &types.ContributeWithTokenParams{Amount: 500, Campaign: h.funds})
	require.ErrorIs(t, err, errMockInsufficient)
}

func TestCommissionExemptionAfterTokenIntake(t *testing.T) {
	h := newHarness(t)
	h.init(t, defaultParams())
	h.tokens.balances[h.tokens.AssociatedAccount(h.backer)] = 10
	_, err := h.engine.ContributeWithToken(h.backer, h.platform, &types.ContributeWithTokenParams{Amount: 10, IsCommissionFree: true, Campaign: h.funds})
	require.NoError(t, err)

	receipt := h.contribute(t, h.backer, 0, 100)
	require.Zero(t, receipt.Fee)
}

func TestEndCampaignRedistributes(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 10_000
	h.init(t, params)
	closer := testAddr('C')
	h.bank.balances[closer] = startingBalance
	_, _, err := h.engine.CreateCampaign(closer, h.platform, &types.CreateCampaignParams{CampaignID: 1})
	require.NoError(t, err)
	h.campaigns[1] = closer

	h.contribute(t, h.backer, 0, 100)
	h.contribute(t, h.other, 1, 200)
	h.contribute(t, h.backer, 2, 300)

	end := &types.CampaignParams{CampaignID: 1, Campaign: closer}
	_, err = h.engine.EndCampaign(h.backer, h.platform, end)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.engine.EndCampaign(closer, h.platform, end)
	require.ErrorIs(t, err, ErrInsufficientTokens)

	h.tokens.balances[h.tokens.AssociatedAccount(closer)] = 50
	_, err = h.engine.ContributeWithToken(closer, h.platform, &types.ContributeWithTokenParams{CampaignID: 1, Amount: 50, Campaign: closer})
	require.NoError(t, err)

	receipt, err := h.engine.EndCampaign(closer, h.platform, end)
	require.NoError(t, err)
	require.Equal(t, uint64(200), receipt.Redistributed)
	require.Equal(t, 2, receipt.Remaining)

	ledger, err := h.engine.Ledger(h.platform)
	require.NoError(t, err)
	require.Equal(t, []CampaignBalanceEntry{{CampaignID: 0, Amount: 150}, {CampaignID: 2, Amount: 450}}, ledger.CampaignBalances.List())
	require.Equal(t, uint32(1), ledger.ClosedCampaignCount)

	campaign, err := h.engine.Campaign(h.platform, closer)
	require.NoError(t, err)
	require.True(t, campaign.IsActive)

	_, err = h.engine.EndCampaign(closer, h.platform, end)
	require.ErrorIs(t, err, ErrCampaignNotActive)
}

func TestEndCampaignWithoutBalanceEntry(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.CampaignCloseThreshold = 0
	h.init(t, params)
	_, err := h.engine.EndCampaign(h.funds, h.platform, &types.CampaignParams{Campaign: h.funds})
	require.ErrorIs(t, err, ErrCampaignBalanceNotFound)
	campaign, err := h.engine.Campaign(h.platform, h.funds)
	require.NoError(t, err)
	require.False(t, campaign.IsActive)
}

func TestEndCampaignRejectsZeroRedistributionBase(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.CampaignCloseThreshold = 0
	h.init(t, params)
	closer := testAddr('C')
	h.bank.balances[closer] = startingBalance
	_, _, err := h.engine.CreateCampaign(closer, h.platform, &types.CreateCampaignParams{CampaignID: 1})
	require.NoError(t, err)

	ledger := h.state.ledgers[h.platform]
	ledger.CampaignBalances = CampaignBalances{}
	_, err = ledger.CampaignBalances.Insert(0, 0)
	require.NoError(t, err)
	_, err = ledger.CampaignBalances.Insert(1, 100)
	require.NoError(t, err)
	before := ledger.Clone()

	_, err = h.engine.EndCampaign(closer, h.platform, &types.CampaignParams{CampaignID: 1, Campaign: closer})
	require.ErrorIs(t, err, ErrEmptyRedistributionBase)
	require.EqualError(t, err, "fundraise: remaining campaign balances sum to zero")

	require.Equal(t, before, h.state.ledgers[h.platform])
	campaign, err := h.engine.Campaign(h.platform, closer)
	require.NoError(t, err)
	require.False(t, campaign.IsActive)
}

func TestContributeRequiresMatchingCampaign(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 10_000
	h.init(t, params)
	h.contribute(t, h.backer, 0, 100)
	h.contribute(t, h.other, 0, 100)

	ledgerBefore := h.state.ledgers[h.platform].Clone()
	backerBefore := h.bank.balances[h.backer]
	_, err := h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{CampaignID: 1, Amount: 100, Campaign: h.funds})
	require.ErrorIs(t, err, ErrInvalidCampaignID)
	require.Equal(t, ledgerBefore, h.state.ledgers[h.platform])
	require.Equal(t, backerBefore, h.bank.balances[h.backer])

	receipt, err := h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{CampaignID: 1, Amount: 100, Campaign: h.campaign(t, 1)})
	require.NoError(t, err)
	require.Equal(t, uint64(1), receipt.Slot)
}

func TestCampaignBalancesFullRejectsBeforeTransfer(t *testing.T) {
	h := newHarness(t)
	params := defaultParams()
	params.Goal = 1_000_000
	h.init(t, params)
	for id := uint64(0); id < MaxCampaignBalances; id++ {
		h.contribute(t, h.backer, id, 100)
	}
	extra := h.campaign(t, MaxCampaignBalances)
	before := h.bank.balances[h.backer]
	_, err := h.engine.Contribute(h.backer, h.platform, &types.ContributeParams{CampaignID: MaxCampaignBalances, Amount: 100, Campaign: extra})
	require.ErrorIs(t, err, ErrCampaignBalancesFull)
	require.Equal(t, before, h.bank.balances[h.backer])
}

func TestEngineRequiresDependencies(t *testing.T) {
	engine := NewEngine()
	_, _, err := engine.Initialize(testAddr(1), &types.InitializeParams{Goal: 1})
	require.ErrorIs(t, err, errNilState)
}
