package fundraise

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"fundchain/core/events"
	"fundchain/core/types"
)

type engineState interface {
	FundraiseLedgerGet(platform [20]byte) (*LedgerRecord, bool, error)
	FundraiseLedgerPut(platform [20]byte, ledger *LedgerRecord) error
	FundraiseLeaderboardGet(addr [20]byte) (*Leaderboard, bool, error)
	FundraiseLeaderboardPut(addr [20]byte, board *Leaderboard) error
	FundraiseContributorGet(addr [20]byte) (*ContributorRecord, bool, error)
	FundraiseContributorPut(addr [20]byte, contributor *ContributorRecord) error
	FundraiseCampaignGet(addr [20]byte) (*CampaignRecord, bool, error)
	FundraiseCampaignPut(addr [20]byte, campaign *CampaignRecord) error
	AllocateRecord(payer, addr [20]byte, size uint64) error
	MinimumBalance(size uint64) uint64
}

// NativeLedger moves native units between identities.
type NativeLedger interface {
	Transfer(from, to [20]byte, amount uint64) error
	Balance(addr [20]byte) (uint64, error)
}

// RewardToken mints and moves the platform reward token.
type RewardToken interface {
	MintAuthority() [20]byte
	MintTo(authority, destination [20]byte, amount uint64) error
	Transfer(from, to [20]byte, amount uint64) error
	AssociatedAccount(owner [20]byte) [20]byte
}

// Engine applies fundraising transitions against a record store. It performs
// no locking; callers serialise transitions and commit or discard the store.
type Engine struct {
	state       engineState
	bank        NativeLedger
	tokens      RewardToken
	emitter     events.Emitter
	clock       clockwork.Clock
	rewardRatio uint64
}

// NewEngine constructs an engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:     events.NoopEmitter{},
		clock:       clockwork.NewRealClock(),
		rewardRatio: DefaultRewardRatio,
	}
}

// SetState configures the record store used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetNativeLedger configures the native-currency transfer primitive.
func (e *Engine) SetNativeLedger(bank NativeLedger) { e.bank = bank }

// SetRewardToken configures the reward-token primitive.
func (e *Engine) SetRewardToken(tokens RewardToken) { e.tokens = tokens }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetClock overrides the time source. A nil clock restores the wall clock.
func (e *Engine) SetClock(clock clockwork.Clock) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	e.clock = clock
}

// SetRewardRatio sets the reward tokens minted per contributed native unit for
// platforms initialised afterwards.
func (e *Engine) SetRewardRatio(ratio uint64) { e.rewardRatio = ratio }

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) now() int64 {
	if e == nil || e.clock == nil {
		return clockwork.NewRealClock().Now().Unix()
	}
	return e.clock.Now().Unix()
}

func (e *Engine) ready() error {
	switch {
	case e == nil || e.state == nil:
		return errNilState
	case e.bank == nil:
		return errNilBank
	case e.tokens == nil:
		return errNilTokens
	}
	return nil
}

// Initialize creates the ledger and leaderboard owned by authority and returns
// the ledger address.
func (e *Engine) Initialize(authority [20]byte, params *types.InitializeParams) ([20]byte, *LedgerRecord, error) {
	var platform [20]byte
	if err := e.ready(); err != nil {
		return platform, nil, err
	}
	if params == nil {
		return platform, nil, errNilRequest
	}
	if params.Goal == 0 {
		return platform, nil, ErrInvalidGoal
	}
	if params.CommissionRate > 100 {
		return platform, nil, ErrInvalidCommissionRate
	}
	if params.PeriodLength < 0 {
		return platform, nil, ErrInvalidPeriod
	}
	platform = PlatformAddress(authority)
	board := LeaderboardAddress(authority)
	if err := e.state.AllocateRecord(authority, platform, LedgerRecordSize); err != nil {
		return platform, nil, fmt.Errorf("allocate ledger: %w", err)
	}
	if err := e.state.AllocateRecord(authority, board, LeaderboardRecordSize); err != nil {
		return platform, nil, fmt.Errorf("allocate leaderboard: %w", err)
	}
	now := e.now()
	ledger := &LedgerRecord{
		Authority:                 authority,
		Goal:                      params.Goal,
		CommissionRate:            params.CommissionRate,
		RewardRatio:               e.rewardRatio,
		PeriodLength:              params.PeriodLength,
		PeriodDeadline:            addSeconds(now, params.PeriodLength),
		RewardPerRecipient:        params.RewardPerRecipient,
		CommissionExemptThreshold: params.CommissionExemptThreshold,
		CampaignCloseThreshold:    params.CampaignCloseThreshold,
	}
	if err := e.state.FundraiseLedgerPut(platform, ledger); err != nil {
		return platform, nil, err
	}
	if err := e.state.FundraiseLeaderboardPut(board, &Leaderboard{}); err != nil {
		return platform, nil, err
	}
	e.emit(InitializedEvent(platform, authority, ledger.Goal, ledger.CommissionRate, ledger.PeriodDeadline))
	return platform, ledger.Clone(), nil
}

// CreateCampaign allocates the campaign record of authority under platform.
// Repeated creation for the same authority is rejected by the record store.
func (e *Engine) CreateCampaign(authority, platform [20]byte, params *types.CreateCampaignParams) ([20]byte, *CampaignRecord, error) {
	var addr [20]byte
	if err := e.ready(); err != nil {
		return addr, nil, err
	}
	if params == nil {
		return addr, nil, errNilRequest
	}
	if _, err := e.loadLedger(platform); err != nil {
		return addr, nil, err
	}
	addr = CampaignAddress(platform, authority)
	if err := e.state.AllocateRecord(authority, addr, CampaignRecordSize); err != nil {
		return addr, nil, fmt.Errorf("allocate campaign: %w", err)
	}
	campaign := &CampaignRecord{
		Platform:          platform,
		CampaignAuthority: authority,
		CampaignID:        params.CampaignID,
		IsCommissionFree:  params.IsCommissionFree,
	}
	if err := e.state.FundraiseCampaignPut(addr, campaign); err != nil {
		return addr, nil, err
	}
	e.emit(CampaignCreatedEvent(platform, addr, authority, campaign.CampaignID, campaign.IsCommissionFree))
	return addr, campaign.Clone(), nil
}

// Ledger returns the ledger record stored at platform.
func (e *Engine) Ledger(platform [20]byte) (*LedgerRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.loadLedger(platform)
}

// Leaderboard returns the leaderboard of the platform.
func (e *Engine) Leaderboard(platform [20]byte) (*Leaderboard, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	ledger, err := e.loadLedger(platform)
	if err != nil {
		return nil, err
	}
	return e.loadLeaderboard(ledger.Authority)
}

// Contributor returns the contributor record at slot.
func (e *Engine) Contributor(platform [20]byte, slot uint64) (*ContributorRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	contributor, ok, err := e.state.FundraiseContributorGet(ContributorAddress(platform, slot))
	if err != nil {
		return nil, err
	}
	if !ok || contributor == nil {
		return nil, ErrContributorNotFound
	}
	return contributor, nil
}

// Campaign returns the campaign record of authority under platform.
func (e *Engine) Campaign(platform, authority [20]byte) (*CampaignRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.loadCampaign(CampaignAddress(platform, authority))
}

func (e *Engine) loadLedger(platform [20]byte) (*LedgerRecord, error) {
	ledger, ok, err := e.state.FundraiseLedgerGet(platform)
	if err != nil {
		return nil, err
	}
	if !ok || ledger == nil {
		return nil, ErrLedgerNotFound
	}
	return ledger, nil
}

func (e *Engine) loadLeaderboard(authority [20]byte) (*Leaderboard, error) {
	board, ok, err := e.state.FundraiseLeaderboardGet(LeaderboardAddress(authority))
	if err != nil {
		return nil, err
	}
	if !ok || board == nil {
		return nil, ErrLeaderboardNotFound
	}
	return board, nil
}

func (e *Engine) loadCampaign(addr [20]byte) (*CampaignRecord, error) {
	campaign, ok, err := e.state.FundraiseCampaignGet(addr)
	if err != nil {
		return nil, err
	}
	if !ok || campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// loadCampaignFor resolves the campaign record and checks the caller-supplied id.
func (e *Engine) loadCampaignFor(platform, authority [20]byte, campaignID uint64) ([20]byte, *CampaignRecord, error) {
	addr := CampaignAddress(platform, authority)
	campaign, err := e.loadCampaign(addr)
	if err != nil {
		return addr, nil, err
	}
	if campaign.CampaignID != campaignID {
		return addr, nil, ErrInvalidCampaignID
	}
	return addr, campaign, nil
}
