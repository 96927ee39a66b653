package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fundchain/core/events"
	"fundchain/core/state"
	"fundchain/core/types"
	"fundchain/crypto"
	"fundchain/native/bank"
	"fundchain/native/fundraise"
	"fundchain/native/token"
	"fundchain/observability/logging"
	"fundchain/observability/metrics"
	"fundchain/storage"
)

var (
	// ErrInvalidCall is returned when a call is missing the payload for its type.
	ErrInvalidCall = errors.New("core: invalid call")
	// ErrFaucetDisabled is returned for faucet calls on networks that do not allow them.
	ErrFaucetDisabled = errors.New("core: faucet disabled")
)

// Result is the outcome of one applied call.
type Result struct {
	Call         types.CallType                 `json:"call"`
	Platform     [20]byte                       `json:"platform"`
	Campaign     [20]byte                       `json:"campaign,omitempty"`
	Ledger       *fundraise.LedgerRecord        `json:"ledger,omitempty"`
	CampaignInfo *fundraise.CampaignRecord      `json:"campaignInfo,omitempty"`
	Contribution *fundraise.ContributionReceipt `json:"contribution,omitempty"`
	Closure      *fundraise.ClosureReceipt      `json:"closure,omitempty"`
	Amount       uint64                         `json:"amount,omitempty"`
	Events       []*types.Event                 `json:"events"`
}

// Processor applies calls to the ledger one at a time. Every call runs inside
// its own state transition which is committed only when the call succeeds;
// events reach the sink after the commit.
type Processor struct {
	mu          sync.RWMutex
	db          storage.Database
	rent        state.Rent
	clock       clockwork.Clock
	sink        events.Emitter
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *metrics.FundraiseMetrics
	rewardRatio uint64
	faucet      bool
}

// Option customises a Processor.
type Option func(*Processor)

// WithRent overrides the reserve schedule.
func WithRent(rent state.Rent) Option { return func(p *Processor) { p.rent = rent } }

// WithClock overrides the time source.
func WithClock(clock clockwork.Clock) Option { return func(p *Processor) { p.clock = clock } }

// WithEventSink sets the emitter that receives committed events.
func WithEventSink(sink events.Emitter) Option { return func(p *Processor) { p.sink = sink } }

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option { return func(p *Processor) { p.logger = logger } }

// WithRewardRatio sets the referrer reward ratio for newly initialised platforms.
func WithRewardRatio(ratio uint64) Option { return func(p *Processor) { p.rewardRatio = ratio } }

// WithFaucet enables faucet calls.
func WithFaucet(enabled bool) Option { return func(p *Processor) { p.faucet = enabled } }

// NewProcessor constructs a processor over db.
func NewProcessor(db storage.Database, opts ...Option) *Processor {
	p := &Processor{
		db:          db,
		rent:        state.DefaultRent(),
		clock:       clockwork.NewRealClock(),
		sink:        events.NoopEmitter{},
		logger:      slog.Default(),
		tracer:      otel.Tracer("fundchain/core"),
		metrics:     metrics.Fundraise(),
		rewardRatio: fundraise.DefaultRewardRatio,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.sink == nil {
		p.sink = events.NoopEmitter{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// frozenClock pins Now to the instant a call started.
type frozenClock struct {
	clockwork.Clock
	at time.Time
}

func (c frozenClock) Now() time.Time { return c.at }

type transition struct {
	manager *state.Manager
	bank    *bank.Ledger
	tokens  *token.Program
	engine  *fundraise.Engine
	buffer  *events.Buffer
}

func (p *Processor) begin(now time.Time) *transition {
	manager := state.NewManagerWithRent(p.db, p.rent)
	tx := &transition{
		manager: manager,
		bank:    bank.NewLedger(manager),
		tokens:  token.NewProgram(manager),
		engine:  fundraise.NewEngine(),
		buffer:  &events.Buffer{},
	}
	tx.engine.SetState(manager)
	tx.engine.SetNativeLedger(tx.bank)
	tx.engine.SetRewardToken(tx.tokens)
	tx.engine.SetEmitter(tx.buffer)
	tx.engine.SetClock(frozenClock{Clock: p.clock, at: now})
	tx.engine.SetRewardRatio(p.rewardRatio)
	return tx
}

// Apply runs call as one all-or-nothing transition.
func (p *Processor) Apply(ctx context.Context, call *types.Call) (*Result, error) {
	if err := call.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}
	ctx, span := p.tracer.Start(ctx, "fundraise."+call.Type.String(), trace.WithAttributes(
		attribute.String("fund.call", call.Type.String()),
		attribute.String("fund.signer", crypto.FormatIdentity(call.Signer)),
	))
	defer span.End()

	start := time.Now()
	result, err := p.apply(ctx, call)
	p.metrics.ObserveCall(call.Type.String(), time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.WarnContext(ctx, "call rejected",
			slog.String("call", call.Type.String()),
			logging.MaskField("signer", crypto.FormatIdentity(call.Signer)),
			slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int("fund.events", len(result.Events)))
	p.logger.InfoContext(ctx, "call applied",
		slog.String("call", call.Type.String()),
		logging.MaskField("signer", crypto.FormatIdentity(call.Signer)),
		logging.MaskField("platform", crypto.FormatIdentity(result.Platform)),
		slog.Int("events", len(result.Events)))
	p.observe(result)
	return result, nil
}

func (p *Processor) apply(ctx context.Context, call *types.Call) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx := p.begin(p.clock.Now())
	result, err := p.dispatch(tx, call)
	if err != nil {
		tx.manager.Discard()
		tx.buffer.Reset()
		return nil, err
	}
	if err := tx.manager.Commit(); err != nil {
		tx.buffer.Reset()
		return nil, err
	}
	for _, evt := range tx.buffer.Events() {
		if payload, ok := evt.(events.Payload); ok && payload.Event() != nil {
			result.Events = append(result.Events, payload.Event().Clone())
		}
	}
	tx.buffer.Flush(p.sink)
	return result, nil
}

func (p *Processor) dispatch(tx *transition, call *types.Call) (*Result, error) {
	result := &Result{Call: call.Type, Platform: call.Platform}
	var err error
	switch call.Type {
	case types.CallInitialize:
		result.Platform, result.Ledger, err = tx.engine.Initialize(call.Signer, call.Initialize)
	case types.CallCreateCampaign:
		result.Campaign, result.CampaignInfo, err = tx.engine.CreateCampaign(call.Signer, call.Platform, call.CreateCampaign)
	case types.CallContribute:
		result.Campaign = fundraise.CampaignAddress(call.Platform, call.Contribute.Campaign)
		result.Contribution, err = tx.engine.Contribute(call.Signer, call.Platform, call.Contribute)
	case types.CallContributeWithToken:
		result.Campaign = fundraise.CampaignAddress(call.Platform, call.ContributeWithToken.Campaign)
		result.CampaignInfo, err = tx.engine.ContributeWithToken(call.Signer, call.Platform, call.ContributeWithToken)
	case types.CallWithdraw:
		result.Amount, err = tx.engine.Withdraw(call.Signer, call.Platform)
	case types.CallWithdrawCampaign:
		result.Campaign = fundraise.CampaignAddress(call.Platform, call.Campaign.Campaign)
		result.Amount, err = tx.engine.WithdrawCampaign(call.Signer, call.Platform, call.Campaign.Campaign, call.Campaign.CampaignID)
	case types.CallWithdrawCommission:
		result.Amount, err = tx.engine.WithdrawCommission(call.Signer, call.Platform)
	case types.CallEndCampaign:
		result.Campaign = fundraise.CampaignAddress(call.Platform, call.Campaign.Campaign)
		result.Closure, err = tx.engine.EndCampaign(call.Signer, call.Platform, call.Campaign)
	case types.CallFaucet:
		if !p.faucet {
			return nil, ErrFaucetDisabled
		}
		result.Amount = call.Faucet.Amount
		err = tx.bank.Credit(call.Faucet.Recipient, call.Faucet.Amount)
	default:
		err = fmt.Errorf("%w: unknown call type %s", ErrInvalidCall, call.Type)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Processor) observe(result *Result) {
	switch {
	case result.Contribution != nil:
		p.metrics.ObserveContribution(result.Contribution.Amount, result.Contribution.Fee, result.Contribution.LeaderboardPayouts)
	case result.Closure != nil:
		p.metrics.ObserveRedistribution(result.Closure.Redistributed)
	case result.Call == types.CallWithdraw, result.Call == types.CallWithdrawCampaign, result.Call == types.CallWithdrawCommission:
		p.metrics.ObserveWithdrawal(result.Call.String(), result.Amount)
	}
}

// view runs fn against a read-only transition that is always discarded.
func (p *Processor) view(fn func(tx *transition) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tx := p.begin(p.clock.Now())
	defer tx.manager.Discard()
	return fn(tx)
}

// Ledger returns the ledger record at platform.
func (p *Processor) Ledger(platform [20]byte) (*fundraise.LedgerRecord, error) {
	var ledger *fundraise.LedgerRecord
	err := p.view(func(tx *transition) (err error) {
		ledger, err = tx.engine.Ledger(platform)
		return err
	})
	return ledger, err
}

// Leaderboard returns the leaderboard of platform.
func (p *Processor) Leaderboard(platform [20]byte) (*fundraise.Leaderboard, error) {
	var board *fundraise.Leaderboard
	err := p.view(func(tx *transition) (err error) {
		board, err = tx.engine.Leaderboard(platform)
		return err
	})
	return board, err
}

// Contributor returns the contributor record at slot.
func (p *Processor) Contributor(platform [20]byte, slot uint64) (*fundraise.ContributorRecord, error) {
	var contributor *fundraise.ContributorRecord
	err := p.view(func(tx *transition) (err error) {
		contributor, err = tx.engine.Contributor(platform, slot)
		return err
	})
	return contributor, err
}

// Campaign returns the campaign record of authority under platform.
func (p *Processor) Campaign(platform, authority [20]byte) (*fundraise.CampaignRecord, error) {
	var campaign *fundraise.CampaignRecord
	err := p.view(func(tx *transition) (err error) {
		campaign, err = tx.engine.Campaign(platform, authority)
		return err
	})
	return campaign, err
}

// Balance returns the native balance of addr.
func (p *Processor) Balance(addr [20]byte) (uint64, error) {
	var balance uint64
	err := p.view(func(tx *transition) (err error) {
		balance, err = tx.bank.Balance(addr)
		return err
	})
	return balance, err
}

// TokenBalance returns the reward tokens held in the associated account of owner.
func (p *Processor) TokenBalance(owner [20]byte) (uint64, error) {
	var balance uint64
	err := p.view(func(tx *transition) (err error) {
		balance, err = tx.tokens.Balance(tx.tokens.AssociatedAccount(owner))
		return err
	})
	return balance, err
}
