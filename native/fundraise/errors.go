package fundraise

import "errors"

var (
	errNilState   = errors.New("fundraise: state not configured")
	errNilBank    = errors.New("fundraise: native ledger not configured")
	errNilTokens  = errors.New("fundraise: reward token not configured")
	errNilRequest = errors.New("fundraise: request required")

	// Validation.
	ErrInvalidGoal           = errors.New("fundraise: goal must be greater than zero")
	ErrInvalidCommissionRate = errors.New("fundraise: commission rate must not exceed 100")
	ErrInvalidPeriod         = errors.New("fundraise: period length must not be negative")
	ErrZeroAmount            = errors.New("fundraise: amount must be greater than zero")
	ErrInvalidCampaignID     = errors.New("fundraise: campaign id greater than id counter")
	ErrGoalReached           = errors.New("fundraise: goal already reached")
	ErrCampaignNotActive     = errors.New("fundraise: campaign not active")
	ErrInsufficientTokens    = errors.New("fundraise: insufficient tokens to close campaign")
	ErrCampaignBalancesFull  = errors.New("fundraise: campaign balance list is full")
	ErrZeroRaised            = errors.New("fundraise: nothing raised")

	// Authorization.
	ErrNotOwner = errors.New("fundraise: caller is not the recorded authority")

	// Arithmetic.
	ErrInsufficientBalance     = errors.New("fundraise: balance below reserve floor")
	ErrEmptyRedistributionBase = errors.New("fundraise: remaining campaign balances sum to zero")
	ErrArithmeticOverflow      = errors.New("fundraise: arithmetic overflow")

	// Missing records.
	ErrLedgerNotFound          = errors.New("fundraise: ledger not found")
	ErrLeaderboardNotFound     = errors.New("fundraise: leaderboard not found")
	ErrContributorNotFound     = errors.New("fundraise: contributor slot not found")
	ErrCampaignNotFound        = errors.New("fundraise: campaign not found")
	ErrCampaignBalanceNotFound = errors.New("fundraise: campaign balance entry not found")
)
