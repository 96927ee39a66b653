package token

import (
	"errors"
	"fmt"

	"fundchain/core/state"
	"fundchain/crypto"
)

const (
	mintLabel          = "reward_mint"
	mintAuthorityLabel = "mint"
	associatedTokenNS  = "associated_token"
)

var (
	// ErrInvalidMintAuthority is returned when a mint is not signed by the derived authority.
	ErrInvalidMintAuthority = errors.New("token: invalid mint authority")
	// ErrInsufficientTokens is returned when a token account cannot cover a transfer.
	ErrInsufficientTokens = errors.New("token: insufficient tokens")
	// ErrSupplyOverflow is returned when a mint would overflow the tracked supply.
	ErrSupplyOverflow = errors.New("token: supply overflow")
)

var (
	mintAddress      = crypto.DeriveAddress(mintLabel)
	mintAuthorityKey = crypto.DeriveAddress(mintAuthorityLabel)
)

// Mint returns the address of the reward token mint.
func Mint() [20]byte { return mintAddress }

// MintAuthorityAddress returns the credential allowed to mint reward tokens.
func MintAuthorityAddress() [20]byte { return mintAuthorityKey }

// AssociatedAccountOf derives the reward-token account owned by owner.
func AssociatedAccountOf(owner [20]byte) [20]byte {
	return crypto.DeriveAddress(associatedTokenNS, owner[:], mintAddress[:])
}

type tokenStore interface {
	TokenBalance(account [20]byte) (uint64, error)
	MoveTokens(from, to [20]byte, amount uint64) error
	MintTokens(account [20]byte, amount uint64) error
	TokenSupply() (uint64, error)
}

// Program is the reward-token mint/transfer primitive bound to one state transition.
type Program struct {
	store tokenStore
}

// NewProgram binds the token program to the supplied store.
func NewProgram(store tokenStore) *Program {
	return &Program{store: store}
}

// MintAuthority returns the credential the program accepts for minting.
func (p *Program) MintAuthority() [20]byte { return mintAuthorityKey }

// AssociatedAccount derives the reward-token account owned by owner.
func (p *Program) AssociatedAccount(owner [20]byte) [20]byte {
	return AssociatedAccountOf(owner)
}

// MintTo creates amount tokens in destination.
func (p *Program) MintTo(authority, destination [20]byte, amount uint64) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("token: state manager required")
	}
	if authority != mintAuthorityKey {
		return ErrInvalidMintAuthority
	}
	if err := p.store.MintTokens(destination, amount); err != nil {
		if errors.Is(err, state.ErrBalanceOverflow) {
			return fmt.Errorf("%w: %v", ErrSupplyOverflow, err)
		}
		return err
	}
	return nil
}

// Transfer moves tokens between token accounts.
func (p *Program) Transfer(from, to [20]byte, amount uint64) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("token: state manager required")
	}
	if err := p.store.MoveTokens(from, to, amount); err != nil {
		if errors.Is(err, state.ErrInsufficientFunds) {
			return fmt.Errorf("%w: %v", ErrInsufficientTokens, err)
		}
		return err
	}
	return nil
}

// Balance returns the tokens held by a token account.
func (p *Program) Balance(account [20]byte) (uint64, error) {
	if p == nil || p.store == nil {
		return 0, fmt.Errorf("token: state manager required")
	}
	return p.store.TokenBalance(account)
}

// Supply returns the number of tokens minted so far.
func (p *Program) Supply() (uint64, error) {
	if p == nil || p.store == nil {
		return 0, fmt.Errorf("token: state manager required")
	}
	return p.store.TokenSupply()
}
