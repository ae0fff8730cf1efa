package model

import (
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
)

// CardState describes where a card sits in its progression cycle.
type CardState string

const (
	CardStateInProgress    CardState = "IN_PROGRESS"
	CardStateReadyToRedeem CardState = "READY_TO_REDEEM"
	CardStateRedeemed      CardState = "REDEEMED"
)

// Card tracks one customer's stamp progress on a loyalty program.
// TotalSlots is fixed at enrollment; CurrentStamps only moves through
// committed deltas. Version backs the conditional write path and
// LastCommitID the replay check.
type Card struct {
	ID            int64
	ProgramID     int64
	Customer      string
	TotalSlots    int
	CurrentStamps int
	RewardClaimed bool
	Redemptions   int
	LastCommitID  string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks card invariants. A violation means a bug in the write
// path, not bad user input.
func (c *Card) Validate() error {
	if c.TotalSlots <= 0 {
		return domainErrors.ErrInvariantViolation
	}
	if c.CurrentStamps < 0 || c.CurrentStamps > c.TotalSlots {
		return domainErrors.ErrInvariantViolation
	}
	if c.RewardClaimed && c.CurrentStamps < c.TotalSlots {
		return domainErrors.ErrInvariantViolation
	}
	if c.Redemptions < 0 {
		return domainErrors.ErrInvariantViolation
	}
	return nil
}

// State derives the redemption state machine position from stored fields.
func (c *Card) State() CardState {
	switch {
	case c.RewardClaimed:
		return CardStateRedeemed
	case c.CurrentStamps == c.TotalSlots:
		return CardStateReadyToRedeem
	default:
		return CardStateInProgress
	}
}

// Remaining reports how many stamps the card still accepts.
func (c *Card) Remaining() int {
	return c.TotalSlots - c.CurrentStamps
}
