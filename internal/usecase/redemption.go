package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// RedemptionAttempt is a transient claim request. ExpectedStamps pins the
// stamp count the caller saw when it decided the card was ready, so a claim
// raced by a concurrent commit is rejected as stale instead of consuming a
// reward the operator never looked at.
type RedemptionAttempt struct {
	CardID         int64
	ExpectedStamps int
	AttemptID      string
}

// NewRedemptionAttempt builds an attempt against the card's current state.
func NewRedemptionAttempt(card *model.Card) RedemptionAttempt {
	return RedemptionAttempt{
		CardID:         card.ID,
		ExpectedStamps: card.CurrentStamps,
		AttemptID:      uuid.NewString(),
	}
}

// RedemptionUseCase guards the completion-to-redeemed transition and keeps
// the claim single-shot per progression cycle.
type RedemptionUseCase struct {
	cards       repository.CardRepository
	redemptions repository.RedemptionRepository
	timeout     time.Duration
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(cards repository.CardRepository, redemptions repository.RedemptionRepository, timeout time.Duration) *RedemptionUseCase {
	return &RedemptionUseCase{cards: cards, redemptions: redemptions, timeout: timeout}
}

// Claim consumes the reward of a completed card. The claimed flag flips in
// the same conditional write that re-checked the card, so two concurrent
// claims yield exactly one success; the loser of the version race is
// re-read to report ErrAlreadyRedeemed rather than a bare conflict.
func (u *RedemptionUseCase) Claim(ctx context.Context, attempt RedemptionAttempt) (*model.Card, error) {
	ctx, cancel := withDeadline(ctx, u.timeout)
	defer cancel()

	card, err := u.cards.GetByID(ctx, attempt.CardID)
	if err != nil {
		return nil, asDomainError(err)
	}

	if card.RewardClaimed {
		return nil, domainErrors.ErrAlreadyRedeemed
	}
	if card.CurrentStamps < card.TotalSlots {
		return nil, domainErrors.ErrNotReady
	}
	if attempt.ExpectedStamps != card.CurrentStamps {
		return nil, domainErrors.ErrStaleAttempt
	}

	next := *card
	next.RewardClaimed = true
	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := u.cards.UpdateProgress(ctx, &next, card.Version)
	if err != nil {
		if errors.Is(err, domainErrors.ErrVersionConflict) {
			if fresh, rerr := u.cards.GetByID(ctx, attempt.CardID); rerr == nil && fresh.RewardClaimed {
				return nil, domainErrors.ErrAlreadyRedeemed
			}
		}
		return nil, asDomainError(err)
	}

	if _, err := u.redemptions.Create(ctx, updated.ID, updated.Redemptions+1, updated.CurrentStamps, attempt.AttemptID); err != nil {
		return nil, asDomainError(err)
	}
	return updated, nil
}

// StartNewCycle resets a redeemed card for its next progression cycle:
// stamps return to zero, the claim flag clears, and the redemption counter
// advances. Only a redeemed card can be reset.
func (u *RedemptionUseCase) StartNewCycle(ctx context.Context, cardID int64) (*model.Card, error) {
	ctx, cancel := withDeadline(ctx, u.timeout)
	defer cancel()

	card, err := u.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, asDomainError(err)
	}

	if !card.RewardClaimed {
		return nil, domainErrors.ErrNotReady
	}

	next := *card
	next.CurrentStamps = 0
	next.RewardClaimed = false
	next.Redemptions++
	next.LastCommitID = ""
	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := u.cards.UpdateProgress(ctx, &next, card.Version)
	if err != nil {
		return nil, asDomainError(err)
	}
	return updated, nil
}

// History lists archived redemptions for a card, newest first.
func (u *RedemptionUseCase) History(ctx context.Context, cardID int64) ([]model.Redemption, error) {
	return u.redemptions.ListByCard(ctx, cardID)
}
