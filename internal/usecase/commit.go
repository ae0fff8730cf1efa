package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// CommitUseCase applies stamp deltas to persisted cards exactly once.
// Correctness rests on two checks in Apply: the replay check on the card's
// last commit ID and the version-keyed conditional write in the repository.
type CommitUseCase struct {
	cards   repository.CardRepository
	timeout time.Duration
}

// NewCommitUseCase constructs CommitUseCase. A non-positive timeout disables
// the per-operation deadline.
func NewCommitUseCase(cards repository.CardRepository, timeout time.Duration) *CommitUseCase {
	return &CommitUseCase{cards: cards, timeout: timeout}
}

// Apply performs one atomic stamp grant.
//
// A replayed request (same commit ID as the last applied one) returns the
// stored card unchanged. A delta that would push past TotalSlots fails with
// ErrOverCapacity even though batches enforce this locally, because the
// caller's view may be stale. A lost version race fails with
// ErrVersionConflict; the caller must re-read and re-derive the delta, since
// blindly retrying could double-apply.
func (u *CommitUseCase) Apply(ctx context.Context, req CommitRequest) (*model.Card, error) {
	if req.Delta <= 0 || req.CommitID == "" {
		return nil, domainErrors.ErrEmptyCommit
	}

	ctx, cancel := withDeadline(ctx, u.timeout)
	defer cancel()

	card, err := u.cards.GetByID(ctx, req.CardID)
	if err != nil {
		return nil, asDomainError(err)
	}

	if card.LastCommitID == req.CommitID {
		return card, nil
	}

	if card.CurrentStamps+req.Delta > card.TotalSlots {
		return nil, domainErrors.ErrOverCapacity
	}

	next := *card
	next.CurrentStamps = min(card.TotalSlots, card.CurrentStamps+req.Delta)
	next.LastCommitID = req.CommitID
	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := u.cards.UpdateProgress(ctx, &next, card.Version)
	if err != nil {
		return nil, asDomainError(err)
	}
	return updated, nil
}

func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func asDomainError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainErrors.ErrTimeout
	}
	return err
}
