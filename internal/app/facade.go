package app

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/session"
	"github.com/polkiloo/stampcard/internal/usecase"
)

// FeedbackPublisher forwards discrete feedback notifications; implementations
// must never block the caller.
type FeedbackPublisher interface {
	Publish(event model.FeedbackEvent)
}

// StampFacade aggregates the application use cases behind one surface for
// the HTTP layer.
type StampFacade struct {
	auth        *usecase.AuthUseCase
	programs    *usecase.ProgramUseCase
	cards       *usecase.CardUseCase
	commits     *usecase.CommitUseCase
	redemptions *usecase.RedemptionUseCase
	sessions    *session.Store
	feedback    FeedbackPublisher
}

// NewStampFacade constructs StampFacade.
func NewStampFacade(
	auth *usecase.AuthUseCase,
	programs *usecase.ProgramUseCase,
	cards *usecase.CardUseCase,
	commits *usecase.CommitUseCase,
	redemptions *usecase.RedemptionUseCase,
	sessions *session.Store,
	feedback FeedbackPublisher,
) *StampFacade {
	return &StampFacade{
		auth:        auth,
		programs:    programs,
		cards:       cards,
		commits:     commits,
		redemptions: redemptions,
		sessions:    sessions,
		feedback:    feedback,
	}
}

func (f *StampFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *StampFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StampFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StampFacade) CreateProgram(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error) {
	return f.programs.Create(ctx, ownerID, name, reward, totalSlots)
}

func (f *StampFacade) Programs(ctx context.Context, ownerID int64) ([]model.Program, error) {
	return f.programs.ListByOwner(ctx, ownerID)
}

func (f *StampFacade) EnrollCard(ctx context.Context, programID int64, customer string) (*model.Card, error) {
	return f.cards.Enroll(ctx, programID, customer)
}

func (f *StampFacade) Card(ctx context.Context, cardID int64) (*model.Card, error) {
	return f.cards.Get(ctx, cardID)
}

func (f *StampFacade) ProgramCards(ctx context.Context, programID int64) ([]model.Card, error) {
	return f.cards.ListByProgram(ctx, programID)
}

// OpenBatch starts an interactive stamp session over the card's current
// state and returns its session ID alongside the fresh batch.
func (f *StampFacade) OpenBatch(ctx context.Context, cardID int64) (string, usecase.PendingBatch, error) {
	card, err := f.cards.Get(ctx, cardID)
	if err != nil {
		return "", usecase.PendingBatch{}, err
	}
	batch := usecase.OpenBatch(card)
	return f.sessions.Open(batch), batch, nil
}

// TapBatch applies one tap to a live session. Ignored taps do not produce
// feedback events.
func (f *StampFacade) TapBatch(sessionID string, index int) (usecase.PendingBatch, usecase.TapOutcome, error) {
	batch, ok := f.sessions.Get(sessionID)
	if !ok {
		return usecase.PendingBatch{}, usecase.TapIgnored, domainErrors.ErrNotFound
	}

	next, outcome := batch.Tap(index)
	if outcome == usecase.TapIgnored {
		return batch, outcome, nil
	}
	if !f.sessions.Put(sessionID, next) {
		return usecase.PendingBatch{}, usecase.TapIgnored, domainErrors.ErrNotFound
	}

	switch outcome {
	case usecase.TapAdded:
		f.emit(model.FeedbackStampAdded, next.CardID, next.BaseStamps+next.PendingDelta)
	case usecase.TapUndone:
		f.emit(model.FeedbackStampUndone, next.CardID, next.BaseStamps+next.PendingDelta)
	}
	return next, outcome, nil
}

// CancelBatch discards a session with no persisted effect.
func (f *StampFacade) CancelBatch(sessionID string) {
	f.sessions.Delete(sessionID)
}

// CommitBatch finalizes a session into one atomic stamp grant. The session
// ID doubles as the commit ID, so an HTTP retry of the same commit call
// replays instead of double-applying. The session is discarded on success;
// on failure it survives so the operator can retry or cancel explicitly.
func (f *StampFacade) CommitBatch(ctx context.Context, sessionID string) (*model.Card, error) {
	batch, ok := f.sessions.Get(sessionID)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	req, ok := batch.CommitRequest()
	if !ok {
		return nil, domainErrors.ErrEmptyCommit
	}
	req.CommitID = sessionID

	card, err := f.commits.Apply(ctx, req)
	if err != nil {
		return nil, err
	}

	f.sessions.Delete(sessionID)
	f.emit(model.FeedbackCommitConfirmed, card.ID, card.CurrentStamps)
	return card, nil
}

// GrantStamps applies a direct delta outside the interactive flow. Clients
// supply their own commit ID to make retries replay-safe.
func (f *StampFacade) GrantStamps(ctx context.Context, cardID int64, delta int, commitID string) (*model.Card, error) {
	card, err := f.commits.Apply(ctx, usecase.CommitRequest{CardID: cardID, Delta: delta, CommitID: commitID})
	if err != nil {
		return nil, err
	}
	f.emit(model.FeedbackCommitConfirmed, card.ID, card.CurrentStamps)
	return card, nil
}

// ClaimReward redeems a completed card.
func (f *StampFacade) ClaimReward(ctx context.Context, cardID int64, expectedStamps int, attemptID string) (*model.Card, error) {
	attempt := usecase.RedemptionAttempt{CardID: cardID, ExpectedStamps: expectedStamps, AttemptID: attemptID}
	card, err := f.redemptions.Claim(ctx, attempt)
	if err != nil {
		return nil, err
	}
	f.emit(model.FeedbackRewardRedeemed, card.ID, card.CurrentStamps)
	return card, nil
}

// ResetCycle starts the next progression cycle of a redeemed card.
func (f *StampFacade) ResetCycle(ctx context.Context, cardID int64) (*model.Card, error) {
	card, err := f.redemptions.StartNewCycle(ctx, cardID)
	if err != nil {
		return nil, err
	}
	f.emit(model.FeedbackCycleReset, card.ID, card.CurrentStamps)
	return card, nil
}

func (f *StampFacade) Redemptions(ctx context.Context, cardID int64) ([]model.Redemption, error) {
	return f.redemptions.History(ctx, cardID)
}

func (f *StampFacade) emit(kind model.FeedbackKind, cardID int64, stamps int) {
	if f.feedback == nil {
		return
	}
	f.feedback.Publish(model.FeedbackEvent{
		Kind:       kind,
		CardID:     cardID,
		Stamps:     stamps,
		OccurredAt: time.Now(),
	})
}
