package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/usecase"
)

// ProgramFacadeStub provides controllable behaviour for program endpoints.
type ProgramFacadeStub struct {
	CreateFn   func(context.Context, int64, string, string, int) (*model.Program, error)
	ProgramsFn func(context.Context, int64) ([]model.Program, error)
}

// CreateProgram delegates to provided function or returns a default program.
func (s ProgramFacadeStub) CreateProgram(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, ownerID, name, reward, totalSlots)
	}
	return &model.Program{ID: 1, OwnerID: ownerID, Name: name, Reward: reward, TotalSlots: totalSlots}, nil
}

// Programs returns predefined programs for given owner.
func (s ProgramFacadeStub) Programs(ctx context.Context, ownerID int64) ([]model.Program, error) {
	if s.ProgramsFn != nil {
		return s.ProgramsFn(ctx, ownerID)
	}
	return []model.Program{{ID: 1, OwnerID: ownerID, Name: "coffee", TotalSlots: 10}}, nil
}

// CardFacadeStub simulates card operations.
type CardFacadeStub struct {
	EnrollFn       func(context.Context, int64, string) (*model.Card, error)
	CardFn         func(context.Context, int64) (*model.Card, error)
	ProgramCardsFn func(context.Context, int64) ([]model.Card, error)
}

// EnrollCard returns configured or default card.
func (s CardFacadeStub) EnrollCard(ctx context.Context, programID int64, customer string) (*model.Card, error) {
	if s.EnrollFn != nil {
		return s.EnrollFn(ctx, programID, customer)
	}
	return &model.Card{ID: 1, ProgramID: programID, Customer: customer, TotalSlots: 10, Version: 1}, nil
}

// Card returns configured or default card.
func (s CardFacadeStub) Card(ctx context.Context, cardID int64) (*model.Card, error) {
	if s.CardFn != nil {
		return s.CardFn(ctx, cardID)
	}
	return &model.Card{ID: cardID, ProgramID: 1, TotalSlots: 10, Version: 1}, nil
}

// ProgramCards returns preconfigured cards.
func (s CardFacadeStub) ProgramCards(ctx context.Context, programID int64) ([]model.Card, error) {
	if s.ProgramCardsFn != nil {
		return s.ProgramCardsFn(ctx, programID)
	}
	return []model.Card{{ID: 1, ProgramID: programID, TotalSlots: 10}}, nil
}

// BatchFacadeStub simulates the interactive stamp flow.
type BatchFacadeStub struct {
	OpenFn   func(context.Context, int64) (string, usecase.PendingBatch, error)
	TapFn    func(string, int) (usecase.PendingBatch, usecase.TapOutcome, error)
	CancelFn func(string)
	CommitFn func(context.Context, string) (*model.Card, error)
	GrantFn  func(context.Context, int64, int, string) (*model.Card, error)

	Cancelled []string
}

// OpenBatch starts a stub session.
func (s *BatchFacadeStub) OpenBatch(ctx context.Context, cardID int64) (string, usecase.PendingBatch, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, cardID)
	}
	return "session", usecase.PendingBatch{CardID: cardID, TotalSlots: 10}, nil
}

// TapBatch applies a stub tap.
func (s *BatchFacadeStub) TapBatch(sessionID string, index int) (usecase.PendingBatch, usecase.TapOutcome, error) {
	if s.TapFn != nil {
		return s.TapFn(sessionID, index)
	}
	return usecase.PendingBatch{TotalSlots: 10, PendingDelta: 1}, usecase.TapAdded, nil
}

// CancelBatch records cancelled sessions.
func (s *BatchFacadeStub) CancelBatch(sessionID string) {
	if s.CancelFn != nil {
		s.CancelFn(sessionID)
		return
	}
	s.Cancelled = append(s.Cancelled, sessionID)
}

// CommitBatch returns configured result or a default card.
func (s *BatchFacadeStub) CommitBatch(ctx context.Context, sessionID string) (*model.Card, error) {
	if s.CommitFn != nil {
		return s.CommitFn(ctx, sessionID)
	}
	return &model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 1, Version: 2}, nil
}

// GrantStamps returns configured result or a default card.
func (s *BatchFacadeStub) GrantStamps(ctx context.Context, cardID int64, delta int, commitID string) (*model.Card, error) {
	if s.GrantFn != nil {
		return s.GrantFn(ctx, cardID, delta, commitID)
	}
	return &model.Card{ID: cardID, TotalSlots: 10, CurrentStamps: delta, Version: 2}, nil
}

// RedemptionFacadeStub simulates claim and cycle operations.
type RedemptionFacadeStub struct {
	ClaimFn       func(context.Context, int64, int, string) (*model.Card, error)
	ResetFn       func(context.Context, int64) (*model.Card, error)
	RedemptionsFn func(context.Context, int64) ([]model.Redemption, error)
}

// ClaimReward returns configured result or a redeemed card.
func (s RedemptionFacadeStub) ClaimReward(ctx context.Context, cardID int64, expectedStamps int, attemptID string) (*model.Card, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, cardID, expectedStamps, attemptID)
	}
	return &model.Card{ID: cardID, TotalSlots: 10, CurrentStamps: 10, RewardClaimed: true, Version: 2}, nil
}

// ResetCycle returns configured result or a fresh-cycle card.
func (s RedemptionFacadeStub) ResetCycle(ctx context.Context, cardID int64) (*model.Card, error) {
	if s.ResetFn != nil {
		return s.ResetFn(ctx, cardID)
	}
	return &model.Card{ID: cardID, TotalSlots: 10, Redemptions: 1, Version: 3}, nil
}

// Redemptions returns preconfigured history.
func (s RedemptionFacadeStub) Redemptions(ctx context.Context, cardID int64) ([]model.Redemption, error) {
	if s.RedemptionsFn != nil {
		return s.RedemptionsFn(ctx, cardID)
	}
	return []model.Redemption{{ID: 1, CardID: cardID, Cycle: 1, Stamps: 10, RedeemedAt: time.Unix(0, 0)}}, nil
}

// StampFacadeStub aggregates facade dependencies for HTTP layer tests.
type StampFacadeStub struct {
	AuthFacadeStub
	ProgramFacadeStub
	CardFacadeStub
	BatchFacadeStub
	RedemptionFacadeStub
}

// FeedbackPublisherStub records published events for assertions.
type FeedbackPublisherStub struct {
	mu     sync.Mutex
	Events []model.FeedbackEvent
}

// Publish appends the event to the recorded list.
func (s *FeedbackPublisherStub) Publish(event model.FeedbackEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Published returns a copy of recorded events.
func (s *FeedbackPublisherStub) Published() []model.FeedbackEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.FeedbackEvent(nil), s.Events...)
}
