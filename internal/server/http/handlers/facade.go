package handlers

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// ProgramFacade encapsulates loyalty program management.
type ProgramFacade interface {
	CreateProgram(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error)
	Programs(ctx context.Context, ownerID int64) ([]model.Program, error)
}

// CardFacade encapsulates card enrollment and lookup.
type CardFacade interface {
	EnrollCard(ctx context.Context, programID int64, customer string) (*model.Card, error)
	Card(ctx context.Context, cardID int64) (*model.Card, error)
	ProgramCards(ctx context.Context, programID int64) ([]model.Card, error)
}

// BatchFacade drives the interactive stamp flow and direct grants.
type BatchFacade interface {
	OpenBatch(ctx context.Context, cardID int64) (string, usecase.PendingBatch, error)
	TapBatch(sessionID string, index int) (usecase.PendingBatch, usecase.TapOutcome, error)
	CancelBatch(sessionID string)
	CommitBatch(ctx context.Context, sessionID string) (*model.Card, error)
	GrantStamps(ctx context.Context, cardID int64, delta int, commitID string) (*model.Card, error)
}

// RedemptionFacade covers reward claims and cycle management.
type RedemptionFacade interface {
	ClaimReward(ctx context.Context, cardID int64, expectedStamps int, attemptID string) (*model.Card, error)
	ResetCycle(ctx context.Context, cardID int64) (*model.Card, error)
	Redemptions(ctx context.Context, cardID int64) ([]model.Redemption, error)
}

// StampFacade aggregates the full set of operations used across handlers.
type StampFacade interface {
	AuthFacade
	ProgramFacade
	CardFacade
	BatchFacade
	RedemptionFacade
}
