package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// CardUseCase manages card enrollment and reads.
type CardUseCase struct {
	cards    repository.CardRepository
	programs repository.ProgramRepository
}

// NewCardUseCase constructs CardUseCase.
func NewCardUseCase(cards repository.CardRepository, programs repository.ProgramRepository) *CardUseCase {
	return &CardUseCase{cards: cards, programs: programs}
}

// Enroll creates a fresh card for a customer on the given program.
func (u *CardUseCase) Enroll(ctx context.Context, programID int64, customer string) (*model.Card, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, domainErrors.ErrInvalidName
	}

	program, err := u.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	return u.cards.Create(ctx, program, customer)
}

// Get fetches one card.
func (u *CardUseCase) Get(ctx context.Context, cardID int64) (*model.Card, error) {
	return u.cards.GetByID(ctx, cardID)
}

// ListByProgram returns all cards enrolled in a program.
func (u *CardUseCase) ListByProgram(ctx context.Context, programID int64) ([]model.Card, error) {
	return u.cards.ListByProgram(ctx, programID)
}
