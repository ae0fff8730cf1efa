package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// CardRepository persists customer cards. UpdateProgress is the single
// mutating path; it must perform an atomic conditional write keyed on
// expectedVersion and return domain ErrVersionConflict when the stored
// version moved.
type CardRepository interface {
	Create(ctx context.Context, program *model.Program, customer string) (*model.Card, error)
	GetByID(ctx context.Context, id int64) (*model.Card, error)
	ListByProgram(ctx context.Context, programID int64) ([]model.Card, error)
	UpdateProgress(ctx context.Context, card *model.Card, expectedVersion int64) (*model.Card, error)
}
