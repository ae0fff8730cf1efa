package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// ProgramRepository persists loyalty card templates.
type ProgramRepository interface {
	Create(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error)
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Program, error)
}
