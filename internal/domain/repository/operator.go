package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// OperatorRepository persists business operator accounts.
type OperatorRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Operator, error)
	GetByLogin(ctx context.Context, login string) (*model.Operator, error)
	GetByID(ctx context.Context, id int64) (*model.Operator, error)
}
