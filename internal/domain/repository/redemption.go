package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// RedemptionRepository archives completed progression cycles.
type RedemptionRepository interface {
	Create(ctx context.Context, cardID int64, cycle, stamps int, attemptID string) (*model.Redemption, error)
	ListByCard(ctx context.Context, cardID int64) ([]model.Redemption, error)
}
