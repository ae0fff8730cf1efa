package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewProgramUseCase,
	NewCardUseCase,
	newCommitUseCase,
	newRedemptionUseCase,
)

func newCommitUseCase(cards repository.CardRepository, cfg *config.Config) *CommitUseCase {
	return NewCommitUseCase(cards, cfg.CommitTimeout)
}

func newRedemptionUseCase(cards repository.CardRepository, redemptions repository.RedemptionRepository, cfg *config.Config) *RedemptionUseCase {
	return NewRedemptionUseCase(cards, redemptions, cfg.CommitTimeout)
}
