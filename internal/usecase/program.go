package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// maxTotalSlots bounds card templates; a grid larger than this is a typo,
// not a loyalty program.
const maxTotalSlots = 100

// ProgramUseCase manages loyalty card templates.
type ProgramUseCase struct {
	programs repository.ProgramRepository
}

// NewProgramUseCase constructs ProgramUseCase.
func NewProgramUseCase(programs repository.ProgramRepository) *ProgramUseCase {
	return &ProgramUseCase{programs: programs}
}

// Create registers a new program. TotalSlots is fixed for the program's
// lifetime; cards copy it at enrollment.
func (u *ProgramUseCase) Create(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainErrors.ErrInvalidName
	}
	if totalSlots <= 0 || totalSlots > maxTotalSlots {
		return nil, domainErrors.ErrInvalidSlots
	}

	return u.programs.Create(ctx, ownerID, name, strings.TrimSpace(reward), totalSlots)
}

// Get fetches one program.
func (u *ProgramUseCase) Get(ctx context.Context, programID int64) (*model.Program, error) {
	return u.programs.GetByID(ctx, programID)
}

// ListByOwner returns programs owned by an operator.
func (u *ProgramUseCase) ListByOwner(ctx context.Context, ownerID int64) ([]model.Program, error) {
	return u.programs.ListByOwner(ctx, ownerID)
}
