package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
)

// OperatorRepositoryStub stores operators in-memory for tests.
type OperatorRepositoryStub struct {
	Operators map[string]*model.Operator
	ByID      map[int64]*model.Operator
	Next      int64
	Err       error
}

// NewOperatorRepositoryStub constructs stub repository with initialized maps.
func NewOperatorRepositoryStub() *OperatorRepositoryStub {
	return &OperatorRepositoryStub{
		Operators: make(map[string]*model.Operator),
		ByID:      make(map[int64]*model.Operator),
		Next:      1,
	}
}

// Create registers operator unless already exists or stub has explicit error.
func (s *OperatorRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Operator, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Operators == nil {
		s.Operators = make(map[string]*model.Operator)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Operator)
	}
	if _, exists := s.Operators[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	operator := &model.Operator{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Operators[login] = operator
	s.ByID[operator.ID] = operator
	return operator, nil
}

// GetByLogin fetches operator by login or returns not found.
func (s *OperatorRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Operator, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if operator, ok := s.Operators[login]; ok {
		return operator, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches operator by identifier or returns not found.
func (s *OperatorRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Operator, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if operator, ok := s.ByID[id]; ok {
		return operator, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProgramRepositoryStub allows tests to customize behaviour.
type ProgramRepositoryStub struct {
	CreateFn      func(context.Context, int64, string, string, int) (*model.Program, error)
	GetByIDFn     func(context.Context, int64) (*model.Program, error)
	ListByOwnerFn func(context.Context, int64) ([]model.Program, error)

	Programs []model.Program
}

// Create returns configured response or a sequential program.
func (s *ProgramRepositoryStub) Create(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, ownerID, name, reward, totalSlots)
	}
	program := model.Program{
		ID:         int64(len(s.Programs) + 1),
		OwnerID:    ownerID,
		Name:       name,
		Reward:     reward,
		TotalSlots: totalSlots,
		CreatedAt:  time.Now(),
	}
	s.Programs = append(s.Programs, program)
	return &program, nil
}

// GetByID returns matched program either via override or stored slice.
func (s *ProgramRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, p := range s.Programs {
		if p.ID == id {
			program := p
			return &program, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByOwner returns programs from configured slice.
func (s *ProgramRepositoryStub) ListByOwner(ctx context.Context, ownerID int64) ([]model.Program, error) {
	if s.ListByOwnerFn != nil {
		return s.ListByOwnerFn(ctx, ownerID)
	}
	var out []model.Program
	for _, p := range s.Programs {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CardRepositoryStub keeps cards in-memory and enforces the conditional
// write contract, so optimistic concurrency paths are testable without a
// database.
type CardRepositoryStub struct {
	CreateFn         func(context.Context, *model.Program, string) (*model.Card, error)
	GetByIDFn        func(context.Context, int64) (*model.Card, error)
	ListByProgramFn  func(context.Context, int64) ([]model.Card, error)
	UpdateProgressFn func(context.Context, *model.Card, int64) (*model.Card, error)

	mu      sync.Mutex
	Cards   map[int64]*model.Card
	Next    int64
	Updates int
}

// NewCardRepositoryStub constructs the stub with initialized storage.
func NewCardRepositoryStub(cards ...*model.Card) *CardRepositoryStub {
	stub := &CardRepositoryStub{Cards: make(map[int64]*model.Card), Next: 1}
	for _, card := range cards {
		stub.Cards[card.ID] = card
		if card.ID >= stub.Next {
			stub.Next = card.ID + 1
		}
	}
	return stub
}

// Create enrolls a card into the provided program.
func (s *CardRepositoryStub) Create(ctx context.Context, program *model.Program, customer string) (*model.Card, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, program, customer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Cards {
		if c.ProgramID == program.ID && c.Customer == customer {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	card := &model.Card{
		ID:         s.Next,
		ProgramID:  program.ID,
		Customer:   customer,
		TotalSlots: program.TotalSlots,
		Version:    1,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	s.Next++
	s.Cards[card.ID] = card
	return copyCard(card), nil
}

// GetByID returns a copy of the stored card or not found.
func (s *CardRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Card, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.Cards[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return copyCard(card), nil
}

// ListByProgram returns cards enrolled into the program.
func (s *CardRepositoryStub) ListByProgram(ctx context.Context, programID int64) ([]model.Card, error) {
	if s.ListByProgramFn != nil {
		return s.ListByProgramFn(ctx, programID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Card
	for _, c := range s.Cards {
		if c.ProgramID == programID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// UpdateProgress performs the conditional write: the stored version must
// match expectedVersion or the update is rejected with a conflict.
func (s *CardRepositoryStub) UpdateProgress(ctx context.Context, card *model.Card, expectedVersion int64) (*model.Card, error) {
	if s.UpdateProgressFn != nil {
		return s.UpdateProgressFn(ctx, card, expectedVersion)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.Cards[card.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return nil, domainErrors.ErrVersionConflict
	}
	next := *card
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now()
	s.Cards[card.ID] = &next
	s.Updates++
	return copyCard(&next), nil
}

func copyCard(card *model.Card) *model.Card {
	out := *card
	return &out
}

// RedemptionRepositoryStub archives redemptions in-memory.
type RedemptionRepositoryStub struct {
	CreateFn     func(context.Context, int64, int, int, string) (*model.Redemption, error)
	ListByCardFn func(context.Context, int64) ([]model.Redemption, error)

	mu    sync.Mutex
	Items []model.Redemption
}

// Create archives one cycle; a repeated attempt ID returns the stored row.
func (s *RedemptionRepositoryStub) Create(ctx context.Context, cardID int64, cycle, stamps int, attemptID string) (*model.Redemption, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, cardID, cycle, stamps, attemptID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Items {
		if r.AttemptID == attemptID {
			row := r
			return &row, nil
		}
	}
	row := model.Redemption{
		ID:         int64(len(s.Items) + 1),
		CardID:     cardID,
		Cycle:      cycle,
		Stamps:     stamps,
		AttemptID:  attemptID,
		RedeemedAt: time.Now(),
	}
	s.Items = append(s.Items, row)
	return &row, nil
}

// ListByCard returns archived cycles for the card.
func (s *RedemptionRepositoryStub) ListByCard(ctx context.Context, cardID int64) ([]model.Redemption, error) {
	if s.ListByCardFn != nil {
		return s.ListByCardFn(ctx, cardID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Redemption
	for _, r := range s.Items {
		if r.CardID == cardID {
			out = append(out, r)
		}
	}
	return out, nil
}
