package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	testhelpers "github.com/polkiloo/stampcard/internal/test"
	. "github.com/polkiloo/stampcard/internal/usecase"
)

func TestCommitApply(t *testing.T) {
	cards := testhelpers.NewCardRepositoryStub(&model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})
	uc := NewCommitUseCase(cards, time.Second)

	card, err := uc.Apply(context.Background(), CommitRequest{CardID: 1, Delta: 3, CommitID: "c-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.CurrentStamps != 7 {
		t.Fatalf("expected 7 stamps, got %d", card.CurrentStamps)
	}
	if card.LastCommitID != "c-1" {
		t.Fatalf("expected commit id recorded, got %q", card.LastCommitID)
	}
	if card.Version != 4 {
		t.Fatalf("expected version bump, got %d", card.Version)
	}
}

func TestCommitApplyReplayReturnsStoredCard(t *testing.T) {
	cards := testhelpers.NewCardRepositoryStub(&model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})
	uc := NewCommitUseCase(cards, time.Second)

	req := CommitRequest{CardID: 1, Delta: 3, CommitID: "c-1"}
	first, err := uc.Apply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Retrying the identical request must not double-apply.
	second, err := uc.Apply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if second.CurrentStamps != first.CurrentStamps {
		t.Fatalf("replay changed stamps: %d vs %d", second.CurrentStamps, first.CurrentStamps)
	}
	if second.Version != first.Version {
		t.Fatalf("replay changed version: %d vs %d", second.Version, first.Version)
	}
	if cards.Updates != 1 {
		t.Fatalf("expected one write, got %d", cards.Updates)
	}
}

func TestCommitApplyRejectsEmptyCommit(t *testing.T) {
	uc := NewCommitUseCase(testhelpers.NewCardRepositoryStub(), time.Second)

	tests := []struct {
		name string
		req  CommitRequest
	}{
		{name: "zero delta", req: CommitRequest{CardID: 1, Delta: 0, CommitID: "c-1"}},
		{name: "negative delta", req: CommitRequest{CardID: 1, Delta: -2, CommitID: "c-1"}},
		{name: "missing commit id", req: CommitRequest{CardID: 1, Delta: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Apply(context.Background(), tt.req); !errors.Is(err, domainErrors.ErrEmptyCommit) {
				t.Fatalf("expected ErrEmptyCommit, got %v", err)
			}
		})
	}
}

func TestCommitApplyOverCapacity(t *testing.T) {
	cards := testhelpers.NewCardRepositoryStub(&model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 9, Version: 1})
	uc := NewCommitUseCase(cards, time.Second)

	if _, err := uc.Apply(context.Background(), CommitRequest{CardID: 1, Delta: 2, CommitID: "c-1"}); !errors.Is(err, domainErrors.ErrOverCapacity) {
		t.Fatalf("expected ErrOverCapacity, got %v", err)
	}
	if cards.Updates != 0 {
		t.Fatalf("expected no write, got %d", cards.Updates)
	}
}

func TestCommitApplyCardMissing(t *testing.T) {
	uc := NewCommitUseCase(testhelpers.NewCardRepositoryStub(), time.Second)
	if _, err := uc.Apply(context.Background(), CommitRequest{CardID: 99, Delta: 1, CommitID: "c-1"}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommitApplyVersionConflict(t *testing.T) {
	// Two coordinators read the same base version; the second write arrives
	// with a stale expected version and must lose instead of double-applying.
	cards := testhelpers.NewCardRepositoryStub(&model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})
	cards.GetByIDFn = func(context.Context, int64) (*model.Card, error) {
		return &model.Card{ID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3}, nil
	}
	uc := NewCommitUseCase(cards, time.Second)

	if _, err := uc.Apply(context.Background(), CommitRequest{CardID: 1, Delta: 2, CommitID: "c-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.Apply(context.Background(), CommitRequest{CardID: 1, Delta: 3, CommitID: "c-2"})
	if !errors.Is(err, domainErrors.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if cards.Updates != 1 {
		t.Fatalf("expected only the winner's write, got %d", cards.Updates)
	}
}

func TestCommitApplyTimeout(t *testing.T) {
	cards := testhelpers.NewCardRepositoryStub()
	cards.GetByIDFn = func(ctx context.Context, id int64) (*model.Card, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	uc := NewCommitUseCase(cards, 10*time.Millisecond)

	if _, err := uc.Apply(context.Background(), CommitRequest{CardID: 1, Delta: 1, CommitID: "c-1"}); !errors.Is(err, domainErrors.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
