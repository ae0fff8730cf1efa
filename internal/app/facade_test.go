package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/session"
	testhelpers "github.com/polkiloo/stampcard/internal/test"
	"github.com/polkiloo/stampcard/internal/usecase"
)

type facadeFixture struct {
	facade      *StampFacade
	cards       *testhelpers.CardRepositoryStub
	redemptions *testhelpers.RedemptionRepositoryStub
	sessions    *session.Store
	feedback    *testhelpers.FeedbackPublisherStub
}

func newFacadeFixture(t *testing.T, seed ...*model.Card) *facadeFixture {
	t.Helper()

	operators := testhelpers.NewOperatorRepositoryStub()
	programs := &testhelpers.ProgramRepositoryStub{Programs: []model.Program{{ID: 1, OwnerID: 1, Name: "coffee", TotalSlots: 10}}}
	cards := testhelpers.NewCardRepositoryStub(seed...)
	redemptions := &testhelpers.RedemptionRepositoryStub{}
	sessions := session.NewStore(time.Minute)
	feedback := &testhelpers.FeedbackPublisherStub{}

	facade := NewStampFacade(
		usecase.NewAuthUseCase(operators, testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		usecase.NewProgramUseCase(programs),
		usecase.NewCardUseCase(cards, programs),
		usecase.NewCommitUseCase(cards, time.Second),
		usecase.NewRedemptionUseCase(cards, redemptions, time.Second),
		sessions,
		feedback,
	)

	return &facadeFixture{
		facade:      facade,
		cards:       cards,
		redemptions: redemptions,
		sessions:    sessions,
		feedback:    feedback,
	}
}

func TestFacadeBatchFlow(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})

	sessionID, batch, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.BaseStamps != 4 || batch.Frontier() != 4 {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	for _, idx := range []int{4, 5, 6} {
		if _, outcome, err := fx.facade.TapBatch(sessionID, idx); err != nil || outcome != usecase.TapAdded {
			t.Fatalf("tap %d: outcome %v err %v", idx, outcome, err)
		}
	}

	card, err := fx.facade.CommitBatch(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.CurrentStamps != 7 {
		t.Fatalf("expected 7 stamps, got %d", card.CurrentStamps)
	}
	if card.LastCommitID != sessionID {
		t.Fatalf("expected session id as commit id, got %q", card.LastCommitID)
	}
	if fx.sessions.Len() != 0 {
		t.Fatal("expected session discarded after commit")
	}

	events := fx.feedback.Published()
	if len(events) != 4 {
		t.Fatalf("expected 3 tap events and 1 commit event, got %d", len(events))
	}
	if events[len(events)-1].Kind != model.FeedbackCommitConfirmed {
		t.Fatalf("expected commit confirmation last, got %q", events[len(events)-1].Kind)
	}
}

func TestFacadeCommitBatchRetryReplays(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})

	sessionID, _, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := fx.facade.TapBatch(sessionID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := fx.facade.CommitBatch(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An HTTP retry of the same commit hits a deleted session: the client
	// gets not-found rather than a second application of the delta.
	if _, err := fx.facade.CommitBatch(context.Background(), sessionID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on retry, got %v", err)
	}

	stored, _ := fx.cards.GetByID(context.Background(), 1)
	if stored.CurrentStamps != first.CurrentStamps {
		t.Fatalf("retry changed stamps: %d vs %d", stored.CurrentStamps, first.CurrentStamps)
	}
}

func TestFacadeCommitBatchEmptySession(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})

	sessionID, _, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := fx.facade.CommitBatch(context.Background(), sessionID); !errors.Is(err, domainErrors.ErrEmptyCommit) {
		t.Fatalf("expected ErrEmptyCommit, got %v", err)
	}
	if fx.sessions.Len() != 1 {
		t.Fatal("expected session kept after failed commit")
	}
}

func TestFacadeCommitBatchFailureKeepsSession(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 9, Version: 3})

	sessionID, _, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := fx.facade.TapBatch(sessionID, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another terminal commits first; our batch now exceeds capacity.
	if _, err := fx.facade.GrantStamps(context.Background(), 1, 1, "race-commit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := fx.facade.CommitBatch(context.Background(), sessionID); !errors.Is(err, domainErrors.ErrOverCapacity) {
		t.Fatalf("expected ErrOverCapacity, got %v", err)
	}
	if fx.sessions.Len() != 1 {
		t.Fatal("expected session kept so the operator can cancel or retry")
	}
}

func TestFacadeTapIgnoredProducesNoFeedback(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})

	sessionID, _, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, outcome, err := fx.facade.TapBatch(sessionID, 9); err != nil || outcome != usecase.TapIgnored {
		t.Fatalf("expected ignored tap, got %v err %v", outcome, err)
	}
	if events := fx.feedback.Published(); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestFacadeTapUnknownSession(t *testing.T) {
	fx := newFacadeFixture(t)
	if _, _, err := fx.facade.TapBatch("missing", 0); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFacadeCancelBatch(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 4, Version: 3})

	sessionID, _, err := fx.facade.OpenBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := fx.facade.TapBatch(sessionID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fx.facade.CancelBatch(sessionID)
	if fx.sessions.Len() != 0 {
		t.Fatal("expected session removed")
	}

	stored, _ := fx.cards.GetByID(context.Background(), 1)
	if stored.CurrentStamps != 4 || stored.Version != 3 {
		t.Fatalf("cancel must not persist anything, got %+v", stored)
	}
}

func TestFacadeClaimAndReset(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 10, Version: 5})

	card, err := fx.facade.ClaimReward(context.Background(), 1, 10, "attempt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !card.RewardClaimed {
		t.Fatal("expected claimed card")
	}

	card, err = fx.facade.ResetCycle(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.CurrentStamps != 0 || card.RewardClaimed || card.Redemptions != 1 {
		t.Fatalf("unexpected card after reset: %+v", card)
	}

	history, err := fx.facade.Redemptions(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Stamps != 10 {
		t.Fatalf("unexpected history: %+v", history)
	}

	kinds := []model.FeedbackKind{}
	for _, e := range fx.feedback.Published() {
		kinds = append(kinds, e.Kind)
	}
	if len(kinds) != 2 || kinds[0] != model.FeedbackRewardRedeemed || kinds[1] != model.FeedbackCycleReset {
		t.Fatalf("unexpected feedback: %+v", kinds)
	}
}

func TestFacadeGrantStamps(t *testing.T) {
	fx := newFacadeFixture(t, &model.Card{ID: 1, ProgramID: 1, TotalSlots: 10, CurrentStamps: 0, Version: 1})

	card, err := fx.facade.GrantStamps(context.Background(), 1, 3, "grant-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.CurrentStamps != 3 {
		t.Fatalf("expected 3 stamps, got %d", card.CurrentStamps)
	}

	// Same commit ID replays without another event-worthy change.
	again, err := fx.facade.GrantStamps(context.Background(), 1, 3, "grant-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.CurrentStamps != 3 || again.Version != card.Version {
		t.Fatalf("replay changed card: %+v", again)
	}
}

func TestFacadeRegisterAndAuthenticate(t *testing.T) {
	fx := newFacadeFixture(t)

	token, err := fx.facade.Register(context.Background(), "barista", "secret")
	if err != nil || token == "" {
		t.Fatalf("unexpected result: %q %v", token, err)
	}

	token, err = fx.facade.Authenticate(context.Background(), "barista", "secret")
	if err != nil || token == "" {
		t.Fatalf("unexpected result: %q %v", token, err)
	}

	if _, err := fx.facade.Authenticate(context.Background(), "barista", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestFacadeProgramsAndCards(t *testing.T) {
	fx := newFacadeFixture(t)

	program, err := fx.facade.CreateProgram(context.Background(), 1, "bakery", "free roll", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card, err := fx.facade.EnrollCard(context.Background(), program.ID, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.TotalSlots != 8 {
		t.Fatalf("expected slots copied from program, got %d", card.TotalSlots)
	}

	cards, err := fx.facade.ProgramCards(context.Background(), program.ID)
	if err != nil || len(cards) != 1 {
		t.Fatalf("unexpected cards: %+v %v", cards, err)
	}
}
