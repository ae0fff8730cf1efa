package usecase

import (
	"github.com/google/uuid"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// TapOutcome tells the feedback layer what a tap did.
type TapOutcome int

const (
	TapIgnored TapOutcome = iota
	TapAdded
	TapUndone
)

func (o TapOutcome) String() string {
	switch o {
	case TapAdded:
		return "added"
	case TapUndone:
		return "undone"
	default:
		return "ignored"
	}
}

// PendingBatch accumulates a stamp delta built through taps before a single
// commit. It is a plain value: operations return the updated batch and never
// touch storage, so the whole tap flow stays local and discardable.
type PendingBatch struct {
	CardID       int64
	TotalSlots   int
	BaseStamps   int
	PendingDelta int
}

// OpenBatch starts a batch over the card's confirmed stamp count.
func OpenBatch(card *model.Card) PendingBatch {
	return PendingBatch{
		CardID:     card.ID,
		TotalSlots: card.TotalSlots,
		BaseStamps: card.CurrentStamps,
	}
}

// Frontier is the index of the single next slot eligible for a tap.
func (b PendingBatch) Frontier() int {
	return b.BaseStamps + b.PendingDelta
}

// Tap applies one tap on slot index. Slots fill strictly in order: only the
// frontier slot can be added and only the most recent pending slot can be
// undone. Every other index is ignored rather than rejected, so a fast tap
// stream never errors.
func (b PendingBatch) Tap(index int) (PendingBatch, TapOutcome) {
	switch {
	case index < b.BaseStamps:
		// Committed history is immutable.
		return b, TapIgnored
	case b.PendingDelta > 0 && index == b.Frontier()-1:
		b.PendingDelta--
		return b, TapUndone
	case index == b.Frontier() && index < b.TotalSlots:
		b.PendingDelta++
		return b, TapAdded
	default:
		return b, TapIgnored
	}
}

// CommitRequest is the atomic unit handed to the commit coordinator.
// CommitID makes retries of the same request replay-safe.
type CommitRequest struct {
	CardID   int64
	Delta    int
	CommitID string
}

// CommitRequest finalizes the batch into a request, or reports false when
// there is nothing to commit. The returned request carries a fresh commit ID;
// callers retry with the same request, never a regenerated one.
func (b PendingBatch) CommitRequest() (CommitRequest, bool) {
	if b.PendingDelta <= 0 {
		return CommitRequest{}, false
	}
	return CommitRequest{
		CardID:   b.CardID,
		Delta:    b.PendingDelta,
		CommitID: uuid.NewString(),
	}, true
}
