package model

import "time"

// FeedbackKind labels discrete notifications for the haptic/push layer.
type FeedbackKind string

const (
	FeedbackStampAdded      FeedbackKind = "added"
	FeedbackStampUndone     FeedbackKind = "undone"
	FeedbackCommitConfirmed FeedbackKind = "confirmed"
	FeedbackRewardRedeemed  FeedbackKind = "redeemed"
	FeedbackCycleReset      FeedbackKind = "cycle_reset"
)

// FeedbackEvent is a pure notification; nothing in the core consumes a reply.
type FeedbackEvent struct {
	Kind       FeedbackKind
	CardID     int64
	Stamps     int
	OccurredAt time.Time
}
