package dto

import "time"

// BatchResponse describes an interactive stamp session.
type BatchResponse struct {
	SessionID    string `json:"session_id"`
	CardID       int64  `json:"card_id"`
	BaseStamps   int    `json:"base_stamps"`
	PendingDelta int    `json:"pending_delta"`
	Frontier     int    `json:"frontier"`
	TotalSlots   int    `json:"total_slots"`
}

// TapRequest carries the slot index the operator tapped.
type TapRequest struct {
	Index int `json:"index"`
}

// TapResponse reports the tap outcome and the updated session state.
type TapResponse struct {
	Outcome string        `json:"outcome"`
	Batch   BatchResponse `json:"batch"`
}

// GrantRequest describes a direct stamp grant outside the tap flow.
type GrantRequest struct {
	Delta    int    `json:"delta"`
	CommitID string `json:"commit_id"`
}

// ClaimRequest describes a reward redemption attempt.
type ClaimRequest struct {
	ExpectedStamps int    `json:"expected_stamps"`
	AttemptID      string `json:"attempt_id"`
}

// RedemptionResponse describes one archived progression cycle.
type RedemptionResponse struct {
	Cycle      int       `json:"cycle"`
	Stamps     int       `json:"stamps"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
