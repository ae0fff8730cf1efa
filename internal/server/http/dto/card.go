package dto

import "time"

// EnrollRequest describes card enrollment payload.
type EnrollRequest struct {
	ProgramID int64  `json:"program_id"`
	Customer  string `json:"customer"`
}

// CardResponse describes a customer's card with its derived state.
type CardResponse struct {
	ID            int64     `json:"id"`
	ProgramID     int64     `json:"program_id"`
	Customer      string    `json:"customer"`
	TotalSlots    int       `json:"total_slots"`
	CurrentStamps int       `json:"current_stamps"`
	Remaining     int       `json:"remaining"`
	State         string    `json:"state"`
	Redemptions   int       `json:"redemptions"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
