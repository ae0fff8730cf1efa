package dto

import "time"

// ProgramRequest describes program creation payload.
type ProgramRequest struct {
	Name       string `json:"name"`
	Reward     string `json:"reward"`
	TotalSlots int    `json:"total_slots"`
}

// ProgramResponse describes a loyalty program.
type ProgramResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Reward     string    `json:"reward"`
	TotalSlots int       `json:"total_slots"`
	CreatedAt  time.Time `json:"created_at"`
}
