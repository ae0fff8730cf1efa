package model

import "time"

// Program is a loyalty card template owned by a business operator.
// TotalSlots applies to every card enrolled into the program.
type Program struct {
	ID         int64
	OwnerID    int64
	Name       string
	Reward     string
	TotalSlots int
	CreatedAt  time.Time
}
