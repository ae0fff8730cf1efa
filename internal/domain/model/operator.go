package model

import "time"

// Operator is a business staff account that grants stamps and redeems rewards.
type Operator struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
