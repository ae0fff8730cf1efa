package model

import "time"

// Redemption is the archived record of one completed progression cycle.
type Redemption struct {
	ID         int64
	CardID     int64
	Cycle      int
	Stamps     int
	AttemptID  string
	RedeemedAt time.Time
}
