package draft

import "time"

// Pick records a player taken off the board during a live draft.
type Pick struct {
	PlayerName string
	PickedAt   time.Time
}
