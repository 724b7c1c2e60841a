package orders

import (
	"time"
)

// StatusLog is one append-only entry of an order's status history.
type StatusLog struct {
	Status    OrderStatus
	ChangedAt time.Time
	ChangedBy string // actor identity (email)
	Notes     *string
}
