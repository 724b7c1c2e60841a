package hub

import (
	"errors"
	"fmt"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
)

var (
	// ErrMissingToken means no credential was supplied on the handshake.
	ErrMissingToken = errors.New("authentication error: no token provided")
	// ErrInvalidToken means signature, expiry, or claim checks failed.
	ErrInvalidToken = errors.New("authentication error: invalid token")

	// ErrOrderNotFound means the referenced order is not in the registry.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnknownStatus means the requested status is not part of the lifecycle.
	ErrUnknownStatus = errors.New("unknown order status")
)

// InvalidTransitionError rejects a status change the lifecycle does not allow.
// The registry validates transitions instead of mirroring the permissive
// behavior of earlier versions; the rejection reaches only the caller.
type InvalidTransitionError struct {
	From orders.OrderStatus
	To   orders.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot change status from '%s' to '%s'", e.From, e.To)
}
