package ports

import (
	"context"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
)

// Role values carried by verified credentials.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity is the subject extracted from a verified credential.
type Identity struct {
	UserID string
	Role   string
	Email  string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// CredentialVerifier validates an inbound connection's signed credential.
// It must run before any other connection-scoped operation.
type CredentialVerifier interface {
	Verify(raw string) (Identity, error)
}

// EventSender delivers one named event to one session. Implemented by the
// websocket transport; delivery is best-effort and must never block the caller.
type EventSender interface {
	Send(sessionID string, event string, data any)
}

// UpdatePublisher hands notification messages to the external dispatch
// collaborator (AMQP fanout). Failures are the caller's to log and swallow.
type UpdatePublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderArchive persists registry snapshots durably on its own schedule.
type OrderArchive interface {
	SaveOrder(ctx context.Context, order *orders.Order) error
}

// TrackingHub is the collaborator interface exposed to the order-placement
// HTTP layer. It hides room internals from the HTTP glue.
type TrackingHub interface {
	RegisterOrder(ctx context.Context, order *orders.Order) int64
	NotifyAdmins(ctx context.Context, orderID int64)
	OrdersOf(ctx context.Context, userID string) []*orders.Order
	BroadcastSystemNotification(ctx context.Context, message, notificationType string)
}
