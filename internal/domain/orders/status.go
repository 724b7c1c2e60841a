package orders

// OrderStatus is a custom type that represents the current status of an order in its lifecycle.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// Allowed state transitions: the linear fulfilment chain, with cancellation
// reachable from any non-terminal state.
var allowed = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:        {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusReady: true, StatusCancelled: true},
	StatusReady:          {StatusOutForDelivery: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := allowed[s]
	return ok
}

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition checks if from->to is allowed.
func CanTransition(from, to OrderStatus) bool {
	nexts := allowed[from]
	return nexts != nil && nexts[to]
}

// Customer-facing descriptions pushed with order notifications.
var statusMessages = map[OrderStatus]string{
	StatusPending:        "Your order has been received and is being reviewed.",
	StatusConfirmed:      "Your order has been confirmed and will be prepared soon.",
	StatusPreparing:      "Your delicious meal is being prepared with care.",
	StatusReady:          "Your order is ready! We'll start delivery shortly.",
	StatusOutForDelivery: "Your order is on the way! Estimated delivery in 15-20 minutes.",
	StatusDelivered:      "Your order has been delivered. Enjoy your meal!",
	StatusCancelled:      "Your order has been cancelled. If you have questions, please contact us.",
}

// StatusMessage returns the human-readable description for a status.
func StatusMessage(s OrderStatus) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Order status updated."
}
