package orders

import (
	"time"
)

// OrderItem represents a single line item in an order.
type OrderItem struct {
	Name     string
	Quantity int
	Price    Money // per-unit in cents
}

// LineTotal returns quantity * unit price.
func (item OrderItem) LineTotal() Money {
	return Money(item.Quantity) * item.Price
}

// Order represents a customer's order held in the in-memory working set.
// The status history is append-only; its last entry always matches Status.
type Order struct {
	ID                int64
	UserID            string // owning subject id from the credential
	CustomerName      string
	OrderType         OrderType
	Items             []OrderItem
	Total             Money
	Status            OrderStatus
	EstimatedDelivery *time.Time
	History           []StatusLog
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderType is a custom type that represents the type of order.
type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

// SetTotal recomputes the total from items.
func (order *Order) SetTotal() {
	var sum Money
	for _, it := range order.Items {
		sum += it.LineTotal()
	}
	order.Total = sum
}

// AppendHistory records a status change. Callers must keep Status in sync.
func (order *Order) AppendHistory(status OrderStatus, changedBy string, at time.Time, notes *string) {
	order.History = append(order.History, StatusLog{
		Status:    status,
		ChangedAt: at,
		ChangedBy: changedBy,
		Notes:     notes,
	})
}

// Clone returns a deep copy so callers never share the registry's mutable state.
func (order *Order) Clone() *Order {
	cp := *order
	cp.Items = append([]OrderItem(nil), order.Items...)
	cp.History = append([]StatusLog(nil), order.History...)
	if order.EstimatedDelivery != nil {
		t := *order.EstimatedDelivery
		cp.EstimatedDelivery = &t
	}
	return &cp
}
