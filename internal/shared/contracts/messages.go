package contracts

import "time"

// Message kinds published to the fanout exchange. Subscribers peek at the
// "kind" field before decoding the full message.
const (
	KindStatusUpdate = "status_update"
	KindNewOrder     = "new_order"
)

// OrderUpdateMessage is published to "order_updates_fanout" after every status
// mutation so external notification channels (email, push) can deliver on their
// own schedule.
type OrderUpdateMessage struct {
	Kind              string     `json:"kind"`
	OrderID           int64      `json:"order_id"`
	UserID            string     `json:"user_id"`
	OldStatus         string     `json:"old_status"`
	NewStatus         string     `json:"new_status"`
	Message           string     `json:"message"` // customer-facing status description
	ChangedBy         string     `json:"changed_by"`
	Timestamp         time.Time  `json:"timestamp"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// NewOrderMessage is published to "order_updates_fanout" when an order is
// registered through the placement API.
type NewOrderMessage struct {
	Kind         string    `json:"kind"`
	OrderID      int64     `json:"order_id"`
	UserID       string    `json:"user_id"`
	CustomerName string    `json:"customer_name"`
	OrderType    string    `json:"order_type"`
	TotalAmount  float64   `json:"total_amount"` // dollars
	ItemsCount   int       `json:"items_count"`
	CreatedAt    time.Time `json:"created_at"`
}
