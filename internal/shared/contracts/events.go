package contracts

import "time"

// Event names accepted from clients.
const (
	EventTrackOrder             = "track_order"
	EventStopTracking           = "stop_tracking"
	EventUpdateOrderStatus      = "update_order_status"
	EventGetLiveStats           = "get_live_stats"
	EventGetMyOrders            = "get_my_orders"
	EventUpdateDeliveryLocation = "update_delivery_location"
	EventUpdateEstimatedTime    = "update_estimated_time"
)

// Event names pushed to clients.
const (
	EventConnected               = "connected"
	EventOrderStatus             = "order_status"
	EventOrderStatusUpdated      = "order_status_updated"
	EventOrderNotification       = "order_notification"
	EventAdminOrderUpdated       = "admin_order_updated"
	EventLiveStats               = "live_stats"
	EventLiveStatsUpdate         = "live_stats_update"
	EventMyOrders                = "my_orders"
	EventEstimatedTimeUpdated    = "estimated_time_updated"
	EventDeliveryLocationUpdated = "delivery_location_updated"
	EventNewOrder                = "new_order"
	EventSystemNotification      = "system_notification"
	EventError                   = "error"
)

// Envelope is the frame exchanged over the websocket in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// --- Inbound intent payloads ---

type TrackOrderIntent struct {
	OrderID int64 `json:"orderId"`
}

type UpdateOrderStatusIntent struct {
	OrderID           int64      `json:"orderId"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

type UpdateDeliveryLocationIntent struct {
	OrderID   int64   `json:"orderId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type UpdateEstimatedTimeIntent struct {
	OrderID           int64      `json:"orderId"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// --- Outbound payloads ---

type ConnectedPayload struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Role    string `json:"role"`
}

type OrderItemPayload struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // unit price in dollars
	Total    float64 `json:"total"` // line total in dollars
}

// OrderStatusPayload is the snapshot sent to a connection that starts tracking.
type OrderStatusPayload struct {
	OrderID           int64              `json:"orderId"`
	Status            string             `json:"status"`
	EstimatedDelivery *time.Time         `json:"estimatedDelivery"`
	Items             []OrderItemPayload `json:"items"`
	Total             float64            `json:"total"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// OrderStatusUpdatedPayload is broadcast to the order room after a status mutation.
type OrderStatusUpdatedPayload struct {
	OrderID           int64      `json:"orderId"`
	Status            string     `json:"status"`
	PreviousStatus    string     `json:"previousStatus"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	LastUpdated       time.Time  `json:"lastUpdated"`
	Notes             *string    `json:"notes"`
	UpdatedBy         string     `json:"updatedBy"`
}

// OrderNotificationPayload carries the customer-facing message to the owner's room.
type OrderNotificationPayload struct {
	Type      string    `json:"type"`
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminOrderUpdatedPayload is the audit event fanned out to the admin room.
type AdminOrderUpdatedPayload struct {
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	Timestamp time.Time `json:"timestamp"`
}

// LiveStatsPayload is the aggregator snapshot for admins.
type LiveStatsPayload struct {
	TotalOrders          int     `json:"totalOrders"`
	TodayOrders          int     `json:"todayOrders"`
	PendingOrders        int     `json:"pendingOrders"`
	ConfirmedOrders      int     `json:"confirmedOrders"`
	PreparingOrders      int     `json:"preparingOrders"`
	ReadyOrders          int     `json:"readyOrders"`
	OutForDeliveryOrders int     `json:"outForDeliveryOrders"`
	Revenue              float64 `json:"revenue"`
	AverageOrderValue    float64 `json:"averageOrderValue"`
}

// MyOrderPayload is one element of the my_orders response.
type MyOrderPayload struct {
	OrderID           int64              `json:"id"`
	Status            string             `json:"status"`
	EstimatedDelivery *time.Time         `json:"estimatedDelivery"`
	Items             []OrderItemPayload `json:"items"`
	Total             float64            `json:"total"`
	CreatedAt         time.Time          `json:"createdAt"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

type EstimatedTimeUpdatedPayload struct {
	OrderID           int64      `json:"orderId"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Timestamp         time.Time  `json:"timestamp"`
}

type DeliveryLocationPayload struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

type DeliveryLocationUpdatedPayload struct {
	OrderID  int64                   `json:"orderId"`
	Location DeliveryLocationPayload `json:"location"`
}

// NewOrderPayload announces a freshly placed order to the admin room.
type NewOrderPayload struct {
	OrderID      int64     `json:"orderId"`
	CustomerName string    `json:"customerName"`
	Total        float64   `json:"total"`
	Items        int       `json:"items"`
	Timestamp    time.Time `json:"timestamp"`
	OrderType    string    `json:"orderType"`
}

type SystemNotificationPayload struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
