package hub

import (
	"context"
	"encoding/json"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/ports"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/rabbitmq"
)

// Bridge forwards selected broker events to the external notification
// collaborator and records an audit entry. Delivery failures are logged and
// swallowed: they never block or reverse a websocket broadcast.
type Bridge struct {
	pub    ports.UpdatePublisher
	logger *logger.Logger
}

// NewBridge wires the notification bridge around a publisher.
func NewBridge(pub ports.UpdatePublisher, logger *logger.Logger) *Bridge {
	return &Bridge{pub: pub, logger: logger}
}

// PublishStatusUpdate emits a status-change notification for the order owner.
func (bridge *Bridge) PublishStatusUpdate(ctx context.Context, order *orders.Order, previous orders.OrderStatus, changedBy string) {
	msg := contracts.OrderUpdateMessage{
		Kind:              contracts.KindStatusUpdate,
		OrderID:           order.ID,
		UserID:            order.UserID,
		OldStatus:         string(previous),
		NewStatus:         string(order.Status),
		Message:           orders.StatusMessage(order.Status),
		ChangedBy:         changedBy,
		Timestamp:         order.UpdatedAt,
		EstimatedDelivery: order.EstimatedDelivery,
	}
	bridge.publish(ctx, "status_update_published", msg, map[string]any{
		"order_id":   order.ID,
		"old_status": msg.OldStatus,
		"new_status": msg.NewStatus,
		"changed_by": changedBy,
	})
}

// PublishNewOrder emits a notification for a freshly registered order.
func (bridge *Bridge) PublishNewOrder(ctx context.Context, order *orders.Order) {
	msg := contracts.NewOrderMessage{
		Kind:         contracts.KindNewOrder,
		OrderID:      order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		OrderType:    string(order.OrderType),
		TotalAmount:  order.Total.ToFloat2(),
		ItemsCount:   len(order.Items),
		CreatedAt:    order.CreatedAt,
	}
	bridge.publish(ctx, "new_order_published", msg, map[string]any{
		"order_id": order.ID,
		"total":    msg.TotalAmount,
	})
}

func (bridge *Bridge) publish(ctx context.Context, action string, msg any, audit map[string]any) {
	body, err := json.Marshal(msg)
	if err != nil {
		bridge.logger.Error(ctx, "notification_encode_failed", "Failed to encode notification message", err)
		return
	}

	if err := bridge.pub.Publish(rabbitmq.OrderUpdatesExchange, "", body); err != nil {
		bridge.logger.Error(ctx, "notification_publish_failed", "Failed to publish notification; broadcast already delivered", err)
		return
	}

	// audit entry for the dispatched notification
	bridge.logger.Info(ctx, action, "Notification handed to dispatch", audit)
}
