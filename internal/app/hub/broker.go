package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/domain/rooms"
	"github.com/sizzling-burgers/tracking-hub/internal/ports"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
)

// Broker is the protocol core: it validates each inbound intent against the
// session's identity and the registry, applies the mutation, and fans the
// resulting events out to the right rooms in a fixed sequence (order room,
// then owner notification, then admin audit). Errors stay on the requesting
// connection and never reach other observers.
type Broker struct {
	registry *Registry
	rooms    *rooms.Index
	sender   ports.EventSender
	bridge   *Bridge
	logger   *logger.Logger
	loc      *time.Location
	clock    func() time.Time

	mu       sync.RWMutex
	sessions map[string]ports.Identity
}

// NewBroker wires the event broker. loc is the time zone used for the
// "today" window in live stats.
func NewBroker(registry *Registry, roomIndex *rooms.Index, sender ports.EventSender, bridge *Bridge, log *logger.Logger, loc *time.Location) *Broker {
	return &Broker{
		registry: registry,
		rooms:    roomIndex,
		sender:   sender,
		bridge:   bridge,
		logger:   log,
		loc:      loc,
		clock:    time.Now,
		sessions: make(map[string]ports.Identity),
	}
}

// --- Connection lifecycle ---

// Connect admits a verified session: records it, auto-joins its rooms, and
// sends the welcome event. Credential verification has already happened.
func (b *Broker) Connect(ctx context.Context, sessionID string, identity ports.Identity) {
	b.mu.Lock()
	b.sessions[sessionID] = identity
	b.mu.Unlock()

	b.rooms.Join(sessionID, rooms.User(identity.UserID))
	if identity.IsAdmin() {
		b.rooms.Join(sessionID, rooms.Admin)
	}

	b.sender.Send(sessionID, contracts.EventConnected, contracts.ConnectedPayload{
		Message: "Connected to real-time tracking",
		UserID:  identity.UserID,
		Role:    identity.Role,
	})

	b.logger.Info(ctx, "session_connected", "User connected", map[string]any{
		"user_id": identity.UserID,
		"role":    identity.Role,
		"email":   identity.Email,
	})
}

// Disconnect tears down every room membership the session held. No other
// cleanup is required.
func (b *Broker) Disconnect(ctx context.Context, sessionID string) {
	b.rooms.Drop(sessionID)

	b.mu.Lock()
	identity, known := b.sessions[sessionID]
	delete(b.sessions, sessionID)
	b.mu.Unlock()

	if known {
		b.logger.Info(ctx, "session_disconnected", "User disconnected", map[string]any{
			"user_id": identity.UserID,
		})
	}
}

// --- Intent dispatch ---

// HandleIntent routes one inbound client frame. Malformed or unauthorized
// intents produce an error event for the requester only; no state changes.
func (b *Broker) HandleIntent(ctx context.Context, sessionID, event string, data json.RawMessage) {
	b.mu.RLock()
	identity, ok := b.sessions[sessionID]
	b.mu.RUnlock()
	if !ok {
		b.logger.Warn(ctx, "unknown_session", "Intent from unregistered session dropped", map[string]any{"event": event})
		return
	}

	switch event {
	case contracts.EventTrackOrder:
		b.handleTrackOrder(ctx, sessionID, identity, data)
	case contracts.EventStopTracking:
		b.handleStopTracking(ctx, sessionID, data)
	case contracts.EventUpdateOrderStatus:
		b.handleUpdateOrderStatus(ctx, sessionID, identity, data)
	case contracts.EventGetLiveStats:
		b.handleGetLiveStats(sessionID, identity)
	case contracts.EventGetMyOrders:
		b.handleGetMyOrders(sessionID, identity)
	case contracts.EventUpdateDeliveryLocation:
		b.handleUpdateDeliveryLocation(ctx, sessionID, identity, data)
	case contracts.EventUpdateEstimatedTime:
		b.handleUpdateEstimatedTime(ctx, sessionID, identity, data)
	default:
		b.sendError(sessionID, fmt.Sprintf("Unknown event '%s'", event))
	}
}

func (b *Broker) handleTrackOrder(ctx context.Context, sessionID string, identity ports.Identity, data json.RawMessage) {
	var intent contracts.TrackOrderIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		b.sendError(sessionID, "Invalid track_order payload")
		return
	}

	order, err := b.registry.Find(intent.OrderID)
	// a foreign order looks identical to a missing one from the outside
	if err != nil || (order.UserID != identity.UserID && !identity.IsAdmin()) {
		b.sendError(sessionID, "Order not found or access denied")
		return
	}

	b.rooms.Join(sessionID, rooms.Order(order.ID))
	b.sender.Send(sessionID, contracts.EventOrderStatus, orderStatusPayload(order))

	b.logger.Debug(ctx, "order_tracked", "User tracking order", map[string]any{
		"user_id":  identity.UserID,
		"order_id": order.ID,
	})
}

func (b *Broker) handleStopTracking(ctx context.Context, sessionID string, data json.RawMessage) {
	var intent contracts.TrackOrderIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		b.sendError(sessionID, "Invalid stop_tracking payload")
		return
	}

	b.rooms.Leave(sessionID, rooms.Order(intent.OrderID))
}

func (b *Broker) handleUpdateOrderStatus(ctx context.Context, sessionID string, identity ports.Identity, data json.RawMessage) {
	if !identity.IsAdmin() {
		b.sendError(sessionID, "Admin access required")
		return
	}

	var intent contracts.UpdateOrderStatusIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		b.sendError(sessionID, "Invalid update_order_status payload")
		return
	}

	updated, previous, err := b.registry.UpdateStatus(
		intent.OrderID,
		orders.OrderStatus(intent.Status),
		identity.Email,
		intent.Notes,
		intent.EstimatedDelivery,
	)
	if err != nil {
		b.sendError(sessionID, statusUpdateErrorMessage(err, intent.Status))
		return
	}

	// fixed fan-out sequence: order room, then owner, then admin audit
	b.broadcastRoom(rooms.Order(updated.ID), contracts.EventOrderStatusUpdated, contracts.OrderStatusUpdatedPayload{
		OrderID:           updated.ID,
		Status:            string(updated.Status),
		PreviousStatus:    string(previous),
		EstimatedDelivery: updated.EstimatedDelivery,
		LastUpdated:       updated.UpdatedAt,
		Notes:             intent.Notes,
		UpdatedBy:         identity.Email,
	})

	b.broadcastRoom(rooms.User(updated.UserID), contracts.EventOrderNotification, contracts.OrderNotificationPayload{
		Type:      "status_update",
		OrderID:   updated.ID,
		Status:    string(updated.Status),
		Message:   orders.StatusMessage(updated.Status),
		Timestamp: updated.UpdatedAt,
	})

	b.broadcastRoom(rooms.Admin, contracts.EventAdminOrderUpdated, contracts.AdminOrderUpdatedPayload{
		OrderID:   updated.ID,
		Status:    string(updated.Status),
		UpdatedBy: identity.Email,
		Timestamp: updated.UpdatedAt,
	})

	if b.bridge != nil {
		go b.bridge.PublishStatusUpdate(context.WithoutCancel(ctx), updated, previous, identity.Email)
	}

	b.logger.Info(ctx, "order_status_updated", "Admin updated order status", map[string]any{
		"order_id":   updated.ID,
		"old_status": string(previous),
		"new_status": string(updated.Status),
		"updated_by": identity.Email,
	})
}

func (b *Broker) handleGetLiveStats(sessionID string, identity ports.Identity) {
	if !identity.IsAdmin() {
		b.sendError(sessionID, "Admin access required")
		return
	}

	stats := ComputeLiveStats(b.registry.Snapshot(), b.clock(), b.loc)
	b.sender.Send(sessionID, contracts.EventLiveStats, stats)
}

func (b *Broker) handleGetMyOrders(sessionID string, identity ports.Identity) {
	owned := b.registry.FindByOwner(identity.UserID)
	b.sender.Send(sessionID, contracts.EventMyOrders, myOrderPayloads(owned))
}

func (b *Broker) handleUpdateDeliveryLocation(ctx context.Context, sessionID string, identity ports.Identity, data json.RawMessage) {
	if !identity.IsAdmin() {
		b.sendError(sessionID, "Admin access required")
		return
	}

	var intent contracts.UpdateDeliveryLocationIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		b.sendError(sessionID, "Invalid update_delivery_location payload")
		return
	}

	// location is broadcast-only telemetry; the registry is consulted for
	// existence but the order itself is not mutated
	if _, err := b.registry.Find(intent.OrderID); err != nil {
		b.sendError(sessionID, "Order not found")
		return
	}

	b.broadcastRoom(rooms.Order(intent.OrderID), contracts.EventDeliveryLocationUpdated, contracts.DeliveryLocationUpdatedPayload{
		OrderID: intent.OrderID,
		Location: contracts.DeliveryLocationPayload{
			Latitude:  intent.Latitude,
			Longitude: intent.Longitude,
			Address:   intent.Address,
			Timestamp: b.clock().UTC(),
		},
	})

	b.logger.Debug(ctx, "delivery_location_updated", "Delivery location broadcast", map[string]any{
		"order_id": intent.OrderID,
	})
}

func (b *Broker) handleUpdateEstimatedTime(ctx context.Context, sessionID string, identity ports.Identity, data json.RawMessage) {
	if !identity.IsAdmin() {
		b.sendError(sessionID, "Admin access required")
		return
	}

	var intent contracts.UpdateEstimatedTimeIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		b.sendError(sessionID, "Invalid update_estimated_time payload")
		return
	}

	updated, err := b.registry.UpdateEstimatedDelivery(intent.OrderID, intent.EstimatedDelivery)
	if err != nil {
		b.sendError(sessionID, "Order not found")
		return
	}

	b.broadcastRoom(rooms.Order(updated.ID), contracts.EventEstimatedTimeUpdated, contracts.EstimatedTimeUpdatedPayload{
		OrderID:           updated.ID,
		EstimatedDelivery: updated.EstimatedDelivery,
		Timestamp:         updated.UpdatedAt,
	})
}

// --- Collaborator interface for the order-placement HTTP layer ---

// RegisterOrder adds a freshly placed order to the registry.
func (b *Broker) RegisterOrder(ctx context.Context, order *orders.Order) int64 {
	id := b.registry.Create(order)
	b.logger.Info(ctx, "order_registered", "Order registered in working set", map[string]any{
		"order_id": id,
		"user_id":  order.UserID,
	})
	return id
}

// NotifyAdmins announces a new order to the admin room and refreshes their
// live stats, then hands the event to the notification bridge.
func (b *Broker) NotifyAdmins(ctx context.Context, orderID int64) {
	order, err := b.registry.Find(orderID)
	if err != nil {
		b.logger.Error(ctx, "notify_admins_failed", "Order vanished before admin notification", err)
		return
	}

	b.broadcastRoom(rooms.Admin, contracts.EventNewOrder, contracts.NewOrderPayload{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total.ToFloat2(),
		Items:        len(order.Items),
		Timestamp:    order.CreatedAt,
		OrderType:    string(order.OrderType),
	})

	stats := ComputeLiveStats(b.registry.Snapshot(), b.clock(), b.loc)
	b.broadcastRoom(rooms.Admin, contracts.EventLiveStatsUpdate, stats)

	if b.bridge != nil {
		go b.bridge.PublishNewOrder(context.WithoutCancel(ctx), order)
	}
}

// OrdersOf returns the subject's recent orders for the HTTP layer.
func (b *Broker) OrdersOf(ctx context.Context, userID string) []*orders.Order {
	return b.registry.FindByOwner(userID)
}

// BroadcastSystemNotification pushes a system-wide message to every session.
func (b *Broker) BroadcastSystemNotification(ctx context.Context, message, notificationType string) {
	payload := contracts.SystemNotificationPayload{
		Type:      notificationType,
		Message:   message,
		Timestamp: b.clock().UTC(),
	}

	b.mu.RLock()
	ids := make([]string, 0, len(b.sessions))
	for id := range b.sessions {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	for _, id := range ids {
		b.sender.Send(id, contracts.EventSystemNotification, payload)
	}
}

// --- helpers ---

func (b *Broker) broadcastRoom(room, event string, data any) {
	for _, member := range b.rooms.Members(room) {
		b.sender.Send(member, event, data)
	}
}

func (b *Broker) sendError(sessionID, message string) {
	b.sender.Send(sessionID, contracts.EventError, contracts.ErrorPayload{Message: message})
}

func statusUpdateErrorMessage(err error, requested string) string {
	var transition *InvalidTransitionError
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, ErrUnknownStatus):
		return fmt.Sprintf("Unknown order status '%s'", requested)
	case errors.As(err, &transition):
		return transition.Error()
	default:
		return "Unable to update order status"
	}
}
