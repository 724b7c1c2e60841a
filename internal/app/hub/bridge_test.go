package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/rabbitmq"
)

type published struct {
	exchange   string
	routingKey string
	body       []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}

func TestBridgePublishStatusUpdate(t *testing.T) {
	pub := &fakePublisher{}
	bridge := NewBridge(pub, logger.NewLogger("test"))

	eta := time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)
	order := &orders.Order{
		ID:                7,
		UserID:            "u1",
		Status:            orders.StatusReady,
		UpdatedAt:         time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC),
		EstimatedDelivery: &eta,
	}

	bridge.PublishStatusUpdate(context.Background(), order, orders.StatusPreparing, "admin@sb.test")

	require.Len(t, pub.sent, 1)
	assert.Equal(t, rabbitmq.OrderUpdatesExchange, pub.sent[0].exchange)

	var msg contracts.OrderUpdateMessage
	require.NoError(t, json.Unmarshal(pub.sent[0].body, &msg))
	assert.Equal(t, contracts.KindStatusUpdate, msg.Kind)
	assert.Equal(t, int64(7), msg.OrderID)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, "preparing", msg.OldStatus)
	assert.Equal(t, "ready", msg.NewStatus)
	assert.Equal(t, "Your order is ready! We'll start delivery shortly.", msg.Message)
	assert.Equal(t, "admin@sb.test", msg.ChangedBy)
}

func TestBridgePublishNewOrder(t *testing.T) {
	pub := &fakePublisher{}
	bridge := NewBridge(pub, logger.NewLogger("test"))

	order := newTestOrder("u1")
	order.ID = 3
	order.SetTotal()
	order.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	bridge.PublishNewOrder(context.Background(), order)

	require.Len(t, pub.sent, 1)

	var msg contracts.NewOrderMessage
	require.NoError(t, json.Unmarshal(pub.sent[0].body, &msg))
	assert.Equal(t, contracts.KindNewOrder, msg.Kind)
	assert.Equal(t, int64(3), msg.OrderID)
	assert.Equal(t, "Test Customer", msg.CustomerName)
	assert.Equal(t, 1, msg.ItemsCount)
	assert.InDelta(t, 17.98, msg.TotalAmount, 0.0001)
}

func TestBridgePublishFailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	bridge := NewBridge(pub, logger.NewLogger("test"))

	order := newTestOrder("u1")
	order.ID = 1

	// must not panic or propagate
	bridge.PublishStatusUpdate(context.Background(), order, orders.StatusPending, "admin@sb.test")
	bridge.PublishNewOrder(context.Background(), order)

	assert.Empty(t, pub.sent)
}
