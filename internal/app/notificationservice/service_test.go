package notificationservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
)

func TestRenderStatusUpdate(t *testing.T) {
	line := renderStatusUpdate(contracts.OrderUpdateMessage{
		OrderID:   7,
		OldStatus: "preparing",
		NewStatus: "ready",
		ChangedBy: "admin@sb.test",
		Message:   "Your order is ready! We'll start delivery shortly.",
	})

	assert.Equal(t,
		"Notification for order 7: Status changed from 'preparing' to 'ready' by admin@sb.test. Your order is ready! We'll start delivery shortly.",
		line,
	)
}

func TestRenderStatusUpdateWithETA(t *testing.T) {
	eta := time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)
	line := renderStatusUpdate(contracts.OrderUpdateMessage{
		OrderID:           7,
		OldStatus:         "ready",
		NewStatus:         "out_for_delivery",
		ChangedBy:         "admin@sb.test",
		Message:           "Your order is on its way!",
		EstimatedDelivery: &eta,
	})

	assert.Contains(t, line, "Estimated delivery: 2025-06-01T19:30:00Z")
}

func TestRenderNewOrder(t *testing.T) {
	line := renderNewOrder(contracts.NewOrderMessage{
		OrderID:      3,
		CustomerName: "Alice",
		OrderType:    "delivery",
		TotalAmount:  17.98,
		ItemsCount:   2,
	})

	assert.Equal(t, "Notification: new delivery order 3 from Alice, $17.98 (2 items)", line)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextBackoff(20*time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextBackoff(30*time.Second, 30*time.Second))
}
