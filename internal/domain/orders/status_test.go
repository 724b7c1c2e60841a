package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"confirmed to preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"ready to out_for_delivery", StatusReady, StatusOutForDelivery, true},
		{"out_for_delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"out_for_delivery to cancelled", StatusOutForDelivery, StatusCancelled, true},
		{"skipping a step", StatusPending, StatusPreparing, false},
		{"backwards", StatusReady, StatusPreparing, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"unknown status", OrderStatus("burning"), StatusReady, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusOutForDelivery.IsTerminal())
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Your order is ready! We'll start delivery shortly.", StatusMessage(StatusReady))
	assert.Equal(t, "Your order has been delivered. Enjoy your meal!", StatusMessage(StatusDelivered))
	assert.Equal(t, "Order status updated.", StatusMessage(OrderStatus("nonsense")))
}

func TestSetTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Name: "Classic Burger", Quantity: 2, Price: 899},
			{Name: "Fries", Quantity: 1, Price: 399},
		},
	}
	order.SetTotal()
	assert.Equal(t, Money(2197), order.Total)
}
