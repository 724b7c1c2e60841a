package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
)

func statOrder(total float64, status orders.OrderStatus, createdAt time.Time) *orders.Order {
	return &orders.Order{
		Total:     orders.NewMoneyFromFloat2(total),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestComputeLiveStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	snapshot := []*orders.Order{
		statOrder(17.98, orders.StatusDelivered, now),
		statOrder(12.99, orders.StatusDelivered, now),
		statOrder(9.00, orders.StatusPending, now),
	}

	stats := ComputeLiveStats(snapshot, now, time.UTC)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 3, stats.TodayOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 0, stats.ConfirmedOrders)

	// revenue counts delivered orders only; the average spans all orders
	assert.InDelta(t, 30.97, stats.Revenue, 0.0001)
	assert.InDelta(t, 13.32, stats.AverageOrderValue, 0.0001)
}

func TestComputeLiveStatsEmpty(t *testing.T) {
	stats := ComputeLiveStats(nil, time.Now(), time.UTC)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Zero(t, stats.Revenue)
	assert.Zero(t, stats.AverageOrderValue)
}

func TestComputeLiveStatsStatusBuckets(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	snapshot := []*orders.Order{
		statOrder(10, orders.StatusPending, now),
		statOrder(10, orders.StatusConfirmed, now),
		statOrder(10, orders.StatusPreparing, now),
		statOrder(10, orders.StatusReady, now),
		statOrder(10, orders.StatusOutForDelivery, now),
		statOrder(10, orders.StatusDelivered, now),
		statOrder(10, orders.StatusCancelled, now),
	}

	stats := ComputeLiveStats(snapshot, now, time.UTC)

	assert.Equal(t, 7, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.ConfirmedOrders)
	assert.Equal(t, 1, stats.PreparingOrders)
	assert.Equal(t, 1, stats.ReadyOrders)
	assert.Equal(t, 1, stats.OutForDeliveryOrders)
	assert.InDelta(t, 10.0, stats.Revenue, 0.0001)
}

func TestComputeLiveStatsTodayWindow(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	require.NotNil(t, loc)

	// 00:30 local on March 10th
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, loc)
	snapshot := []*orders.Order{
		// 23:30 local the previous day
		statOrder(10, orders.StatusPending, time.Date(2025, 3, 9, 23, 30, 0, 0, loc)),
		// 00:10 local today
		statOrder(10, orders.StatusPending, time.Date(2025, 3, 10, 0, 10, 0, 0, loc)),
		// later today, stored in UTC
		statOrder(10, orders.StatusPending, time.Date(2025, 3, 10, 18, 0, 0, 0, loc).UTC()),
		// tomorrow
		statOrder(10, orders.StatusPending, time.Date(2025, 3, 11, 0, 0, 0, 0, loc)),
	}

	stats := ComputeLiveStats(snapshot, now, loc)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 2, stats.TodayOrders)
}
