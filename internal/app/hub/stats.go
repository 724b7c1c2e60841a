package hub

import (
	"math"
	"time"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
)

// ComputeLiveStats derives live counts and revenue from a registry snapshot.
// It is a pure function of the snapshot and clock: recomputed on every request,
// never cached.
//
// "Today" means the calendar day of now in loc: CreatedAt >= midnight and
// < next midnight, both in loc. Revenue sums totals of delivered orders only.
// Average order value spans all orders and is 0 when the registry is empty.
func ComputeLiveStats(snapshot []*orders.Order, now time.Time, loc *time.Location) contracts.LiveStatsPayload {
	var stats contracts.LiveStatsPayload

	localNow := now.In(loc)
	dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var revenueCents, allCents int64
	for _, order := range snapshot {
		stats.TotalOrders++
		allCents += int64(order.Total)

		created := order.CreatedAt.In(loc)
		if !created.Before(dayStart) && created.Before(dayEnd) {
			stats.TodayOrders++
		}

		switch order.Status {
		case orders.StatusPending:
			stats.PendingOrders++
		case orders.StatusConfirmed:
			stats.ConfirmedOrders++
		case orders.StatusPreparing:
			stats.PreparingOrders++
		case orders.StatusReady:
			stats.ReadyOrders++
		case orders.StatusOutForDelivery:
			stats.OutForDeliveryOrders++
		case orders.StatusDelivered:
			revenueCents += int64(order.Total)
		}
	}

	stats.Revenue = orders.Money(revenueCents).ToFloat2()
	if stats.TotalOrders > 0 {
		avgCents := math.Round(float64(allCents) / float64(stats.TotalOrders))
		stats.AverageOrderValue = orders.Money(avgCents).ToFloat2()
	}
	return stats
}
