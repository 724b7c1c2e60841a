package hub

import (
	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
)

func itemPayloads(items []orders.OrderItem) []contracts.OrderItemPayload {
	out := make([]contracts.OrderItemPayload, len(items))
	for i, item := range items {
		out[i] = contracts.OrderItemPayload{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.ToFloat2(),
			Total:    item.LineTotal().ToFloat2(),
		}
	}
	return out
}

func orderStatusPayload(order *orders.Order) contracts.OrderStatusPayload {
	return contracts.OrderStatusPayload{
		OrderID:           order.ID,
		Status:            string(order.Status),
		EstimatedDelivery: order.EstimatedDelivery,
		Items:             itemPayloads(order.Items),
		Total:             order.Total.ToFloat2(),
		LastUpdated:       order.UpdatedAt,
	}
}

func myOrderPayloads(list []*orders.Order) []contracts.MyOrderPayload {
	out := make([]contracts.MyOrderPayload, len(list))
	for i, order := range list {
		out[i] = contracts.MyOrderPayload{
			OrderID:           order.ID,
			Status:            string(order.Status),
			EstimatedDelivery: order.EstimatedDelivery,
			Items:             itemPayloads(order.Items),
			Total:             order.Total.ToFloat2(),
			CreatedAt:         order.CreatedAt,
			LastUpdated:       order.UpdatedAt,
		}
	}
	return out
}
