package notificationservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/rabbitmq"
)

// ConsumeForever continuously (re)creates a channel and starts consuming from
// the durable order-updates queue. This is the external notification
// collaborator: it delivers on its own schedule, decoupled from the hub.
func ConsumeForever(ctx context.Context, rmq *rabbitmq.Client, logger *logger.Logger) {
	const (
		prefetch       = 50               // limit unacked messages this consumer can hold
		retryBaseDelay = time.Second      // backoff base
		retryMaxDelay  = 30 * time.Second // backoff cap
		consumerName   = ""               // let the server generate a unique consumer tag
		autoAck        = false
		exclusive      = false
		noLocal        = false
		noWait         = false
	)

	backoff := retryBaseDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// acquire a fresh channel with QoS
		ch, err := rmq.NewConsumerChannel(prefetch)
		if err != nil {
			logger.Error(ctx, "rabbitmq_channel_open_failed", "Failed to open consumer channel", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		// reset backoff on successful channel creation
		backoff = retryBaseDelay

		// start consuming from the durable queue
		deliveries, err := ch.Consume(rabbitmq.OrderUpdatesQueue, consumerName, autoAck, exclusive, noLocal, noWait, nil)
		if err != nil {
			_ = ch.Close()
			logger.Error(ctx, "rabbitmq_consume_failed", "Failed to start consuming order updates", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		// watch for channel close to trigger a re-open
		closed := ch.NotifyClose(make(chan *amqp.Error, 1))

		// consume loop
	consumption:
		for {
			select {
			case <-ctx.Done():
				_ = ch.Close()
				break consumption

			case amqpErr := <-closed:
				// channel closed (or connection closed underneath). Recreate channel.
				if amqpErr != nil {
					logger.Error(ctx, "rabbitmq_channel_closed", "Consumer channel closed", amqpErr)
				} else {
					logger.Error(ctx, "rabbitmq_channel_closed", "Consumer channel closed", errors.New("unknown channel close"))
				}
				break consumption

			case d, ok := <-deliveries:
				if !ok {
					logger.Error(ctx, "rabbitmq_deliveries_closed", "Deliveries channel closed", errors.New("deliveries channel closed"))
					break consumption
				}

				// handle one message
				handleDelivery(ctx, logger, d)
			}
		}

		// small delay before attempting to recreate channel (avoid hot loop)
		if !sleepWithContext(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, retryMaxDelay)
	}
}

// handleDelivery decodes the message by kind and prints/acknowledges.
func handleDelivery(ctx context.Context, logger *logger.Logger, d amqp.Delivery) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(d.Body, &probe); err != nil {
		logger.Error(ctx, "notification_decode_failed", "Failed to decode message kind", err)
		// malformed JSON cannot be recovered by redelivery - ack to drop it
		_ = d.Ack(false)
		return
	}

	switch probe.Kind {
	case contracts.KindStatusUpdate:
		var update contracts.OrderUpdateMessage
		if err := json.Unmarshal(d.Body, &update); err != nil {
			logger.Error(ctx, "notification_decode_failed", "Failed to decode status update", err)
			_ = d.Ack(false)
			return
		}

		logger.Debug(ctx, "notification_received", "Received status update", map[string]any{
			"order_id":   update.OrderID,
			"old_status": update.OldStatus,
			"new_status": update.NewStatus,
			"changed_by": update.ChangedBy,
		})
		fmt.Println(renderStatusUpdate(update))

	case contracts.KindNewOrder:
		var placed contracts.NewOrderMessage
		if err := json.Unmarshal(d.Body, &placed); err != nil {
			logger.Error(ctx, "notification_decode_failed", "Failed to decode new order", err)
			_ = d.Ack(false)
			return
		}

		logger.Debug(ctx, "notification_received", "Received new order", map[string]any{
			"order_id": placed.OrderID,
			"total":    placed.TotalAmount,
		})
		fmt.Println(renderNewOrder(placed))

	default:
		logger.Warn(ctx, "notification_unknown_kind", "Dropping message of unknown kind", map[string]any{"kind": probe.Kind})
	}

	// ack on success
	if err := d.Ack(false); err != nil {
		logger.Error(ctx, "rabbitmq_ack_failed", "Failed to ack notification message", err)
	}
}

// renderStatusUpdate formats a human-readable line for a status change.
func renderStatusUpdate(update contracts.OrderUpdateMessage) string {
	if update.EstimatedDelivery != nil {
		return fmt.Sprintf(
			"Notification for order %d: Status changed from '%s' to '%s' by %s. %s Estimated delivery: %s",
			update.OrderID, update.OldStatus, update.NewStatus, update.ChangedBy, update.Message,
			update.EstimatedDelivery.UTC().Format(time.RFC3339),
		)
	}

	return fmt.Sprintf(
		"Notification for order %d: Status changed from '%s' to '%s' by %s. %s",
		update.OrderID, update.OldStatus, update.NewStatus, update.ChangedBy, update.Message,
	)
}

// renderNewOrder formats a human-readable line for a freshly placed order.
func renderNewOrder(placed contracts.NewOrderMessage) string {
	return fmt.Sprintf(
		"Notification: new %s order %d from %s, $%.2f (%d items)",
		placed.OrderType, placed.OrderID, placed.CustomerName, placed.TotalAmount, placed.ItemsCount,
	)
}

// Helpers

// sleepWithContext sleeps for the given duration or returns early if ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff calculates the next backoff duration with exponential growth capped at max.
func nextBackoff(curr, cap time.Duration) time.Duration {
	n := curr * 2
	if n > cap {
		return cap
	}
	return n
}
