package notificationservice

import (
	"context"

	service "github.com/sizzling-burgers/tracking-hub/internal/app/notificationservice"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/config"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/rabbitmq"
)

// Run starts the notification subscriber: it drains the order-updates queue
// and prints human-readable notification lines until ctx is cancelled.
func Run(ctx context.Context, configPath string) error {
	log := logger.NewLogger("notification-subscriber")
	ctx = log.WithRequestID(ctx, "startup-001")

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	log.Info(ctx, "service_started", "Notification subscriber started", nil)

	service.ConsumeForever(ctx, rmq, log)
	return nil
}
