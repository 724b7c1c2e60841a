package trackinghub

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sizzling-burgers/tracking-hub/internal/app/hub"
	"github.com/sizzling-burgers/tracking-hub/internal/app/orderapi"
	"github.com/sizzling-burgers/tracking-hub/internal/domain/rooms"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/config"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/postgres"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/rabbitmq"
	"github.com/sizzling-burgers/tracking-hub/internal/transport/ws"
)

// Run wires and serves the tracking hub: websocket endpoint, order placement
// API, write-behind archive, and notification publisher.
func Run(ctx context.Context, configPath string, port int) error {
	// set up a new logger with a static request ID for startup logs
	log := logger.NewLogger("tracking-hub")
	ctx = log.WithRequestID(ctx, "startup-001")

	// load a config from file
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	// the zone used for the "today" window in live stats
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Error(ctx, "timezone_load_failed", "Failed to load configured timezone", err)
		return err
	}

	// set up a Postgres connection pool for the order archive
	pool, err := postgres.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ for the notification bridge
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	// core: registry + rooms + broker
	registry := hub.NewRegistry()
	bridge := hub.NewBridge(&rabbitmq.MQPublisher{Client: rmq}, log)
	verifier := hub.NewVerifier(cfg.Auth.JWTSecret)

	// the websocket server is both the transport and the broker's sender;
	// wire them together in two steps
	var broker *hub.Broker
	var server *ws.Server
	sender := ws.SenderFunc(func(sessionID, event string, data any) {
		server.Send(sessionID, event, data)
	})
	broker = hub.NewBroker(registry, rooms.NewIndex(), sender, bridge, log, loc)
	server = ws.NewServer(verifier, broker, log)

	// drain registry snapshots into the archive until shutdown
	archive := postgres.NewArchiveRepo(pool, log)
	go postgres.RunArchiver(ctx, archive, registry.Changes())

	// routes
	mux := http.NewServeMux()
	server.Register(mux)
	orderapi.NewHandler(broker, verifier, log).Register(mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// log service start
	log.Info(ctx, "service_started", "Tracking hub started", map[string]any{"port": port, "timezone": cfg.Server.Timezone})

	// run server and wait for ctx cancellation
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		server.Close()
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	return nil
}
