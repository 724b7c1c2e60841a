package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
)

// ArchiveRepo is the durable-persistence collaborator behind the in-memory
// registry. The hub never reads from it on the hot path; it only receives
// write-behind snapshots.
type ArchiveRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewArchiveRepo constructs an ArchiveRepo over the pool.
func NewArchiveRepo(pool *pgxpool.Pool, logger *logger.Logger) *ArchiveRepo {
	return &ArchiveRepo{pool: pool, logger: logger}
}

// SaveOrder upserts the order row, replaces its items, and appends the most
// recent status-history entry.
func (r *ArchiveRepo) SaveOrder(ctx context.Context, order *orders.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// note: totals are NUMERIC(10,2) in DB; we send integer cents and divide by 100 in SQL.
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, customer_name, order_type, total_amount, status, estimated_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric/100, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    total_amount = EXCLUDED.total_amount,
		    estimated_delivery = EXCLUDED.estimated_delivery,
		    updated_at = EXCLUDED.updated_at`,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.OrderType,
		int64(order.Total),
		order.Status,
		order.EstimatedDelivery,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	// items are immutable after placement; replace wholesale to keep the
	// write idempotent across redelivered snapshots
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return err
	}
	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, quantity, price)
			VALUES ($1, $2, $3, $4::numeric/100)`,
			order.ID,
			item.Name,
			item.Quantity,
			int64(item.Price),
		)
		if err != nil {
			return err
		}
	}

	// append the latest history entry; changed_at equality keeps this
	// idempotent for repeated snapshots of the same mutation
	if n := len(order.History); n > 0 {
		last := order.History[n-1]
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_log (order_id, status, changed_by, changed_at, notes)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id, changed_at) DO NOTHING`,
			order.ID,
			last.Status,
			last.ChangedBy,
			last.ChangedAt,
			last.Notes,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// RunArchiver drains the registry's change feed into the archive until ctx is
// cancelled. Persistence failures are logged and the snapshot dropped; the
// working set stays authoritative.
func RunArchiver(ctx context.Context, repo *ArchiveRepo, changes <-chan *orders.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-changes:
			if !ok {
				return
			}

			saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := repo.SaveOrder(saveCtx, order)
			cancel()

			if err != nil {
				repo.logger.Error(ctx, "order_archive_failed", "Failed to persist order snapshot", err)
				continue
			}

			repo.logger.Debug(ctx, "order_archived", "Order snapshot persisted", map[string]any{
				"order_id": order.ID,
				"status":   string(order.Status),
			})
		}
	}
}
