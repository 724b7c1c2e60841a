package hub

import (
	"sort"
	"sync"
	"time"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
)

const (
	// myOrdersLimit caps "my orders" queries to the most recent entries.
	myOrdersLimit = 10
	// archiveBuffer bounds the write-behind feed to the persistence collaborator.
	archiveBuffer = 256
)

// Registry is the authoritative in-memory working set of orders. All mutation
// goes through one mutex; callers receive deep copies, never the live objects.
// Terminal orders are retained for statistics and audit.
type Registry struct {
	mu      sync.Mutex
	orders  map[int64]*orders.Order
	nextID  int64
	changes chan *orders.Order
	clock   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		orders:  make(map[int64]*orders.Order),
		changes: make(chan *orders.Order, archiveBuffer),
		clock:   time.Now,
	}
}

// Changes exposes the write-behind feed consumed by the order archive.
// Snapshots are dropped when the archiver lags; event durability across
// restarts is out of scope.
func (r *Registry) Changes() <-chan *orders.Order {
	return r.changes
}

// Create assigns identity, sets status pending, and appends the initial
// history entry. It does not broadcast; fan-out is the broker's job.
func (r *Registry) Create(order *orders.Order) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock().UTC()
	r.nextID++
	order.ID = r.nextID
	order.Status = orders.StatusPending
	order.SetTotal()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.History = nil
	order.AppendHistory(orders.StatusPending, "system", now, nil)

	r.orders[order.ID] = order.Clone()
	r.enqueueLocked(order.ID)
	return order.ID
}

// Find returns a copy of the order or ErrOrderNotFound.
func (r *Registry) Find(orderID int64) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// FindByOwner returns the subject's orders, most recent first, capped at 10.
func (r *Registry) FindByOwner(userID string) []*orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []*orders.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			owned = append(owned, order.Clone())
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if len(owned) > myOrdersLimit {
		owned = owned[:myOrdersLimit]
	}
	return owned
}

// UpdateStatus validates the transition, appends a history entry, and updates
// the order. Returns the updated copy and the previous status.
func (r *Registry) UpdateStatus(orderID int64, next orders.OrderStatus, changedBy string, notes *string, estimatedDelivery *time.Time) (*orders.Order, orders.OrderStatus, error) {
	if !next.IsValid() {
		return nil, "", ErrUnknownStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, "", ErrOrderNotFound
	}

	prev := order.Status
	if !orders.CanTransition(prev, next) {
		return nil, "", &InvalidTransitionError{From: prev, To: next}
	}

	now := r.clock().UTC()
	order.Status = next
	if estimatedDelivery != nil {
		order.EstimatedDelivery = estimatedDelivery
	}
	order.UpdatedAt = now
	order.AppendHistory(next, changedBy, now, notes)

	r.enqueueLocked(orderID)
	return order.Clone(), prev, nil
}

// UpdateEstimatedDelivery sets the ETA without touching the status history.
func (r *Registry) UpdateEstimatedDelivery(orderID int64, estimatedDelivery *time.Time) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}

	order.EstimatedDelivery = estimatedDelivery
	order.UpdatedAt = r.clock().UTC()

	r.enqueueLocked(orderID)
	return order.Clone(), nil
}

// Snapshot returns copies of every order, for the statistics aggregator.
func (r *Registry) Snapshot() []*orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*orders.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, order.Clone())
	}
	return all
}

// enqueueLocked pushes a snapshot onto the archive feed without blocking.
func (r *Registry) enqueueLocked(orderID int64) {
	select {
	case r.changes <- r.orders[orderID].Clone():
	default:
	}
}
