package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/zaika/app/models"
)

// MockOrderRepository is an in-memory OrderRepository for tests. It mirrors
// the conditional-update semantics of the Mongo implementation, including
// the newest-first tie-break in MarkPaid.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	// clock lets tests create orders with strictly increasing timestamps
	// even when the wall clock does not advance between calls.
	clock time.Time
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		clock:  time.Now().UTC(),
	}
}

func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.clock = r.clock.Add(time.Millisecond)
	order.CreatedAt = r.clock
	order.UpdatedAt = r.clock
	r.orders[order.ID.Hex()] = *order
	return nil
}

func (r *MockOrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MockOrderRepository) Find(_ context.Context, scope models.OrderScope) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		if !scope.OwnerID.IsZero() && o.UserID != scope.OwnerID {
			continue
		}
		if scope.Status != nil && o.Status != *scope.Status {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *MockOrderRepository) MarkPaid(_ context.Context, ownerID primitive.ObjectID, paymentID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidate *models.Order
	for id := range r.orders {
		o := r.orders[id]
		if o.UserID != ownerID || o.Status != models.StatusNew {
			continue
		}
		if candidate == nil || o.CreatedAt.After(candidate.CreatedAt) {
			c := o
			candidate = &c
		}
	}
	if candidate == nil {
		return nil, ErrNotFound
	}

	candidate.Status = models.StatusPaid
	candidate.PaymentID = paymentID
	candidate.UpdatedAt = time.Now().UTC()
	r.orders[candidate.ID.Hex()] = *candidate
	return candidate, nil
}

func (r *MockOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return &o, nil
}
