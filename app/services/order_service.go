package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/pkg/auth"
	"github.com/shashiranjanraj/zaika/pkg/metrics"
)

// OrderLine is one requested line in a new order: a catalog reference and
// a quantity. Name and unit price are snapshotted from the catalog at
// creation time.
type OrderLine struct {
	FoodID   string `json:"food_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// OrderService implements the order lifecycle and the access-scoped query
// model. Every operation receives the freshly resolved caller identity
// explicitly; nothing is read from ambient request state.
type OrderService struct {
	orders repositories.OrderRepository
	foods  repositories.FoodRepository
}

func NewOrderService(orders repositories.OrderRepository, foods repositories.FoodRepository) *OrderService {
	return &OrderService{orders: orders, foods: foods}
}

// ScopeFor derives the query predicate for order reads from the caller's
// resolved role: administrators see everything, other callers only their
// own orders. An optional status narrows both.
func ScopeFor(caller auth.Identity, status *models.OrderStatus) (models.OrderScope, error) {
	scope := models.OrderScope{Status: status}
	if caller.Admin {
		return scope, nil
	}

	oid, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		return models.OrderScope{}, fmt.Errorf("orders: bad caller id %q: %w", caller.ID, err)
	}
	scope.OwnerID = oid
	return scope, nil
}

// Create places a new order owned by the caller. The line list must be
// non-empty and every quantity positive; prices and names are snapshotted
// from the catalog so later edits never change this order. The order
// starts in StatusNew.
func (s *OrderService) Create(ctx context.Context, caller auth.Identity, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidOrderLine
		}
		ids = append(ids, line.FoodID)
	}

	foods, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Food, len(foods))
	for _, f := range foods {
		byID[f.ID.Hex()] = f
	}

	ownerID, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("orders: bad caller id %q: %w", caller.ID, err)
	}

	order := &models.Order{
		UserID: ownerID,
		Status: models.StatusNew,
	}
	for _, line := range lines {
		food, ok := byID[line.FoodID]
		if !ok {
			return nil, repositories.ErrNotFound
		}
		order.Items = append(order.Items, models.OrderItem{
			FoodID:    food.ID,
			Name:      food.Name,
			UnitPrice: food.Price,
			Quantity:  line.Quantity,
		})
		order.Total += food.Price * float64(line.Quantity)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusNew)).Inc()
	return order, nil
}

// Pay records a payment token against the caller's most recent NEW order
// and transitions it to PAID in one conditional update. The token is
// stored opaquely; no verification happens here. With no NEW order left,
// the repository reports ErrNotFound.
func (s *OrderService) Pay(ctx context.Context, caller auth.Identity, paymentID string) (*models.Order, error) {
	ownerID, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("orders: bad caller id %q: %w", caller.ID, err)
	}

	order, err := s.orders.MarkPaid(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusPaid)).Inc()
	return order, nil
}

// UpdateStatus is the administrative transition: expired wins and moves
// the order to FAILED, otherwise paid moves it to PAID. Supplying neither
// signal is rejected without touching the order.
func (s *OrderService) UpdateStatus(ctx context.Context, caller auth.Identity, orderID string, isPaid, isExpired bool) (*models.Order, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}

	var target models.OrderStatus
	switch {
	case isExpired:
		target = models.StatusFailed
	case isPaid:
		target = models.StatusPaid
	default:
		return nil, ErrStatusFlags
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, target)
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(target)).Inc()
	return order, nil
}

// Get fetches an order by id with no ownership guard.
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// Track fetches an order with the ownership guard applied: a non-admin
// caller may only track their own order.
func (s *OrderService) Track(ctx context.Context, caller auth.Identity, orderID string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !caller.Admin && order.UserID.Hex() != caller.ID {
		return nil, ErrUnauthorized
	}
	return order, nil
}

// List returns the orders visible to the caller, newest first, optionally
// narrowed by status.
func (s *OrderService) List(ctx context.Context, caller auth.Identity, status *models.OrderStatus) ([]models.Order, error) {
	scope, err := ScopeFor(caller, status)
	if err != nil {
		return nil, err
	}
	return s.orders.Find(ctx, scope)
}

// Statuses lists every lifecycle state.
func (s *OrderService) Statuses() []models.OrderStatus {
	return models.AllStatuses()
}
