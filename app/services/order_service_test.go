package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

type orderFixture struct {
	orders  *repositories.MockOrderRepository
	foods   *repositories.MockFoodRepository
	service *services.OrderService
	pizza   models.Food
	curry   models.Food
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orders: repositories.NewMockOrderRepository(),
		foods:  repositories.NewMockFoodRepository(),
	}
	f.service = services.NewOrderService(f.orders, f.foods)

	ctx := context.Background()
	f.pizza = models.Food{Name: "Margherita Pizza", Price: 9.5, Tags: []string{"pizza"}}
	require.NoError(t, f.foods.Create(ctx, &f.pizza))
	f.curry = models.Food{Name: "Butter Chicken", Price: 12.0, Tags: []string{"curry"}}
	require.NoError(t, f.foods.Create(ctx, &f.curry))
	return f
}

func customer() auth.Identity {
	return auth.Identity{ID: primitive.NewObjectID().Hex(), Email: "c@example.com"}
}

func admin() auth.Identity {
	return auth.Identity{ID: primitive.NewObjectID().Hex(), Email: "a@example.com", Admin: true}
}

func TestCreateOrderSnapshotsCatalog(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	caller := customer()

	order, err := f.service.Create(ctx, caller, []services.OrderLine{
		{FoodID: f.pizza.ID.Hex(), Quantity: 2},
		{FoodID: f.curry.ID.Hex(), Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, caller.ID, order.UserID.Hex())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Margherita Pizza", order.Items[0].Name)
	assert.Equal(t, 9.5, order.Items[0].UnitPrice)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 2*9.5+12.0, order.Total)

	// Catalog edits after the fact must not leak into the placed order.
	f.pizza.Price = 99
	_, err = f.foods.Update(ctx, f.pizza.ID.Hex(), &f.pizza)
	require.NoError(t, err)

	got, err := f.service.Get(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 9.5, got.Items[0].UnitPrice)
	assert.Equal(t, 2*9.5+12.0, got.Total)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	caller := customer()

	_, err := f.service.Create(ctx, caller, nil)
	assert.ErrorIs(t, err, services.ErrEmptyOrder)

	_, err = f.service.Create(ctx, caller, []services.OrderLine{
		{FoodID: f.pizza.ID.Hex(), Quantity: 0},
	})
	assert.ErrorIs(t, err, services.ErrInvalidOrderLine)

	_, err = f.service.Create(ctx, caller, []services.OrderLine{
		{FoodID: f.pizza.ID.Hex(), Quantity: -3},
	})
	assert.ErrorIs(t, err, services.ErrInvalidOrderLine)

	_, err = f.service.Create(ctx, caller, []services.OrderLine{
		{FoodID: primitive.NewObjectID().Hex(), Quantity: 1},
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPayTargetsMostRecentNewOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	caller := customer()

	first, err := f.service.Create(ctx, caller, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)
	second, err := f.service.Create(ctx, caller, []services.OrderLine{{FoodID: f.curry.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)

	paid, err := f.service.Pay(ctx, caller, "tok_123")
	require.NoError(t, err)
	assert.Equal(t, second.ID, paid.ID)
	assert.Equal(t, models.StatusPaid, paid.Status)
	assert.Equal(t, "tok_123", paid.PaymentID)

	// The older order is still NEW and is the next payment target.
	paid, err = f.service.Pay(ctx, caller, "tok_456")
	require.NoError(t, err)
	assert.Equal(t, first.ID, paid.ID)

	// Nothing left to pay.
	_, err = f.service.Pay(ctx, caller, "tok_789")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPayIgnoresOtherUsersOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	alice, bob := customer(), customer()

	_, err := f.service.Create(ctx, alice, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)

	_, err = f.service.Pay(ctx, bob, "tok_bob")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	caller := customer()
	root := admin()

	order, err := f.service.Create(ctx, caller, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)

	// Non-admin callers never reach the repository.
	_, err = f.service.UpdateStatus(ctx, caller, order.ID.Hex(), true, false)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Neither signal set is rejected up front.
	_, err = f.service.UpdateStatus(ctx, root, order.ID.Hex(), false, false)
	assert.ErrorIs(t, err, services.ErrStatusFlags)
	unchanged, err := f.service.Get(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, unchanged.Status)

	// Expired wins even when both signals are set.
	failed, err := f.service.UpdateStatus(ctx, root, order.ID.Hex(), true, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, failed.Status)

	paid, err := f.service.UpdateStatus(ctx, root, order.ID.Hex(), true, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)

	_, err = f.service.UpdateStatus(ctx, root, primitive.NewObjectID().Hex(), true, false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTrackGuardsOwnership(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	alice, bob := customer(), customer()
	root := admin()

	order, err := f.service.Create(ctx, alice, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)

	got, err := f.service.Track(ctx, alice, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.service.Track(ctx, bob, order.ID.Hex())
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = f.service.Track(ctx, root, order.ID.Hex())
	assert.NoError(t, err)
}

func TestListScopesByCallerAndStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	alice, bob := customer(), customer()
	root := admin()

	_, err := f.service.Create(ctx, alice, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, alice, []services.OrderLine{{FoodID: f.curry.ID.Hex(), Quantity: 1}})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, bob, []services.OrderLine{{FoodID: f.pizza.ID.Hex(), Quantity: 3}})
	require.NoError(t, err)

	_, err = f.service.Pay(ctx, alice, "tok_a")
	require.NoError(t, err)

	// Owners see only their own orders, newest first.
	mine, err := f.service.List(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, !mine[0].CreatedAt.Before(mine[1].CreatedAt))
	for _, o := range mine {
		assert.Equal(t, alice.ID, o.UserID.Hex())
	}

	// Status narrows the owner's view.
	status := models.StatusNew
	newOnly, err := f.service.List(ctx, alice, &status)
	require.NoError(t, err)
	require.Len(t, newOnly, 1)
	assert.Equal(t, models.StatusNew, newOnly[0].Status)

	// Administrators see everything.
	all, err := f.service.List(ctx, root, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status = models.StatusPaid
	paidOnly, err := f.service.List(ctx, root, &status)
	require.NoError(t, err)
	require.Len(t, paidOnly, 1)
	assert.Equal(t, "tok_a", paidOnly[0].PaymentID)
}

func TestScopeFor(t *testing.T) {
	// Admin scope carries no owner restriction regardless of caller id.
	scope, err := services.ScopeFor(auth.Identity{ID: "not-an-objectid", Admin: true}, nil)
	require.NoError(t, err)
	assert.True(t, scope.OwnerID.IsZero())
	assert.Nil(t, scope.Status)

	caller := customer()
	status := models.StatusFailed
	scope, err = services.ScopeFor(caller, &status)
	require.NoError(t, err)
	assert.Equal(t, caller.ID, scope.OwnerID.Hex())
	require.NotNil(t, scope.Status)
	assert.Equal(t, models.StatusFailed, *scope.Status)

	_, err = services.ScopeFor(auth.Identity{ID: "not-an-objectid"}, nil)
	assert.Error(t, err)
}

func TestStatuses(t *testing.T) {
	f := newOrderFixture(t)
	assert.Equal(t, []models.OrderStatus{models.StatusNew, models.StatusPaid, models.StatusFailed}, f.service.Statuses())
}
