package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/zaika/app/models"
)

// OrderRepository handles persistence for orders.
//
// MarkPaid and UpdateStatus are single atomic conditional updates; the
// store serializes concurrent transitions on the same order, so there is
// no read-modify-write race at this layer.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Find(ctx context.Context, scope models.OrderScope) ([]models.Order, error)
	// MarkPaid transitions the owner's most recently created NEW order to
	// PAID and records the payment token. Returns ErrNotFound when the
	// owner has no NEW order.
	MarkPaid(ctx context.Context, ownerID primitive.ObjectID, paymentID string) (*models.Order, error)
	// UpdateStatus transitions an order to the given status regardless of
	// its current state. Returns ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

type mongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(col *mongo.Collection) OrderRepository {
	return &mongoOrderRepository{col: col}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var order models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: find by id: %w", err)
	}
	return &order, nil
}

// Find lists orders matching the access scope, newest first.
func (r *mongoOrderRepository) Find(ctx context.Context, scope models.OrderScope) ([]models.Order, error) {
	filter := bson.M{}
	if !scope.OwnerID.IsZero() {
		filter["user_id"] = scope.OwnerID
	}
	if scope.Status != nil {
		filter["status"] = *scope.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) MarkPaid(ctx context.Context, ownerID primitive.ObjectID, paymentID string) (*models.Order, error) {
	filter := bson.M{"user_id": ownerID, "status": models.StatusNew}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusPaid,
		"payment_id": paymentID,
		"updated_at": time.Now().UTC(),
	}}
	// Sort picks the most recent NEW order deterministically when more
	// than one exists.
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetReturnDocument(options.After)

	var order models.Order
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: mark paid: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: update status: %w", err)
	}
	return &order, nil
}
