package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
//
// NEW → PAID is the happy path; FAILED is terminal (e.g. expiry).
type OrderStatus string

const (
	StatusNew    OrderStatus = "NEW"
	StatusPaid   OrderStatus = "PAID"
	StatusFailed OrderStatus = "FAILED"
)

// AllStatuses lists every lifecycle state, in progression order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusNew, StatusPaid, StatusFailed}
}

// ParseStatus maps a path/query value onto a known status.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusNew, StatusPaid, StatusFailed:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderItem is a line item snapshotted from the catalog at order creation.
type OrderItem struct {
	FoodID    primitive.ObjectID `bson:"food_id" json:"food_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is owned by exactly one user; the owner reference is immutable
// after creation. The item list is non-empty at creation and the order
// starts in StatusNew.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	PaymentID string             `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	Status    OrderStatus        `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderScope is the access-scoped query predicate for order reads.
// A zero OwnerID means unrestricted (administrator); Status narrows
// further when set. See services.ScopeFor.
type OrderScope struct {
	OwnerID primitive.ObjectID
	Status  *OrderStatus
}
