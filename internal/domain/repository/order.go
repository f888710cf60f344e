package repository

import (
	"context"

	"github.com/papermart/papermart/internal/domain/model"
)

// OrderPatch carries optional fields applied together with a status change.
// Nil fields are left untouched.
type OrderPatch struct {
	IsPaid         *bool
	CompletedFiles []string
}

// OrderRepository describes persistence operations with orders. Every
// mutating call has compare-and-set semantics: the expected current state is
// part of the query, so a plain read-then-write can never race.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByFreelancer(ctx context.Context, freelancerID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus, patch OrderPatch) (*model.Order, error)
	AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error)
}
