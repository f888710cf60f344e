package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/domain/repository"
	"github.com/papermart/papermart/internal/pricing"
)

// MinWordCount is the smallest order accepted by the marketplace.
const MinWordCount = 250

// MinDescriptionLength guards against empty work briefs.
const MinDescriptionLength = 10

// CreateOrderRequest carries validated-once order attributes. Raw payloads
// are decoded into this struct at the boundary; no ad hoc field access
// happens past this point.
type CreateOrderRequest struct {
	WordCount      int
	Pages          int
	Subject        model.Subject
	AssignmentType model.AssignmentType
	AcademicLevel  model.AcademicLevel
	Deadline       time.Time
	Description    string
	UploadedFiles  []string
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, notifier Notifier, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, notifier: notifier, logger: logger, now: time.Now}
}

// Create validates attributes, locks the price via the pricing engine and
// persists a pending, unpaid order. The price is never recomputed afterwards
// even if pricing constants change.
func (u *OrderUseCase) Create(ctx context.Context, customerID int64, req CreateOrderRequest) (*model.Order, error) {
	now := u.now()

	if req.WordCount < MinWordCount {
		return nil, domainErrors.Validation("wordCount", fmt.Sprintf("must be at least %d", MinWordCount))
	}
	if !req.Subject.Valid() {
		return nil, domainErrors.Validation("subject", "unknown subject")
	}
	if !req.AssignmentType.Valid() {
		return nil, domainErrors.Validation("assignmentType", "unknown assignment type")
	}
	if !req.AcademicLevel.Valid() {
		return nil, domainErrors.Validation("academicLevel", "unknown academic level")
	}
	if !req.Deadline.After(now) {
		return nil, domainErrors.Validation("deadline", "must be in the future")
	}
	if len(strings.TrimSpace(req.Description)) < MinDescriptionLength {
		return nil, domainErrors.Validation("description", fmt.Sprintf("must be at least %d characters", MinDescriptionLength))
	}

	pages := req.Pages
	if pages <= 0 {
		pages = model.DerivePages(req.WordCount)
	}

	days := pricing.DaysUntil(req.Deadline, now)
	cents := pricing.Quote(req.WordCount, req.Subject, req.AssignmentType, req.AcademicLevel, days)

	order := &model.Order{
		CustomerID:      customerID,
		WordCount:       req.WordCount,
		Pages:           pages,
		Subject:         req.Subject,
		AssignmentType:  req.AssignmentType,
		AcademicLevel:   req.AcademicLevel,
		Deadline:        req.Deadline,
		Description:     req.Description,
		PriceCents:      cents,
		TotalPriceCents: cents,
		Status:          model.OrderStatusPending,
		UploadedFiles:   req.UploadedFiles,
	}

	return u.orders.Create(ctx, order)
}

// Accept moves a pending order to accepted and notifies the customer.
func (u *OrderUseCase) Accept(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.UpdateStatus(ctx, orderID, model.OrderStatusPending, model.OrderStatusAccepted, repository.OrderPatch{})
	if err != nil {
		return nil, err
	}
	u.notifyCustomer(ctx, order, model.NotifyOrderAccepted)
	return order, nil
}

// Reject moves a pending order to the terminal rejected state and notifies
// the customer.
func (u *OrderUseCase) Reject(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.UpdateStatus(ctx, orderID, model.OrderStatusPending, model.OrderStatusRejected, repository.OrderPatch{})
	if err != nil {
		return nil, err
	}
	u.notifyCustomer(ctx, order, model.NotifyOrderRejected)
	return order, nil
}

// Assign records the freelancer on an accepted, unassigned order. Assignment
// does not change the stored order status.
func (u *OrderUseCase) Assign(ctx context.Context, orderID, freelancerID int64) (*model.Order, error) {
	freelancer, err := u.users.GetByID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if freelancer.Role != model.RoleFreelancer {
		return nil, domainErrors.Precondition("assignee is not a freelancer")
	}
	return u.orders.AssignFreelancer(ctx, orderID, freelancerID)
}

// GetForViewer returns the order if the viewer is its customer, its assigned
// freelancer, or an admin; otherwise it is reported as not found.
func (u *OrderUseCase) GetForViewer(ctx context.Context, viewerID int64, role model.Role, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case role == model.RoleAdmin:
	case order.CustomerID == viewerID:
	case order.FreelancerID != nil && *order.FreelancerID == viewerID:
	default:
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListForViewer returns the role-scoped order listing.
func (u *OrderUseCase) ListForViewer(ctx context.Context, viewerID int64, role model.Role) ([]model.Order, error) {
	switch role {
	case model.RoleAdmin:
		return u.orders.ListAll(ctx)
	case model.RoleFreelancer:
		return u.orders.ListByFreelancer(ctx, viewerID)
	default:
		return u.orders.ListByCustomer(ctx, viewerID)
	}
}

func (u *OrderUseCase) notifyCustomer(ctx context.Context, order *model.Order, kind model.NotificationKind) {
	customer, err := u.users.GetByID(ctx, order.CustomerID)
	if err != nil {
		u.logger.Warn("notification recipient lookup failed",
			slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return
	}
	notifyBestEffort(ctx, u.notifier, u.logger, kind, customer.Email, map[string]string{
		"order_id": strconv.FormatInt(order.ID, 10),
		"status":   string(order.EffectiveStatus()),
	})
}
