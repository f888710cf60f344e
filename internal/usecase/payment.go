package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/domain/repository"
)

// PaymentProvider abstracts the external payment service used for checkout.
type PaymentProvider interface {
	CreateSession(ctx context.Context, order *model.Order) (*model.CheckoutSession, error)
	SessionOutcome(ctx context.Context, sessionID string) (*model.ProviderOutcome, error)
}

// PaymentUseCase reconciles provider payment outcomes with stored state.
// Every confirmation path (webhook, client poll, background sweep) funnels
// into confirm, so the effect of a successful payment is applied exactly
// once no matter how many times and in which order the signals arrive.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	users    repository.UserRepository
	provider PaymentProvider
	notifier Notifier
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	provider PaymentProvider,
	notifier Notifier,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{orders: orders, payments: payments, users: users, provider: provider, notifier: notifier, logger: logger}
}

// Checkout creates a provider checkout session for the order and records a
// pending transaction tied to it. Repeat checkout on an unpaid order opens a
// new attempt.
func (u *PaymentUseCase) Checkout(ctx context.Context, customerID, orderID int64) (*model.CheckoutSession, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, domainErrors.ErrNotFound
	}
	if order.IsPaid {
		return nil, domainErrors.Precondition("order already paid")
	}
	if order.Status == model.OrderStatusRejected {
		return nil, domainErrors.Precondition("order rejected")
	}

	session, err := u.provider.CreateSession(ctx, order)
	if err != nil {
		return nil, err
	}

	if _, err := u.payments.Create(ctx, order.ID, order.TotalPriceCents, session.SessionID); err != nil {
		return nil, err
	}

	return session, nil
}

// Verify is the client poll path: it asks the provider for the session
// outcome and applies it. Duplicate confirmations are reported as success.
func (u *PaymentUseCase) Verify(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	outcome, err := u.provider.SessionOutcome(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch outcome.Status {
	case model.OutcomePaid:
		return u.confirm(ctx, sessionID, outcome.PaymentID)
	case model.OutcomeFailed:
		tx, _, err := u.payments.FailBySessionID(ctx, sessionID)
		return tx, err
	default:
		return u.payments.GetBySessionID(ctx, sessionID)
	}
}

// HandleProviderEvent is the webhook path. The event has already passed
// signature verification at the boundary.
func (u *PaymentUseCase) HandleProviderEvent(ctx context.Context, event *model.ProviderEvent) error {
	switch event.Outcome {
	case model.OutcomePaid:
		_, err := u.confirm(ctx, event.SessionID, event.PaymentID)
		return err
	case model.OutcomeFailed:
		if event.SessionID != "" {
			_, _, err := u.payments.FailBySessionID(ctx, event.SessionID)
			return err
		}
		_, _, err := u.payments.FailByPaymentID(ctx, event.PaymentID)
		return err
	default:
		u.logger.Info("ignoring provider event", slog.String("type", event.Type))
		return nil
	}
}

// UnsettledBatch returns stale unsettled transactions for the sweeper.
func (u *PaymentUseCase) UnsettledBatch(ctx context.Context, limit int, olderThan time.Duration) ([]model.PaymentTransaction, error) {
	return u.payments.SelectUnsettledBatch(ctx, limit, time.Now().Add(-olderThan))
}

// confirm is the single call site applying a payment success. The
// repository's Settle is a compare-and-set: exactly one of any number of
// racing callers observes applied=true, the rest short-circuit on the
// already-succeeded row.
func (u *PaymentUseCase) confirm(ctx context.Context, sessionID, paymentID string) (*model.PaymentTransaction, error) {
	tx, applied, err := u.payments.Settle(ctx, sessionID, paymentID)
	if err != nil {
		return nil, err
	}
	if applied {
		u.notifyPaid(ctx, tx)
	}
	return tx, nil
}

func (u *PaymentUseCase) notifyPaid(ctx context.Context, tx *model.PaymentTransaction) {
	order, err := u.orders.GetByID(ctx, tx.OrderID)
	if err != nil {
		u.logger.Warn("paid order lookup failed", slog.Int64("order", tx.OrderID), slog.String("error", err.Error()))
		return
	}
	customer, err := u.users.GetByID(ctx, order.CustomerID)
	if err != nil {
		u.logger.Warn("notification recipient lookup failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return
	}
	notifyBestEffort(ctx, u.notifier, u.logger, model.NotifyPaymentConfirmed, customer.Email, map[string]string{
		"order_id":     strconv.FormatInt(order.ID, 10),
		"amount_cents": strconv.FormatInt(tx.AmountCents, 10),
	})
}
