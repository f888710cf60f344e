package repository

import (
	"context"
	"time"

	"github.com/papermart/papermart/internal/domain/model"
)

// PaymentRepository manages checkout transactions. Settle and the Fail
// variants are conditional updates: they report whether this call applied the
// change, so racing confirmation paths apply the effect exactly once.
type PaymentRepository interface {
	Create(ctx context.Context, orderID, amountCents int64, sessionID string) (*model.PaymentTransaction, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.PaymentTransaction, error)

	// Settle marks the transaction succeeded, records the provider payment id
	// and flags the order as paid, all in one storage transaction. A
	// transaction that is already succeeded is returned unchanged with
	// applied=false.
	Settle(ctx context.Context, sessionID, paymentID string) (tx *model.PaymentTransaction, applied bool, err error)

	// FailBySessionID marks the transaction failed unless it already
	// succeeded; a late failure never downgrades a settled payment.
	FailBySessionID(ctx context.Context, sessionID string) (tx *model.PaymentTransaction, applied bool, err error)
	FailByPaymentID(ctx context.Context, paymentID string) (tx *model.PaymentTransaction, applied bool, err error)

	// SelectUnsettledBatch picks pending/processing transactions created
	// before the cutoff and stamps them processing, skipping rows locked by
	// concurrent sweeps.
	SelectUnsettledBatch(ctx context.Context, limit int, cutoff time.Time) ([]model.PaymentTransaction, error)
}
