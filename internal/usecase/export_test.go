package usecase

import (
	"time"

	"github.com/papermart/papermart/internal/domain/repository"
)

// SetNow overrides the use case clock in tests.
func (u *OrderUseCase) SetNow(now func() time.Time) { u.now = now }

// Payments exposes the payment repository to tests.
func (u *PaymentUseCase) Payments() repository.PaymentRepository { return u.payments }
