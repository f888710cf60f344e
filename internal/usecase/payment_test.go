package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	testhelpers "github.com/papermart/papermart/internal/test"
	"github.com/papermart/papermart/internal/usecase"
)

func newPaymentFixture(t *testing.T) (*usecase.PaymentUseCase, *testhelpers.OrderRepositoryStub, *testhelpers.PaymentRepositoryStub, *testhelpers.NotifierStub) {
	t.Helper()
	users := testhelpers.NewUserRepositoryStub()
	if _, err := users.Create(context.Background(), "customer@example.com", "hash", model.RoleCustomer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 10, CustomerID: 1, Status: model.OrderStatusPending, TotalPriceCents: 5859},
	}}
	payments := &testhelpers.PaymentRepositoryStub{}
	notifier := &testhelpers.NotifierStub{}
	uc := usecase.NewPaymentUseCase(orders, payments, users, testhelpers.PaymentProviderStub{}, notifier, testLogger())
	return uc, orders, payments, notifier
}

func TestCheckoutCreatesTransaction(t *testing.T) {
	uc, _, payments, _ := newPaymentFixture(t)

	session, err := uc.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.SessionID == "" || session.URL == "" {
		t.Fatalf("incomplete session: %+v", session)
	}
	if len(payments.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(payments.Transactions))
	}
	tx := payments.Transactions[0]
	if tx.OrderID != 10 || tx.AmountCents != 5859 || tx.Status != model.TransactionStatusPending {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.ExternalSessionID != session.SessionID {
		t.Fatalf("transaction not tied to session: %q vs %q", tx.ExternalSessionID, session.SessionID)
	}
}

func TestCheckoutHidesForeignOrder(t *testing.T) {
	uc, _, _, _ := newPaymentFixture(t)

	if _, err := uc.Checkout(context.Background(), 99, 10); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestCheckoutGuards(t *testing.T) {
	uc, orders, _, _ := newPaymentFixture(t)

	orders.Orders[0].IsPaid = true
	if _, err := uc.Checkout(context.Background(), 1, 10); !errors.Is(err, domainErrors.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for paid order, got %v", err)
	}

	orders.Orders[0].IsPaid = false
	orders.Orders[0].Status = model.OrderStatusRejected
	if _, err := uc.Checkout(context.Background(), 1, 10); !errors.Is(err, domainErrors.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for rejected order, got %v", err)
	}
}

func TestVerifySettlesOnce(t *testing.T) {
	uc, _, payments, notifier := newPaymentFixture(t)

	session, err := uc.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Webhook and poll race: both paths confirm the same session.
	if err := uc.HandleProviderEvent(context.Background(), &model.ProviderEvent{
		Type:      "checkout.session.completed",
		SessionID: session.SessionID,
		PaymentID: "pi_test",
		Outcome:   model.OutcomePaid,
	}); err != nil {
		t.Fatalf("webhook confirmation failed: %v", err)
	}
	tx, err := uc.Verify(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("duplicate confirmation must report success: %v", err)
	}
	if tx.Status != model.TransactionStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", tx.Status)
	}
	if len(notifier.Calls) != 1 {
		t.Fatalf("payment confirmation effect must apply exactly once, got %d notifications", len(notifier.Calls))
	}
	if notifier.Calls[0].Kind != model.NotifyPaymentConfirmed {
		t.Fatalf("unexpected notification kind %s", notifier.Calls[0].Kind)
	}
	if payments.Transactions[0].ExternalPaymentID == nil || *payments.Transactions[0].ExternalPaymentID != "pi_test" {
		t.Fatalf("expected payment id recorded, got %+v", payments.Transactions[0])
	}
}

func TestLateFailureDoesNotDowngrade(t *testing.T) {
	uc, _, payments, _ := newPaymentFixture(t)

	session, err := uc.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Verify(context.Background(), session.SessionID); err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	if err := uc.HandleProviderEvent(context.Background(), &model.ProviderEvent{
		Type:      "checkout.session.expired",
		SessionID: session.SessionID,
		Outcome:   model.OutcomeFailed,
	}); err != nil {
		t.Fatalf("late failure must be swallowed: %v", err)
	}
	if payments.Transactions[0].Status != model.TransactionStatusSucceeded {
		t.Fatalf("settled payment downgraded to %s", payments.Transactions[0].Status)
	}
}

func TestVerifyPendingOutcomeReturnsCurrentState(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 10, CustomerID: 1, Status: model.OrderStatusPending, TotalPriceCents: 100},
	}}
	payments := &testhelpers.PaymentRepositoryStub{}
	provider := testhelpers.PaymentProviderStub{Outcome: &model.ProviderOutcome{Status: model.OutcomePending}}
	uc := usecase.NewPaymentUseCase(orders, payments, users, provider, &testhelpers.NotifierStub{}, testLogger())

	session, err := uc.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx, err := uc.Verify(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != model.TransactionStatusPending {
		t.Fatalf("expected pending, got %s", tx.Status)
	}
}

func TestHandleProviderEventFailureByPaymentID(t *testing.T) {
	uc, _, payments, _ := newPaymentFixture(t)

	session, err := uc.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paymentID := "pi_failed"
	payments.Transactions[0].ExternalPaymentID = &paymentID

	if err := uc.HandleProviderEvent(context.Background(), &model.ProviderEvent{
		Type:      "payment_intent.payment_failed",
		PaymentID: paymentID,
		Outcome:   model.OutcomeFailed,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tx, err := uc.Payments().GetBySessionID(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != model.TransactionStatusFailed {
		t.Fatalf("expected failed, got %s", tx.Status)
	}
}
