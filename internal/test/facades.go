package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn  func(context.Context, int64, usecase.CreateOrderRequest) (*model.Order, error)
	OrderFn   func(context.Context, int64, model.Role, int64) (*model.Order, error)
	OrdersFn  func(context.Context, int64, model.Role) ([]model.Order, error)
	AcceptFn  func(context.Context, int64) (*model.Order, error)
	RejectFn  func(context.Context, int64) (*model.Order, error)
	AssignFn  func(context.Context, int64, int64) (*model.Order, error)
	Default   *model.Order
	ListItems []model.Order
}

func (s OrderFacadeStub) fallback() *model.Order {
	if s.Default != nil {
		return s.Default
	}
	return &model.Order{ID: 1, CustomerID: 1, Status: model.OrderStatusPending}
}

// CreateOrder delegates to provided function or returns the default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, customerID int64, req usecase.CreateOrderRequest) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customerID, req)
	}
	return s.fallback(), nil
}

// Order returns the configured order.
func (s OrderFacadeStub) Order(ctx context.Context, viewerID int64, role model.Role, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, viewerID, role, orderID)
	}
	return s.fallback(), nil
}

// Orders returns predefined orders for the viewer.
func (s OrderFacadeStub) Orders(ctx context.Context, viewerID int64, role model.Role) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, viewerID, role)
	}
	return s.ListItems, nil
}

// AcceptOrder delegates or returns the default order as accepted.
func (s OrderFacadeStub) AcceptOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.AcceptFn != nil {
		return s.AcceptFn(ctx, orderID)
	}
	order := *s.fallback()
	order.Status = model.OrderStatusAccepted
	return &order, nil
}

// RejectOrder delegates or returns the default order as rejected.
func (s OrderFacadeStub) RejectOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, orderID)
	}
	order := *s.fallback()
	order.Status = model.OrderStatusRejected
	return &order, nil
}

// AssignFreelancer delegates or returns the default order with the assignee.
func (s OrderFacadeStub) AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error) {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, orderID, freelancerID)
	}
	order := *s.fallback()
	order.Status = model.OrderStatusAccepted
	order.FreelancerID = &freelancerID
	return &order, nil
}

// SubmissionFacadeStub simulates the delivery and review flow.
type SubmissionFacadeStub struct {
	SubmitFn  func(context.Context, int64, usecase.SubmitWorkRequest) (*model.Submission, error)
	ApproveFn func(context.Context, int64) (*model.Submission, error)
	RejectFn  func(context.Context, int64, string) (*model.Submission, error)
	ListFn    func(context.Context, int64) ([]model.Submission, error)
	ListItems []model.Submission
}

// SubmitWork delegates or returns a pending submission.
func (s SubmissionFacadeStub) SubmitWork(ctx context.Context, freelancerID int64, req usecase.SubmitWorkRequest) (*model.Submission, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, freelancerID, req)
	}
	return &model.Submission{ID: 1, OrderID: req.OrderID, FreelancerID: freelancerID, FileRefs: req.FileRefs, Status: model.SubmissionStatusPending}, nil
}

// ApproveSubmission delegates or returns an approved submission.
func (s SubmissionFacadeStub) ApproveSubmission(ctx context.Context, submissionID int64) (*model.Submission, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, submissionID)
	}
	return &model.Submission{ID: submissionID, Status: model.SubmissionStatusApproved, IsDelivered: true}, nil
}

// RejectSubmission delegates or returns a rejected submission.
func (s SubmissionFacadeStub) RejectSubmission(ctx context.Context, submissionID int64, feedback string) (*model.Submission, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, submissionID, feedback)
	}
	return &model.Submission{ID: submissionID, Status: model.SubmissionStatusRejected, AdminFeedback: &feedback}, nil
}

// OrderSubmissions returns preconfigured submissions.
func (s SubmissionFacadeStub) OrderSubmissions(ctx context.Context, orderID int64) ([]model.Submission, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, orderID)
	}
	return s.ListItems, nil
}

// PaymentFacadeStub simulates checkout and settlement operations.
type PaymentFacadeStub struct {
	CheckoutFn func(context.Context, int64, int64) (*model.CheckoutSession, error)
	VerifyFn   func(context.Context, string) (*model.PaymentTransaction, error)
	EventFn    func(context.Context, *model.ProviderEvent) error
	Events     []*model.ProviderEvent
}

// Checkout returns a configured or default session.
func (s *PaymentFacadeStub) Checkout(ctx context.Context, customerID, orderID int64) (*model.CheckoutSession, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, customerID, orderID)
	}
	return &model.CheckoutSession{SessionID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

// VerifyPayment returns a configured or settled transaction.
func (s *PaymentFacadeStub) VerifyPayment(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, sessionID)
	}
	return &model.PaymentTransaction{ID: 1, OrderID: 1, ExternalSessionID: sessionID, Status: model.TransactionStatusSucceeded}, nil
}

// HandleProviderEvent records the event.
func (s *PaymentFacadeStub) HandleProviderEvent(ctx context.Context, event *model.ProviderEvent) error {
	if s.EventFn != nil {
		return s.EventFn(ctx, event)
	}
	s.Events = append(s.Events, event)
	return nil
}

// MarketFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	SubmissionFacadeStub
	PaymentFacadeStub
}

// WebhookVerifierStub returns a canned provider event.
type WebhookVerifierStub struct {
	VerifyFn func([]byte, string) (*model.ProviderEvent, error)
	Event    *model.ProviderEvent
	Err      error
}

// VerifyEvent returns configured event or error.
func (s WebhookVerifierStub) VerifyEvent(payload []byte, signature string) (*model.ProviderEvent, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(payload, signature)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Event != nil {
		return s.Event, nil
	}
	return &model.ProviderEvent{Type: "checkout.session.completed", SessionID: "cs_test", Outcome: model.OutcomePaid}, nil
}

// ReconcileCall records a sweeper reconciliation request.
type ReconcileCall struct {
	SessionID string
}

// WorkerFacadeStub mimics sweeper interactions with the market facade.
type WorkerFacadeStub struct {
	Batches     [][]model.PaymentTransaction
	UnsettledFn func(context.Context, int) ([]model.PaymentTransaction, error)
	ReconcileFn func(context.Context, string) error
	Calls       []ReconcileCall
	mu          sync.Mutex
	batchCount  int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// UnsettledTransactions returns batches from the configured queue.
func (s *WorkerFacadeStub) UnsettledTransactions(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	if s.UnsettledFn != nil {
		return s.UnsettledFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReconcileTransaction records reconciliation requests.
func (s *WorkerFacadeStub) ReconcileTransaction(ctx context.Context, sessionID string) error {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ReconcileCall{SessionID: sessionID})
	return nil
}

// PaymentProviderStub fakes the checkout provider for use case tests.
type PaymentProviderStub struct {
	CreateFn  func(context.Context, *model.Order) (*model.CheckoutSession, error)
	OutcomeFn func(context.Context, string) (*model.ProviderOutcome, error)
	Outcome   *model.ProviderOutcome
	Err       error
}

// CreateSession returns configured response or a default session.
func (s PaymentProviderStub) CreateSession(ctx context.Context, order *model.Order) (*model.CheckoutSession, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return &model.CheckoutSession{SessionID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

// SessionOutcome returns configured outcome or paid by default.
func (s PaymentProviderStub) SessionOutcome(ctx context.Context, sessionID string) (*model.ProviderOutcome, error) {
	if s.OutcomeFn != nil {
		return s.OutcomeFn(ctx, sessionID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Outcome != nil {
		return s.Outcome, nil
	}
	return &model.ProviderOutcome{SessionID: sessionID, PaymentID: "pi_test", Status: model.OutcomePaid}, nil
}

// NotificationCall records a dispatched notification.
type NotificationCall struct {
	Kind      model.NotificationKind
	Recipient string
	Payload   map[string]string
}

// NotifierStub records notifications for assertions.
type NotifierStub struct {
	NotifyFn func(context.Context, model.NotificationKind, string, map[string]string) error
	mu       sync.Mutex
	Calls    []NotificationCall
}

// Notify records the call or delegates to the override.
func (s *NotifierStub) Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]string) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, kind, recipient, payload)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, NotificationCall{Kind: kind, Recipient: recipient, Payload: payload})
	return nil
}
