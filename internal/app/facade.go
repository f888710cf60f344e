package app

import (
	"context"
	"time"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/usecase"
)

// MarketFacade aggregates the marketplace use cases behind one surface used
// by HTTP handlers and the reconciliation sweeper.
type MarketFacade struct {
	auth        *usecase.AuthUseCase
	orders      *usecase.OrderUseCase
	submissions *usecase.SubmissionUseCase
	payments    *usecase.PaymentUseCase
	sweepGrace  time.Duration
}

// NewMarketFacade constructs MarketFacade. sweepGrace is the minimum age of
// an unsettled transaction before the sweeper picks it up.
func NewMarketFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, submissions *usecase.SubmissionUseCase, payments *usecase.PaymentUseCase, sweepGrace time.Duration) *MarketFacade {
	return &MarketFacade{auth: auth, orders: orders, submissions: submissions, payments: payments, sweepGrace: sweepGrace}
}

func (f *MarketFacade) Register(ctx context.Context, email, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password, role)
	return token, err
}

func (f *MarketFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketFacade) ParseToken(token string) (int64, model.Role, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketFacade) CreateOrder(ctx context.Context, customerID int64, req usecase.CreateOrderRequest) (*model.Order, error) {
	return f.orders.Create(ctx, customerID, req)
}

func (f *MarketFacade) Order(ctx context.Context, viewerID int64, role model.Role, orderID int64) (*model.Order, error) {
	return f.orders.GetForViewer(ctx, viewerID, role, orderID)
}

func (f *MarketFacade) Orders(ctx context.Context, viewerID int64, role model.Role) ([]model.Order, error) {
	return f.orders.ListForViewer(ctx, viewerID, role)
}

func (f *MarketFacade) AcceptOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Accept(ctx, orderID)
}

func (f *MarketFacade) RejectOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Reject(ctx, orderID)
}

func (f *MarketFacade) AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error) {
	return f.orders.Assign(ctx, orderID, freelancerID)
}

func (f *MarketFacade) SubmitWork(ctx context.Context, freelancerID int64, req usecase.SubmitWorkRequest) (*model.Submission, error) {
	return f.submissions.Submit(ctx, freelancerID, req)
}

func (f *MarketFacade) ApproveSubmission(ctx context.Context, submissionID int64) (*model.Submission, error) {
	return f.submissions.Approve(ctx, submissionID)
}

func (f *MarketFacade) RejectSubmission(ctx context.Context, submissionID int64, feedback string) (*model.Submission, error) {
	return f.submissions.Reject(ctx, submissionID, feedback)
}

func (f *MarketFacade) OrderSubmissions(ctx context.Context, orderID int64) ([]model.Submission, error) {
	return f.submissions.ListByOrder(ctx, orderID)
}

func (f *MarketFacade) Checkout(ctx context.Context, customerID, orderID int64) (*model.CheckoutSession, error) {
	return f.payments.Checkout(ctx, customerID, orderID)
}

func (f *MarketFacade) VerifyPayment(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	return f.payments.Verify(ctx, sessionID)
}

func (f *MarketFacade) HandleProviderEvent(ctx context.Context, event *model.ProviderEvent) error {
	return f.payments.HandleProviderEvent(ctx, event)
}

func (f *MarketFacade) UnsettledTransactions(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	return f.payments.UnsettledBatch(ctx, limit, f.sweepGrace)
}

func (f *MarketFacade) ReconcileTransaction(ctx context.Context, sessionID string) error {
	_, err := f.payments.Verify(ctx, sessionID)
	return err
}
