package handlers

import (
	"context"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, model.Role, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, customerID int64, req usecase.CreateOrderRequest) (*model.Order, error)
	Order(ctx context.Context, viewerID int64, role model.Role, orderID int64) (*model.Order, error)
	Orders(ctx context.Context, viewerID int64, role model.Role) ([]model.Order, error)
	AcceptOrder(ctx context.Context, orderID int64) (*model.Order, error)
	RejectOrder(ctx context.Context, orderID int64) (*model.Order, error)
	AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error)
}

// SubmissionFacade covers the freelancer delivery and admin review flow.
type SubmissionFacade interface {
	SubmitWork(ctx context.Context, freelancerID int64, req usecase.SubmitWorkRequest) (*model.Submission, error)
	ApproveSubmission(ctx context.Context, submissionID int64) (*model.Submission, error)
	RejectSubmission(ctx context.Context, submissionID int64, feedback string) (*model.Submission, error)
	OrderSubmissions(ctx context.Context, orderID int64) ([]model.Submission, error)
}

// PaymentFacade provides checkout and settlement operations.
type PaymentFacade interface {
	Checkout(ctx context.Context, customerID, orderID int64) (*model.CheckoutSession, error)
	VerifyPayment(ctx context.Context, sessionID string) (*model.PaymentTransaction, error)
	HandleProviderEvent(ctx context.Context, event *model.ProviderEvent) error
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	OrderFacade
	SubmissionFacade
	PaymentFacade
}

// WebhookVerifier checks a raw provider callback against its signature.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (*model.ProviderEvent, error)
}
