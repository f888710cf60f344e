package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/papermart/papermart/internal/domain/model"
)

// ErrUnsupportedEvent marks provider events the reconciler does not consume.
// Handlers acknowledge them without touching any state.
var ErrUnsupportedEvent = errors.New("unsupported provider event")

// Client exposes payment provider operations used by the core.
type Client interface {
	CreateSession(ctx context.Context, order *model.Order) (*model.CheckoutSession, error)
	SessionOutcome(ctx context.Context, sessionID string) (*model.ProviderOutcome, error)
	VerifyEvent(payload []byte, signature string) (*model.ProviderEvent, error)
}

// StripeClient implements Client via Stripe Checkout.
type StripeClient struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *slog.Logger
}

// NewStripeClient builds a Stripe-backed provider client.
func NewStripeClient(apiKey, webhookSecret, successURL, cancelURL string, logger *slog.Logger) *StripeClient {
	return &StripeClient{
		api:           client.New(apiKey, nil),
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		logger:        logger,
	}
}

// CreateSession opens a Checkout session for the order's locked price. Each
// call carries a fresh idempotency key so a network-level retry cannot open
// two provider sessions for one attempt.
func (c *StripeClient) CreateSession(ctx context.Context, order *model.Order) (*model.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(strconv.FormatInt(order.ID, 10)),
		SuccessURL:        stripe.String(c.successURL),
		CancelURL:         stripe.String(c.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(order.TotalPriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Order #%d", order.ID)),
					},
				},
			},
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &model.CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// SessionOutcome polls the provider for the session's payment outcome.
func (c *StripeClient) SessionOutcome(ctx context.Context, sessionID string) (*model.ProviderOutcome, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	outcome := &model.ProviderOutcome{SessionID: sess.ID, Status: model.OutcomePending}
	if sess.PaymentIntent != nil {
		outcome.PaymentID = sess.PaymentIntent.ID
	}

	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		outcome.Status = model.OutcomePaid
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		outcome.Status = model.OutcomeFailed
	}

	return outcome, nil
}

// VerifyEvent checks the webhook signature and maps the event into a
// provider-neutral form. Signature failures reject the payload before it can
// reach the reconciler.
func (c *StripeClient) VerifyEvent(payload []byte, signature string) (*model.ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	out := &model.ProviderEvent{Type: string(event.Type), Outcome: model.OutcomePending}

	switch string(event.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode session event: %w", err)
		}
		out.SessionID = sess.ID
		if sess.PaymentIntent != nil {
			out.PaymentID = sess.PaymentIntent.ID
		}
		// completed fires for delayed payment methods before the charge
		// settles; only a paid session confirms the payment.
		if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
			out.Outcome = model.OutcomePaid
		}
	case "checkout.session.async_payment_failed", "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode session event: %w", err)
		}
		out.SessionID = sess.ID
		if sess.PaymentIntent != nil {
			out.PaymentID = sess.PaymentIntent.ID
		}
		out.Outcome = model.OutcomeFailed
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("decode payment intent event: %w", err)
		}
		out.PaymentID = intent.ID
		out.Outcome = model.OutcomeFailed
	default:
		c.logger.Debug("unsupported provider event", slog.String("type", string(event.Type)))
		return out, ErrUnsupportedEvent
	}

	return out, nil
}
