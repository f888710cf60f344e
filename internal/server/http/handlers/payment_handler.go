package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/papermart/papermart/internal/adapter/payment"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/server/http/dto"
)

// PaymentHandler manages checkout, verification, and provider callbacks.
type PaymentHandler struct {
	facade   PaymentFacade
	verifier WebhookVerifier
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, verifier WebhookVerifier) *PaymentHandler {
	return &PaymentHandler{facade: facade, verifier: verifier}
}

// Checkout handles POST /api/orders/:id/checkout.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	session, err := h.facade.Checkout(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{SessionID: session.SessionID, URL: session.URL})
}

// Verify handles POST /api/payments/verify. It polls the provider for the
// session outcome and settles the transaction; a repeated call on an already
// settled transaction returns the current state.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	tx, err := h.facade.VerifyPayment(c.Request.Context(), req.SessionID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(tx))
}

// Webhook handles POST /api/payments/webhook. The route is unauthenticated;
// trust comes from the provider signature.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event, err := h.verifier.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrUnsupportedEvent) {
			// Acknowledge so the provider stops retrying event types we
			// do not consume.
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.HandleProviderEvent(c.Request.Context(), event); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func toPaymentResponse(tx *model.PaymentTransaction) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        tx.ID,
		OrderID:   tx.OrderID,
		Amount:    float64(tx.AmountCents) / 100,
		Status:    string(tx.Status),
		SessionID: tx.ExternalSessionID,
	}
}
