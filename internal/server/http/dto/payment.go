package dto

// CheckoutResponse carries the provider checkout session reference.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// VerifyPaymentRequest names the checkout session to verify.
type VerifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}

// PaymentResponse describes a payment transaction.
type PaymentResponse struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	SessionID string  `json:"session_id"`
}
