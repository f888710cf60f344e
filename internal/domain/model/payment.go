package model

import "time"

// TransactionStatus describes a checkout attempt's settlement state.
// Transitions only move forward; succeeded is final for all paths.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusSucceeded  TransactionStatus = "succeeded"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// PaymentTransaction tracks one checkout attempt against an order.
type PaymentTransaction struct {
	ID                int64
	OrderID           int64
	AmountCents       int64
	Status            TransactionStatus
	ExternalSessionID string
	ExternalPaymentID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Settled reports whether the transaction reached a terminal status.
func (t *PaymentTransaction) Settled() bool {
	return t.Status == TransactionStatusSucceeded || t.Status == TransactionStatusFailed
}

// CheckoutSession is the provider-issued session for a checkout attempt.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// OutcomeStatus is a provider-reported payment outcome.
type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomePaid    OutcomeStatus = "paid"
	OutcomeFailed  OutcomeStatus = "failed"
)

// ProviderOutcome is the result of polling the provider for a session.
type ProviderOutcome struct {
	SessionID string
	PaymentID string
	Status    OutcomeStatus
}

// ProviderEvent is a verified webhook event pushed by the payment provider.
// Failure events may carry only the external payment id.
type ProviderEvent struct {
	Type      string
	SessionID string
	PaymentID string
	Outcome   OutcomeStatus
}
