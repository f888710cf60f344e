package model

// NotificationKind identifies a notification template.
type NotificationKind string

const (
	NotifyOrderAccepted       NotificationKind = "order-accepted"
	NotifyOrderRejected       NotificationKind = "order-rejected"
	NotifySubmissionApproved  NotificationKind = "submission-approved"
	NotifySubmissionRejected  NotificationKind = "submission-rejected"
	NotifyPaymentConfirmed    NotificationKind = "payment-confirmed"
)
