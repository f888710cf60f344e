package model

import "time"

// SubmissionStatus describes admin review state of a deliverable.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission is a freelancer's deliverable attempt against an order.
// A rejected submission is kept; resubmission creates a new record.
type Submission struct {
	ID            int64
	OrderID       int64
	FreelancerID  int64
	FileRefs      []string
	Comment       string
	Status        SubmissionStatus
	AdminFeedback *string
	IsDelivered   bool
	CreatedAt     time.Time
}
