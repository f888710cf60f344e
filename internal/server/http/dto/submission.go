package dto

import "time"

// SubmitWorkRequest describes a freelancer delivery payload.
type SubmitWorkRequest struct {
	FileRefs []string `json:"file_refs"`
	Comment  string   `json:"comment,omitempty"`
}

// RejectSubmissionRequest carries mandatory admin feedback.
type RejectSubmissionRequest struct {
	Feedback string `json:"feedback"`
}

// SubmissionResponse describes a submission entry.
type SubmissionResponse struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	FreelancerID  int64     `json:"freelancer_id"`
	FileRefs      []string  `json:"file_refs"`
	Status        string    `json:"status"`
	AdminFeedback *string   `json:"admin_feedback,omitempty"`
	IsDelivered   bool      `json:"is_delivered"`
	CreatedAt     time.Time `json:"created_at"`
}
