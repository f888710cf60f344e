package dto

import "time"

// CreateOrderRequest describes a new order payload.
type CreateOrderRequest struct {
	Description    string   `json:"description"`
	Subject        string   `json:"subject"`
	AssignmentType string   `json:"assignment_type"`
	AcademicLevel  string   `json:"academic_level"`
	WordCount      int      `json:"word_count"`
	Pages          int      `json:"pages,omitempty"`
	Deadline       time.Time `json:"deadline"`
	UploadedFiles  []string `json:"uploaded_files,omitempty"`
}

// AssignRequest names the freelancer to attach to an order.
type AssignRequest struct {
	FreelancerID int64 `json:"freelancer_id"`
}

// OrderResponse describes an order entry.
type OrderResponse struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	FreelancerID   *int64    `json:"freelancer_id,omitempty"`
	Description    string    `json:"description"`
	Subject        string    `json:"subject"`
	AssignmentType string    `json:"assignment_type"`
	AcademicLevel  string    `json:"academic_level"`
	WordCount      int       `json:"word_count"`
	Pages          int       `json:"pages"`
	Deadline       time.Time `json:"deadline"`
	Status         string    `json:"status"`
	Price          float64   `json:"price"`
	IsPaid         bool      `json:"is_paid"`
	UploadedFiles  []string  `json:"uploaded_files,omitempty"`
	CompletedFiles []string  `json:"completed_files,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
