package model

import "time"

// OrderStatus describes order review/fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusSubmitted  OrderStatus = "submitted"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusRejected   OrderStatus = "rejected"
)

// Subject classifies order topic for pricing.
type Subject string

const (
	SubjectArts     Subject = "arts"
	SubjectBusiness Subject = "business"
	SubjectCS       Subject = "cs"
	SubjectEM       Subject = "em"
)

// AssignmentType classifies requested deliverable for pricing.
type AssignmentType string

const (
	AssignmentCoursework    AssignmentType = "coursework"
	AssignmentBookReport    AssignmentType = "bookreport"
	AssignmentResearchPaper AssignmentType = "researchpaper"
	AssignmentThesis        AssignmentType = "thesis"
	AssignmentProposal      AssignmentType = "proposal"
)

// AcademicLevel classifies requested academic level for pricing.
type AcademicLevel string

const (
	LevelUndergraduate AcademicLevel = "undergraduate"
	LevelMasters       AcademicLevel = "masters"
	LevelPhD           AcademicLevel = "phd"
)

// WordsPerPage is the conversion rate used to derive page count.
const WordsPerPage = 250

// Order describes a unit of paid work placed by a customer.
type Order struct {
	ID              int64
	CustomerID      int64
	WordCount       int
	Pages           int
	Subject         Subject
	AssignmentType  AssignmentType
	AcademicLevel   AcademicLevel
	Deadline        time.Time
	Description     string
	PriceCents      int64
	TotalPriceCents int64
	Status          OrderStatus
	IsPaid          bool
	FreelancerID    *int64
	UploadedFiles   []string
	CompletedFiles  []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Valid reports whether the subject is a known pricing subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectArts, SubjectBusiness, SubjectCS, SubjectEM:
		return true
	}
	return false
}

// Valid reports whether the assignment type is known.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentCoursework, AssignmentBookReport, AssignmentResearchPaper, AssignmentThesis, AssignmentProposal:
		return true
	}
	return false
}

// Valid reports whether the academic level is known.
func (l AcademicLevel) Valid() bool {
	switch l {
	case LevelUndergraduate, LevelMasters, LevelPhD:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transitions are possible.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusRejected
}

// EffectiveStatus reports the order status as seen by clients. An accepted
// order with an assigned freelancer is work in progress even though the
// stored status only advances on submission.
func (o *Order) EffectiveStatus() OrderStatus {
	if o.Status == OrderStatusAccepted && o.FreelancerID != nil {
		return OrderStatusInProgress
	}
	return o.Status
}

// DerivePages converts word count to page count, rounding up.
func DerivePages(wordCount int) int {
	return (wordCount + WordsPerPage - 1) / WordsPerPage
}
