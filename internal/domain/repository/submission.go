package repository

import (
	"context"

	"github.com/papermart/papermart/internal/domain/model"
)

// SubmissionRepository manages freelancer deliverables. Create, Approve and
// Reject enforce the order-side guards inside the same storage transaction
// that mutates the submission row.
type SubmissionRepository interface {
	// Create inserts a pending submission and advances the order to
	// submitted when it was accepted or in progress.
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)
	GetByID(ctx context.Context, id int64) (*model.Submission, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.Submission, error)

	// Approve marks the submission approved and delivered, completes the
	// order and copies the deliverable file refs onto it. Fails if the
	// submission is not pending or the order already completed.
	Approve(ctx context.Context, id int64) (*model.Submission, *model.Order, error)

	// Reject marks the submission rejected with admin feedback. The order is
	// left untouched so the freelancer can resubmit.
	Reject(ctx context.Context, id int64, feedback string) (*model.Submission, error)
}
