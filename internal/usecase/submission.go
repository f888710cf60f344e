package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/domain/repository"
)

// SubmitWorkRequest carries a freelancer deliverable.
type SubmitWorkRequest struct {
	OrderID  int64
	FileRefs []string
	Comment  string
}

// SubmissionUseCase covers the freelancer submission sub-flow.
type SubmissionUseCase struct {
	orders      repository.OrderRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	notifier    Notifier
	logger      *slog.Logger
}

// NewSubmissionUseCase constructs SubmissionUseCase.
func NewSubmissionUseCase(
	orders repository.OrderRepository,
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{orders: orders, submissions: submissions, users: users, notifier: notifier, logger: logger}
}

// Submit creates a pending submission for the caller's assigned order.
// Resubmission after rejection is allowed; the repository advances the order
// to submitted when it was still accepted or in progress.
func (u *SubmissionUseCase) Submit(ctx context.Context, freelancerID int64, req SubmitWorkRequest) (*model.Submission, error) {
	if len(req.FileRefs) == 0 {
		return nil, domainErrors.Validation("fileRefs", "at least one file reference required")
	}

	order, err := u.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.FreelancerID == nil || *order.FreelancerID != freelancerID {
		return nil, domainErrors.Precondition("order not assigned to caller")
	}
	switch order.Status {
	case model.OrderStatusAccepted, model.OrderStatusInProgress, model.OrderStatusSubmitted:
	default:
		return nil, domainErrors.Precondition("order not accepting submissions")
	}

	sub := &model.Submission{
		OrderID:      req.OrderID,
		FreelancerID: freelancerID,
		FileRefs:     req.FileRefs,
		Comment:      req.Comment,
		Status:       model.SubmissionStatusPending,
	}

	return u.submissions.Create(ctx, sub)
}

// Approve marks the submission approved and delivered, completes the order
// and notifies both customer and freelancer. At most one submission per
// order can ever be approved; the completing compare-and-set enforces it.
func (u *SubmissionUseCase) Approve(ctx context.Context, submissionID int64) (*model.Submission, error) {
	sub, order, err := u.submissions.Approve(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"order_id":      strconv.FormatInt(order.ID, 10),
		"submission_id": strconv.FormatInt(sub.ID, 10),
	}
	if customer, err := u.users.GetByID(ctx, order.CustomerID); err == nil {
		notifyBestEffort(ctx, u.notifier, u.logger, model.NotifySubmissionApproved, customer.Email, payload)
	} else {
		u.logger.Warn("notification recipient lookup failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
	}
	if freelancer, err := u.users.GetByID(ctx, sub.FreelancerID); err == nil {
		notifyBestEffort(ctx, u.notifier, u.logger, model.NotifySubmissionApproved, freelancer.Email, payload)
	} else {
		u.logger.Warn("notification recipient lookup failed", slog.Int64("submission", sub.ID), slog.String("error", err.Error()))
	}

	return sub, nil
}

// Reject records admin feedback on the submission and notifies the
// freelancer. The order keeps its stored status so work can be resubmitted.
func (u *SubmissionUseCase) Reject(ctx context.Context, submissionID int64, feedback string) (*model.Submission, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, domainErrors.Validation("feedback", "must not be empty")
	}

	sub, err := u.submissions.Reject(ctx, submissionID, feedback)
	if err != nil {
		return nil, err
	}

	if freelancer, err := u.users.GetByID(ctx, sub.FreelancerID); err == nil {
		notifyBestEffort(ctx, u.notifier, u.logger, model.NotifySubmissionRejected, freelancer.Email, map[string]string{
			"order_id":      strconv.FormatInt(sub.OrderID, 10),
			"submission_id": strconv.FormatInt(sub.ID, 10),
			"feedback":      feedback,
		})
	} else {
		u.logger.Warn("notification recipient lookup failed", slog.Int64("submission", sub.ID), slog.String("error", err.Error()))
	}

	return sub, nil
}

// ListByOrder returns submissions for the order, newest first.
func (u *SubmissionUseCase) ListByOrder(ctx context.Context, orderID int64) ([]model.Submission, error) {
	return u.submissions.ListByOrder(ctx, orderID)
}
