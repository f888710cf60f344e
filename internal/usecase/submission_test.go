package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	testhelpers "github.com/papermart/papermart/internal/test"
	"github.com/papermart/papermart/internal/usecase"
)

func TestSubmitRequiresFiles(t *testing.T) {
	uc := usecase.NewSubmissionUseCase(&testhelpers.OrderRepositoryStub{}, &testhelpers.SubmissionRepositoryStub{}, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	_, err := uc.Submit(context.Background(), 3, usecase.SubmitWorkRequest{OrderID: 1})
	var validation *domainErrors.ValidationError
	if !errors.As(err, &validation) || validation.Field != "fileRefs" {
		t.Fatalf("expected fileRefs validation error, got %v", err)
	}
}

func TestSubmitRequiresAssignment(t *testing.T) {
	other := int64(9)
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 1, CustomerID: 2, FreelancerID: &other, Status: model.OrderStatusAccepted},
	}}
	uc := usecase.NewSubmissionUseCase(orders, &testhelpers.SubmissionRepositoryStub{}, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	_, err := uc.Submit(context.Background(), 3, usecase.SubmitWorkRequest{OrderID: 1, FileRefs: []string{"draft.pdf"}})
	if !errors.Is(err, domainErrors.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for unassigned caller, got %v", err)
	}
}

func TestSubmitGuardsOrderStatus(t *testing.T) {
	freelancerID := int64(3)
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 1, CustomerID: 2, FreelancerID: &freelancerID, Status: model.OrderStatusCompleted},
	}}
	uc := usecase.NewSubmissionUseCase(orders, &testhelpers.SubmissionRepositoryStub{}, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	_, err := uc.Submit(context.Background(), freelancerID, usecase.SubmitWorkRequest{OrderID: 1, FileRefs: []string{"draft.pdf"}})
	if !errors.Is(err, domainErrors.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for completed order, got %v", err)
	}
}

func TestSubmitCreatesPendingSubmission(t *testing.T) {
	freelancerID := int64(3)
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 1, CustomerID: 2, FreelancerID: &freelancerID, Status: model.OrderStatusAccepted},
	}}
	submissions := &testhelpers.SubmissionRepositoryStub{}
	uc := usecase.NewSubmissionUseCase(orders, submissions, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	sub, err := uc.Submit(context.Background(), freelancerID, usecase.SubmitWorkRequest{OrderID: 1, FileRefs: []string{"draft.pdf"}, Comment: "first pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != model.SubmissionStatusPending {
		t.Fatalf("expected pending submission, got %s", sub.Status)
	}
	if sub.FreelancerID != freelancerID || sub.OrderID != 1 {
		t.Fatalf("unexpected submission %+v", sub)
	}
}

func TestApproveNotifiesBothParties(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	customer, _ := users.Create(context.Background(), "customer@example.com", "hash", model.RoleCustomer)
	freelancer, _ := users.Create(context.Background(), "freelancer@example.com", "hash", model.RoleFreelancer)

	submissions := &testhelpers.SubmissionRepositoryStub{
		ApproveFn: func(ctx context.Context, id int64) (*model.Submission, *model.Order, error) {
			sub := &model.Submission{ID: id, OrderID: 1, FreelancerID: freelancer.ID, FileRefs: []string{"final.pdf"}, Status: model.SubmissionStatusApproved, IsDelivered: true}
			order := &model.Order{ID: 1, CustomerID: customer.ID, Status: model.OrderStatusCompleted, CompletedFiles: sub.FileRefs}
			return sub, order, nil
		},
	}
	notifier := &testhelpers.NotifierStub{}
	uc := usecase.NewSubmissionUseCase(&testhelpers.OrderRepositoryStub{}, submissions, users, notifier, testLogger())

	sub, err := uc.Approve(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sub.IsDelivered || sub.Status != model.SubmissionStatusApproved {
		t.Fatalf("unexpected submission %+v", sub)
	}
	if len(notifier.Calls) != 2 {
		t.Fatalf("expected customer and freelancer notifications, got %d", len(notifier.Calls))
	}
	recipients := map[string]bool{}
	for _, call := range notifier.Calls {
		if call.Kind != model.NotifySubmissionApproved {
			t.Fatalf("unexpected kind %s", call.Kind)
		}
		recipients[call.Recipient] = true
	}
	if !recipients["customer@example.com"] || !recipients["freelancer@example.com"] {
		t.Fatalf("unexpected recipients %v", recipients)
	}
}

func TestApprovePropagatesGuardFailure(t *testing.T) {
	submissions := &testhelpers.SubmissionRepositoryStub{Submissions: []model.Submission{
		{ID: 5, OrderID: 1, Status: model.SubmissionStatusApproved},
	}}
	uc := usecase.NewSubmissionUseCase(&testhelpers.OrderRepositoryStub{}, submissions, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	if _, err := uc.Approve(context.Background(), 5); !errors.Is(err, domainErrors.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for reviewed submission, got %v", err)
	}
}

func TestRejectRequiresFeedback(t *testing.T) {
	uc := usecase.NewSubmissionUseCase(&testhelpers.OrderRepositoryStub{}, &testhelpers.SubmissionRepositoryStub{}, testhelpers.NewUserRepositoryStub(), nil, testLogger())

	_, err := uc.Reject(context.Background(), 5, "   ")
	var validation *domainErrors.ValidationError
	if !errors.As(err, &validation) || validation.Field != "feedback" {
		t.Fatalf("expected feedback validation error, got %v", err)
	}
}

func TestRejectNotifiesFreelancer(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	freelancer, _ := users.Create(context.Background(), "freelancer@example.com", "hash", model.RoleFreelancer)

	submissions := &testhelpers.SubmissionRepositoryStub{Submissions: []model.Submission{
		{ID: 5, OrderID: 1, FreelancerID: freelancer.ID, Status: model.SubmissionStatusPending},
	}}
	notifier := &testhelpers.NotifierStub{}
	uc := usecase.NewSubmissionUseCase(&testhelpers.OrderRepositoryStub{}, submissions, users, notifier, testLogger())

	sub, err := uc.Reject(context.Background(), 5, "citations missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != model.SubmissionStatusRejected {
		t.Fatalf("expected rejected, got %s", sub.Status)
	}
	if sub.AdminFeedback == nil || *sub.AdminFeedback != "citations missing" {
		t.Fatalf("feedback not recorded: %+v", sub)
	}
	if len(notifier.Calls) != 1 || notifier.Calls[0].Kind != model.NotifySubmissionRejected {
		t.Fatalf("expected one rejection notification, got %+v", notifier.Calls)
	}
	if notifier.Calls[0].Payload["feedback"] != "citations missing" {
		t.Fatalf("feedback missing from payload: %v", notifier.Calls[0].Payload)
	}
}
