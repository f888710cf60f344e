package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Email: email, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StatusUpdateCall records an UpdateStatus invocation.
type StatusUpdateCall struct {
	OrderID  int64
	Expected model.OrderStatus
	Next     model.OrderStatus
	Patch    repository.OrderPatch
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn           func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn          func(context.Context, int64) (*model.Order, error)
	ListByCustomerFn   func(context.Context, int64) ([]model.Order, error)
	ListByFreelancerFn func(context.Context, int64) ([]model.Order, error)
	ListAllFn          func(context.Context) ([]model.Order, error)
	UpdateStatusFn     func(context.Context, int64, model.OrderStatus, model.OrderStatus, repository.OrderPatch) (*model.Order, error)
	AssignFn           func(context.Context, int64, int64) (*model.Order, error)

	Orders      []model.Order
	Created     []*model.Order
	UpdateCalls []StatusUpdateCall
}

// Create tracks invocations and returns the order with an id assigned.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	stored := *order
	stored.ID = int64(len(s.Created) + 1)
	s.Created = append(s.Created, &stored)
	return &stored, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return s.Orders, nil
}

// ListByFreelancer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByFreelancer(ctx context.Context, freelancerID int64) ([]model.Order, error) {
	if s.ListByFreelancerFn != nil {
		return s.ListByFreelancerFn(ctx, freelancerID)
	}
	return s.Orders, nil
}

// ListAll returns orders from configured slice.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx)
	}
	return s.Orders, nil
}

// UpdateStatus records the compare-and-set invocation and applies it against
// the stored slice.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus, patch repository.OrderPatch) (*model.Order, error) {
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{OrderID: id, Expected: expected, Next: next, Patch: patch})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, expected, next, patch)
	}
	for i := range s.Orders {
		if s.Orders[i].ID != id {
			continue
		}
		if s.Orders[i].Status != expected {
			return nil, domainErrors.Precondition("order is " + string(s.Orders[i].Status))
		}
		s.Orders[i].Status = next
		if patch.IsPaid != nil {
			s.Orders[i].IsPaid = *patch.IsPaid
		}
		if patch.CompletedFiles != nil {
			s.Orders[i].CompletedFiles = patch.CompletedFiles
		}
		order := s.Orders[i]
		return &order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AssignFreelancer sets the freelancer on an accepted unassigned order.
func (s *OrderRepositoryStub) AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error) {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, orderID, freelancerID)
	}
	for i := range s.Orders {
		if s.Orders[i].ID != orderID {
			continue
		}
		if s.Orders[i].Status != model.OrderStatusAccepted || s.Orders[i].FreelancerID != nil {
			return nil, domainErrors.Precondition("order is not accepted or already assigned")
		}
		id := freelancerID
		s.Orders[i].FreelancerID = &id
		order := s.Orders[i]
		return &order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// PaymentRepositoryStub keeps transactions in-memory with settle semantics
// matching the real storage.
type PaymentRepositoryStub struct {
	CreateFn func(context.Context, int64, int64, string) (*model.PaymentTransaction, error)
	SettleFn func(context.Context, string, string) (*model.PaymentTransaction, bool, error)

	mu           sync.Mutex
	Transactions []model.PaymentTransaction
	Next         int64
}

// Create stores a pending transaction.
func (s *PaymentRepositoryStub) Create(ctx context.Context, orderID, amountCents int64, sessionID string) (*model.PaymentTransaction, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, orderID, amountCents, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Next++
	tx := model.PaymentTransaction{
		ID:                s.Next,
		OrderID:           orderID,
		AmountCents:       amountCents,
		Status:            model.TransactionStatusPending,
		ExternalSessionID: sessionID,
	}
	s.Transactions = append(s.Transactions, tx)
	return &tx, nil
}

// GetBySessionID fetches by external session id.
func (s *PaymentRepositoryStub) GetBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.Transactions {
		if tx.ExternalSessionID == sessionID {
			found := tx
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByPaymentID fetches by external payment id.
func (s *PaymentRepositoryStub) GetByPaymentID(ctx context.Context, paymentID string) (*model.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.Transactions {
		if tx.ExternalPaymentID != nil && *tx.ExternalPaymentID == paymentID {
			found := tx
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Settle marks the transaction succeeded exactly once.
func (s *PaymentRepositoryStub) Settle(ctx context.Context, sessionID, paymentID string) (*model.PaymentTransaction, bool, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, sessionID, paymentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Transactions {
		if s.Transactions[i].ExternalSessionID != sessionID {
			continue
		}
		if s.Transactions[i].Status == model.TransactionStatusSucceeded {
			tx := s.Transactions[i]
			return &tx, false, nil
		}
		id := paymentID
		s.Transactions[i].Status = model.TransactionStatusSucceeded
		s.Transactions[i].ExternalPaymentID = &id
		tx := s.Transactions[i]
		return &tx, true, nil
	}
	return nil, false, domainErrors.ErrNotFound
}

// FailBySessionID fails the transaction unless already succeeded.
func (s *PaymentRepositoryStub) FailBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, bool, error) {
	return s.fail(func(tx *model.PaymentTransaction) bool { return tx.ExternalSessionID == sessionID })
}

// FailByPaymentID fails the transaction unless already succeeded.
func (s *PaymentRepositoryStub) FailByPaymentID(ctx context.Context, paymentID string) (*model.PaymentTransaction, bool, error) {
	return s.fail(func(tx *model.PaymentTransaction) bool {
		return tx.ExternalPaymentID != nil && *tx.ExternalPaymentID == paymentID
	})
}

func (s *PaymentRepositoryStub) fail(match func(*model.PaymentTransaction) bool) (*model.PaymentTransaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Transactions {
		if !match(&s.Transactions[i]) {
			continue
		}
		if s.Transactions[i].Status == model.TransactionStatusSucceeded {
			tx := s.Transactions[i]
			return &tx, false, nil
		}
		s.Transactions[i].Status = model.TransactionStatusFailed
		tx := s.Transactions[i]
		return &tx, true, nil
	}
	return nil, false, domainErrors.ErrNotFound
}

// SelectUnsettledBatch returns pending/processing transactions created before
// the cutoff.
func (s *PaymentRepositoryStub) SelectUnsettledBatch(ctx context.Context, limit int, cutoff time.Time) ([]model.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var batch []model.PaymentTransaction
	for i := range s.Transactions {
		if len(batch) == limit {
			break
		}
		if s.Transactions[i].Settled() || s.Transactions[i].CreatedAt.After(cutoff) {
			continue
		}
		s.Transactions[i].Status = model.TransactionStatusProcessing
		batch = append(batch, s.Transactions[i])
	}
	return batch, nil
}

// SubmissionRepositoryStub allows tests to customize submission behaviour.
type SubmissionRepositoryStub struct {
	CreateFn  func(context.Context, *model.Submission) (*model.Submission, error)
	GetByIDFn func(context.Context, int64) (*model.Submission, error)
	ListFn    func(context.Context, int64) ([]model.Submission, error)
	ApproveFn func(context.Context, int64) (*model.Submission, *model.Order, error)
	RejectFn  func(context.Context, int64, string) (*model.Submission, error)

	Submissions []model.Submission
	Created     []*model.Submission
}

// Create stores the submission with an id assigned.
func (s *SubmissionRepositoryStub) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sub)
	}
	stored := *sub
	stored.ID = int64(len(s.Created) + 1)
	stored.Status = model.SubmissionStatusPending
	s.Created = append(s.Created, &stored)
	return &stored, nil
}

// GetByID returns the stored submission or not found.
func (s *SubmissionRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, sub := range s.Submissions {
		if sub.ID == id {
			found := sub
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByOrder returns configured submissions.
func (s *SubmissionRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.Submission, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, orderID)
	}
	return s.Submissions, nil
}

// Approve executes the override or approves against the stored slice.
func (s *SubmissionRepositoryStub) Approve(ctx context.Context, id int64) (*model.Submission, *model.Order, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id)
	}
	for i := range s.Submissions {
		if s.Submissions[i].ID != id {
			continue
		}
		if s.Submissions[i].Status != model.SubmissionStatusPending {
			return nil, nil, domainErrors.Precondition("submission already reviewed")
		}
		s.Submissions[i].Status = model.SubmissionStatusApproved
		s.Submissions[i].IsDelivered = true
		sub := s.Submissions[i]
		order := &model.Order{ID: sub.OrderID, Status: model.OrderStatusCompleted, CompletedFiles: sub.FileRefs}
		return &sub, order, nil
	}
	return nil, nil, domainErrors.ErrNotFound
}

// Reject executes the override or rejects against the stored slice.
func (s *SubmissionRepositoryStub) Reject(ctx context.Context, id int64, feedback string) (*model.Submission, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, id, feedback)
	}
	for i := range s.Submissions {
		if s.Submissions[i].ID != id {
			continue
		}
		if s.Submissions[i].Status != model.SubmissionStatusPending {
			return nil, domainErrors.Precondition("submission already reviewed")
		}
		s.Submissions[i].Status = model.SubmissionStatusRejected
		s.Submissions[i].AdminFeedback = &feedback
		sub := s.Submissions[i]
		return &sub, nil
	}
	return nil, domainErrors.ErrNotFound
}
