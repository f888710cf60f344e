package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage layer relies on; tests
// substitute a pgxmock pool through newPgxPool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type submissionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Submissions() repository.SubmissionRepository {
	return &submissionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES users(id),
            word_count INT NOT NULL,
            pages INT NOT NULL,
            subject TEXT NOT NULL,
            assignment_type TEXT NOT NULL,
            academic_level TEXT NOT NULL,
            deadline TIMESTAMPTZ NOT NULL,
            description TEXT NOT NULL,
            price_cents BIGINT NOT NULL,
            total_price_cents BIGINT NOT NULL,
            status TEXT NOT NULL,
            is_paid BOOLEAN NOT NULL DEFAULT FALSE,
            freelancer_id BIGINT REFERENCES users(id),
            uploaded_files TEXT[] NOT NULL DEFAULT '{}',
            completed_files TEXT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            amount_cents BIGINT NOT NULL,
            status TEXT NOT NULL,
            external_session_id TEXT UNIQUE NOT NULL,
            external_payment_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS submissions (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            freelancer_id BIGINT NOT NULL REFERENCES users(id),
            file_refs TEXT[] NOT NULL DEFAULT '{}',
            comment TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            admin_feedback TEXT,
            is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_freelancer ON orders(freelancer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payment_id ON payments(external_payment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_order ON submissions(order_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Email = email
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, role, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, email, password_hash, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, customer_id, word_count, pages, subject, assignment_type, academic_level,
       deadline, description, price_cents, total_price_cents, status, is_paid, freelancer_id,
       uploaded_files, completed_files, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.WordCount, &o.Pages, &o.Subject, &o.AssignmentType, &o.AcademicLevel,
		&o.Deadline, &o.Description, &o.PriceCents, &o.TotalPriceCents, &o.Status, &o.IsPaid, &o.FreelancerID,
		&o.UploadedFiles, &o.CompletedFiles, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (customer_id, word_count, pages, subject, assignment_type, academic_level,
                       deadline, description, price_cents, total_price_cents, status, uploaded_files)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id, created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.CustomerID, order.WordCount, order.Pages, order.Subject, order.AssignmentType, order.AcademicLevel,
		order.Deadline, order.Description, order.PriceCents, order.TotalPriceCents, order.Status, order.UploadedFiles,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, customerID)
}

func (r *orderRepository) ListByFreelancer(ctx context.Context, freelancerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE freelancer_id=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, freelancerID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.listOrders(ctx, query)
}

// UpdateStatus performs the compare-and-set transition pending the expected
// current status. Patch fields passed as NULL keep their stored values.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus, patch repository.OrderPatch) (*model.Order, error) {
	query := `UPDATE orders
                  SET status=$3,
                      is_paid=COALESCE($4, is_paid),
                      completed_files=COALESCE($5, completed_files),
                      updated_at=NOW()
                  WHERE id=$1 AND status=$2
                  RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, expected, next, patch.IsPaid, patch.CompletedFiles))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status == expected {
		return nil, domainErrors.ErrConflictRace
	}
	return nil, domainErrors.Precondition(fmt.Sprintf("order status is %s, expected %s", current.Status, expected))
}

// AssignFreelancer sets the freelancer on an accepted, unassigned order.
func (r *orderRepository) AssignFreelancer(ctx context.Context, orderID, freelancerID int64) (*model.Order, error) {
	query := `UPDATE orders SET freelancer_id=$2, updated_at=NOW()
                  WHERE id=$1 AND status=$3 AND freelancer_id IS NULL
                  RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, freelancerID, model.OrderStatusAccepted))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, getErr := r.GetByID(ctx, orderID)
	if getErr != nil {
		return nil, getErr
	}
	if current.FreelancerID != nil {
		return nil, domainErrors.Precondition("freelancer already assigned")
	}
	return nil, domainErrors.Precondition(fmt.Sprintf("order status is %s, expected %s", current.Status, model.OrderStatusAccepted))
}

// --- PaymentRepository implementation ---

const paymentColumns = `id, order_id, amount_cents, status, external_session_id, external_payment_id, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.PaymentTransaction, error) {
	var t model.PaymentTransaction
	err := row.Scan(&t.ID, &t.OrderID, &t.AmountCents, &t.Status, &t.ExternalSessionID, &t.ExternalPaymentID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *paymentRepository) Create(ctx context.Context, orderID, amountCents int64, sessionID string) (*model.PaymentTransaction, error) {
	const query = `INSERT INTO payments (order_id, amount_cents, status, external_session_id)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at, updated_at`
	t := model.PaymentTransaction{
		OrderID:           orderID,
		AmountCents:       amountCents,
		Status:            model.TransactionStatusPending,
		ExternalSessionID: sessionID,
	}
	err := r.storage.pool.QueryRow(ctx, query, orderID, amountCents, model.TransactionStatusPending, sessionID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &t, nil
}

func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_session_id=$1`
	t, err := scanPayment(r.storage.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *paymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_payment_id=$1`
	t, err := scanPayment(r.storage.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Settle is the idempotency anchor of payment reconciliation. The
// conditional UPDATE below is the check-then-act: concurrent callers
// serialize on the row, exactly one matches status <> succeeded, and the
// loser reads the post-condition and short-circuits.
func (r *paymentRepository) Settle(ctx context.Context, sessionID, paymentID string) (*model.PaymentTransaction, bool, error) {
	var settled *model.PaymentTransaction
	applied := false

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `UPDATE payments
                      SET status=$2, external_payment_id=$3, updated_at=NOW()
                      WHERE external_session_id=$1 AND status <> $2
                      RETURNING ` + paymentColumns
		t, err := scanPayment(tx.QueryRow(ctx, query, sessionID, model.TransactionStatusSucceeded, paymentID))
		if err == nil {
			const markPaid = `UPDATE orders SET is_paid=TRUE, updated_at=NOW() WHERE id=$1`
			if _, err := tx.Exec(ctx, markPaid, t.OrderID); err != nil {
				return err
			}
			settled = t
			applied = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		selectQuery := `SELECT ` + paymentColumns + ` FROM payments WHERE external_session_id=$1`
		t, err = scanPayment(tx.QueryRow(ctx, selectQuery, sessionID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if t.Status != model.TransactionStatusSucceeded {
			return domainErrors.ErrConflictRace
		}
		settled = t
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return settled, applied, nil
}

func (r *paymentRepository) FailBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, bool, error) {
	return r.fail(ctx, `external_session_id`, sessionID)
}

func (r *paymentRepository) FailByPaymentID(ctx context.Context, paymentID string) (*model.PaymentTransaction, bool, error) {
	return r.fail(ctx, `external_payment_id`, paymentID)
}

// fail marks a transaction failed unless it already settled. A failure
// signal arriving after success never downgrades the row.
func (r *paymentRepository) fail(ctx context.Context, column, key string) (*model.PaymentTransaction, bool, error) {
	query := `UPDATE payments SET status=$2, updated_at=NOW()
                  WHERE ` + column + `=$1 AND status IN ($3, $4)
                  RETURNING ` + paymentColumns
	t, err := scanPayment(r.storage.pool.QueryRow(ctx, query, key,
		model.TransactionStatusFailed, model.TransactionStatusPending, model.TransactionStatusProcessing))
	if err == nil {
		return t, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	selectQuery := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + column + `=$1`
	t, err = scanPayment(r.storage.pool.QueryRow(ctx, selectQuery, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domainErrors.ErrNotFound
		}
		return nil, false, err
	}
	return t, false, nil
}

// SelectUnsettledBatch picks stale unsettled transactions for the sweeper
// and stamps them processing. SKIP LOCKED keeps concurrent sweeps disjoint.
func (r *paymentRepository) SelectUnsettledBatch(ctx context.Context, limit int, cutoff time.Time) ([]model.PaymentTransaction, error) {
	selectQuery := `SELECT ` + paymentColumns + `
                        FROM payments
                        WHERE status IN ($1, $2) AND created_at < $3
                        ORDER BY created_at
                        LIMIT $4
                        FOR UPDATE SKIP LOCKED`

	var transactions []model.PaymentTransaction
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery,
			model.TransactionStatusPending, model.TransactionStatusProcessing, cutoff, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanPayment(rows)
			if err != nil {
				return err
			}
			transactions = append(transactions, *t)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range transactions {
			if transactions[i].Status != model.TransactionStatusPending {
				continue
			}
			if _, err := tx.Exec(ctx, `UPDATE payments SET status=$2, updated_at=NOW() WHERE id=$1`,
				transactions[i].ID, model.TransactionStatusProcessing); err != nil {
				return err
			}
			transactions[i].Status = model.TransactionStatusProcessing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// --- SubmissionRepository implementation ---

const submissionColumns = `id, order_id, freelancer_id, file_refs, comment, status, admin_feedback, is_delivered, created_at`

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var s model.Submission
	err := row.Scan(&s.ID, &s.OrderID, &s.FreelancerID, &s.FileRefs, &s.Comment, &s.Status, &s.AdminFeedback, &s.IsDelivered, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a pending submission and advances the order to submitted,
// holding the order row lock so the guard and the insert are one atomic step.
func (r *submissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	created := *sub
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockOrder = `SELECT status, freelancer_id FROM orders WHERE id=$1 FOR UPDATE`
		var status model.OrderStatus
		var freelancerID *int64
		if err := tx.QueryRow(ctx, lockOrder, sub.OrderID).Scan(&status, &freelancerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if freelancerID == nil || *freelancerID != sub.FreelancerID {
			return domainErrors.Precondition("order not assigned to caller")
		}
		switch status {
		case model.OrderStatusAccepted, model.OrderStatusInProgress, model.OrderStatusSubmitted:
		default:
			return domainErrors.Precondition("order not accepting submissions")
		}

		const insert = `INSERT INTO submissions (order_id, freelancer_id, file_refs, comment, status)
                        VALUES ($1, $2, $3, $4, $5)
                        RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insert, sub.OrderID, sub.FreelancerID, sub.FileRefs, sub.Comment, model.SubmissionStatusPending).
			Scan(&created.ID, &created.CreatedAt); err != nil {
			return err
		}
		created.Status = model.SubmissionStatusPending

		if status != model.OrderStatusSubmitted {
			const advance = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
			if _, err := tx.Exec(ctx, advance, sub.OrderID, model.OrderStatusSubmitted); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id=$1`
	sub, err := scanSubmission(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (r *submissionRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Approve settles the review in one transaction: submission pending ->
// approved + delivered, order submitted -> completed with the deliverable
// file refs copied over. The order compare-and-set is what makes a second
// approval for the same order fail.
func (r *submissionRepository) Approve(ctx context.Context, id int64) (*model.Submission, *model.Order, error) {
	var approved *model.Submission
	var completed *model.Order

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		updateSub := `UPDATE submissions SET status=$2, is_delivered=TRUE
                          WHERE id=$1 AND status=$3
                          RETURNING ` + submissionColumns
		sub, err := scanSubmission(tx.QueryRow(ctx, updateSub, id, model.SubmissionStatusApproved, model.SubmissionStatusPending))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			selectSub := `SELECT ` + submissionColumns + ` FROM submissions WHERE id=$1`
			current, selErr := scanSubmission(tx.QueryRow(ctx, selectSub, id))
			if selErr != nil {
				if errors.Is(selErr, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return selErr
			}
			return domainErrors.Precondition(fmt.Sprintf("submission status is %s, expected %s", current.Status, model.SubmissionStatusPending))
		}

		completeOrder := `UPDATE orders
                              SET status=$2, completed_files=$3, updated_at=NOW()
                              WHERE id=$1 AND status=$4
                              RETURNING ` + orderColumns
		order, err := scanOrder(tx.QueryRow(ctx, completeOrder, sub.OrderID,
			model.OrderStatusCompleted, sub.FileRefs, model.OrderStatusSubmitted))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			var status model.OrderStatus
			if selErr := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, sub.OrderID).Scan(&status); selErr != nil {
				return selErr
			}
			return domainErrors.Precondition(fmt.Sprintf("order status is %s, expected %s", status, model.OrderStatusSubmitted))
		}

		approved = sub
		completed = order
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return approved, completed, nil
}

// Reject records the feedback on a pending submission; the order row is left
// alone so the freelancer can resubmit.
func (r *submissionRepository) Reject(ctx context.Context, id int64, feedback string) (*model.Submission, error) {
	query := `UPDATE submissions SET status=$2, admin_feedback=$3
                  WHERE id=$1 AND status=$4
                  RETURNING ` + submissionColumns
	sub, err := scanSubmission(r.storage.pool.QueryRow(ctx, query, id,
		model.SubmissionStatusRejected, feedback, model.SubmissionStatusPending))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, domainErrors.Precondition(fmt.Sprintf("submission status is %s, expected %s", current.Status, model.SubmissionStatusPending))
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
