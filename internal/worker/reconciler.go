package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/papermart/papermart/internal/domain/errors"
	"github.com/papermart/papermart/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by
// the reconciliation sweeper.
type PaymentFacade interface {
	UnsettledTransactions(ctx context.Context, limit int) ([]model.PaymentTransaction, error)
	ReconcileTransaction(ctx context.Context, sessionID string) error
}

// Reconciler sweeps transactions stuck in pending/processing and replays the
// provider outcome through the idempotent confirmation path. It is a safety
// net for the case where both the webhook and the customer's poll are lost;
// idempotent settlement makes the replay harmless when they were not.
type Reconciler struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.PaymentTransaction
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the sweeper worker pool.
func NewReconciler(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.PaymentTransaction, batchSize*workers),
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	transactions, err := r.facade.UnsettledTransactions(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch unsettled transactions failed", slog.String("error", err.Error()))
		return
	}
	for _, tx := range transactions {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- tx:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case tx, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handle(ctx, tx)
		}
	}
}

func (r *Reconciler) handle(ctx context.Context, tx model.PaymentTransaction) {
	err := r.facade.ReconcileTransaction(ctx, tx.ExternalSessionID)
	if err == nil {
		return
	}
	if errors.Is(err, domainErrors.ErrNotFound) || errors.Is(err, domainErrors.ErrConflictRace) {
		// Lost the race to another confirmation path; the next sweep sees
		// the settled row and skips it.
		r.logger.Info("reconciliation skipped", slog.String("session", tx.ExternalSessionID), slog.String("reason", err.Error()))
		return
	}
	r.logger.Error("reconciliation failed", slog.String("session", tx.ExternalSessionID), slog.String("error", err.Error()))
}
