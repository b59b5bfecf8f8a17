package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/loans"
)

// LoanReconciler repairs the book of a single loan.
type LoanReconciler interface {
	Reconcile(ctx context.Context, loanID uint) (bool, error)
}

// ReconcileLoanTask brings a book's availability back in line with its loans
// after a failed book write.
type ReconcileLoanTask struct {
	LoanID uint `json:"loan_id"`
}

func (t ReconcileLoanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_loan",
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReconcileLoanProcessor creates a processor function for ReconcileLoanTask.
// A loan that no longer exists is treated as done.
func ReconcileLoanProcessor(reconciler LoanReconciler) backlite.QueueProcessor[ReconcileLoanTask] {
	return func(ctx context.Context, task ReconcileLoanTask) error {
		if reconciler == nil {
			return fmt.Errorf("loan reconciler not configured")
		}

		repaired, err := reconciler.Reconcile(ctx, task.LoanID)
		if err != nil {
			if errors.Is(err, loans.ErrLoanNotFound) {
				log.Printf("[TASK] Loan %d no longer exists, skipping reconciliation", task.LoanID)
				return nil
			}
			return fmt.Errorf("reconcile loan %d: %w", task.LoanID, err)
		}

		if repaired {
			log.Printf("[TASK] Reconciled loan %d: book availability repaired", task.LoanID)
		} else {
			log.Printf("[TASK] Loan %d: book already consistent", task.LoanID)
		}
		return nil
	}
}

func NewReconcileLoanQueue(reconciler LoanReconciler) backlite.Queue {
	return backlite.NewQueue(ReconcileLoanProcessor(reconciler))
}

// Enqueuer stores tasks for background execution.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// ReconciliationScheduler hands failed loans to the reconcile_loan queue.
type ReconciliationScheduler struct {
	queue Enqueuer
}

func NewReconciliationScheduler(queue Enqueuer) *ReconciliationScheduler {
	return &ReconciliationScheduler{queue: queue}
}

func (s *ReconciliationScheduler) ScheduleReconciliation(loanID uint) error {
	ids, err := s.queue.Enqueue(ReconcileLoanTask{LoanID: loanID})
	if err != nil {
		return err
	}
	log.Printf("[TASK] Scheduled reconciliation of loan %d (task %v)", loanID, ids)
	return nil
}
