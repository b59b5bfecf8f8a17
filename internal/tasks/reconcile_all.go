package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/loans"
)

// LoanSweeper reconciles every flagged loan.
type LoanSweeper interface {
	ReconcileAll(ctx context.Context) (loans.ReconcileResult, error)
}

// ReconcileAllLoansTask sweeps all loans flagged for reconciliation.
type ReconcileAllLoansTask struct{}

func (t ReconcileAllLoansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_all_loans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func ReconcileAllLoansProcessor(sweeper LoanSweeper) backlite.QueueProcessor[ReconcileAllLoansTask] {
	return func(ctx context.Context, task ReconcileAllLoansTask) error {
		if sweeper == nil {
			return fmt.Errorf("loan sweeper not configured")
		}

		result, err := sweeper.ReconcileAll(ctx)
		log.Printf("[TASK] Reconciliation sweep: %d checked, %d repaired, %d failed",
			result.Checked, result.Repaired, result.Failed)
		if err != nil {
			return fmt.Errorf("reconcile all loans: %w", err)
		}
		return nil
	}
}

func NewReconcileAllLoansQueue(sweeper LoanSweeper) backlite.Queue {
	return backlite.NewQueue(ReconcileAllLoansProcessor(sweeper))
}
