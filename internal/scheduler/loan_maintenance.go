// Package scheduler runs periodic loan maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/loans"
)

// LoanMaintainer is the part of the loan engine the maintenance job drives.
type LoanMaintainer interface {
	ReconcileAll(ctx context.Context) (loans.ReconcileResult, error)
	ListOverdue() ([]entities.Loan, error)
}

// MaintenanceReport is the outcome of one maintenance run.
type MaintenanceReport struct {
	Reconcile loans.ReconcileResult
	Overdue   int
	RanAt     time.Time
}

// LoanMaintenanceScheduler periodically repairs flagged loans and logs overdue counts.
type LoanMaintenanceScheduler struct {
	engine   LoanMaintainer
	schedule string
	timeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	lastReport *MaintenanceReport
}

func NewLoanMaintenanceScheduler(engine LoanMaintainer, schedule string) *LoanMaintenanceScheduler {
	return &LoanMaintenanceScheduler{
		engine:   engine,
		schedule: schedule,
		timeout:  5 * time.Minute,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the job and stops it again when ctx is cancelled.
func (s *LoanMaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Loan maintenance started with schedule '%s' (%s). Next run: %v",
		s.schedule, DescribeCronSchedule(s.schedule), nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish.
func (s *LoanMaintenanceScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Printf("[SCHEDULER] Loan maintenance stopped")
}

// RunNow runs the job synchronously and returns its report.
func (s *LoanMaintenanceScheduler) RunNow() (*MaintenanceReport, error) {
	return s.run()
}

func (s *LoanMaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastReport returns the report of the most recent run, or nil.
func (s *LoanMaintenanceScheduler) LastReport() *MaintenanceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

func (s *LoanMaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

var errAlreadyRunning = fmt.Errorf("maintenance already in progress")

func (s *LoanMaintenanceScheduler) run() (*MaintenanceReport, error) {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] Loan maintenance skipped (already running)")
		return nil, errAlreadyRunning
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report := &MaintenanceReport{RanAt: time.Now()}

	result, reconcileErr := s.engine.ReconcileAll(ctx)
	report.Reconcile = result
	if reconcileErr != nil {
		log.Printf("[SCHEDULER] Reconciliation sweep finished with errors: %v", reconcileErr)
	}

	overdue, err := s.engine.ListOverdue()
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	for _, loan := range overdue {
		if loan.IsOutstanding() {
			report.Overdue++
		}
	}

	log.Printf("[SCHEDULER] Loan maintenance: %d reconciled of %d flagged, %d outstanding loans overdue",
		result.Repaired, result.Checked, report.Overdue)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return report, reconcileErr
}
