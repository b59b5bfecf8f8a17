// Package interfaces documents the core abstractions used throughout the application.
//
// Interfaces are defined by their consumers and satisfied by the repositories,
// services and engine. This package contains no runtime code, only the
// compile-time checks in checks.go.
//
// # Interface Categories
//
// ## Loan Engine Stores
//
//   - CatalogStore: read and write a book (internal/loans/stores.go)
//   - MembershipStore: read a member (internal/loans/stores.go)
//   - LoanStore: loan records and queries (internal/loans/stores.go)
//   - Reconciler: schedule repair of a flagged loan (internal/loans/stores.go)
//
// ## HTTP Dependencies
//
//   - CatalogService, MembershipService, LoanEngine (internal/http/stores.go)
//   - MaintenanceStatus: scheduler state for /health (internal/http/health.go)
//   - tasks.Enqueuer: queue for the reconciliation sweep (internal/tasks/reconcile_loan.go)
//
// ## Background Work
//
//   - LoanReconciler, LoanSweeper: task processors (internal/tasks/)
//   - LoanMaintainer: cron maintenance job (internal/scheduler/loan_maintenance.go)
//
// # Adding a New Item Kind
//
// The engine only sees catalog items through LendableItem:
//
//	type LendableItem interface {
//	    PenaltyRatePerDay() float64
//	    IsBorrowable() bool
//	}
//
//  1. Add the kind constant and its rate in internal/entities/library.go
//  2. Return the rate from Book.PenaltyRatePerDay
//  3. Add kind-specific validation in internal/catalog/service.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
