package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/books"
	dbloans "github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/database/members"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/membership"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Loan engine stores
var _ loans.CatalogStore = (*books.Repository)(nil)
var _ loans.MembershipStore = (*members.Repository)(nil)
var _ loans.LoanStore = (*dbloans.Repository)(nil)

// Service stores
var _ catalog.Store = (*books.Repository)(nil)
var _ catalog.LoanCounter = (*dbloans.Repository)(nil)
var _ membership.Store = (*members.Repository)(nil)

// =============================================================================
// Domain
// =============================================================================

var _ loans.LendableItem = entities.Book{}

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.CatalogService = (*catalog.Service)(nil)
var _ http.MembershipService = (*membership.Service)(nil)
var _ http.LoanEngine = (*loans.Engine)(nil)
var _ http.MaintenanceStatus = (*scheduler.LoanMaintenanceScheduler)(nil)
var _ tasks.Enqueuer = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ loans.Reconciler = (*tasks.ReconciliationScheduler)(nil)
var _ tasks.LoanReconciler = (*loans.Engine)(nil)
var _ tasks.LoanSweeper = (*loans.Engine)(nil)
var _ scheduler.LoanMaintainer = (*loans.Engine)(nil)
