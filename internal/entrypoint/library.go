package entrypoint

import (
	"fmt"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	dbloans "github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/database/members"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/membership"
)

// Library is the wired domain layer shared by the server and the CLI commands.
type Library struct {
	DB         *database.Database
	Books      *books.Repository
	Members    *members.Repository
	Loans      *dbloans.Repository
	Catalog    *catalog.Service
	Membership *membership.Service
	Engine     *loans.Engine
}

// LoanPolicy converts the loan settings into an engine configuration.
func LoanPolicy(cfg config.Loans) loans.Config {
	return loans.Config{
		MaxOutstandingLoansPerMember: cfg.MaxOutstanding,
		DefaultLoanPeriodDays:        cfg.PeriodDays,
		RejectRepeatReturn:           cfg.RejectRepeatReturn,
		BookWriteAttempts:            cfg.BookWriteAttempts,
		BookWriteBackoff:             cfg.BookWriteBackoff,
	}
}

// OpenLibrary opens the configured database and builds the repositories,
// services and loan engine on top of it.
func OpenLibrary(cfg *config.Config, opts ...loans.Option) (*Library, error) {
	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	lib := &Library{
		DB:      db,
		Books:   books.NewRepository(db.DB),
		Members: members.NewRepository(db.DB),
		Loans:   dbloans.NewRepository(db.DB),
	}
	lib.Catalog = catalog.NewService(lib.Books, lib.Loans)
	lib.Membership = membership.NewService(lib.Members)
	lib.Engine = loans.NewEngine(lib.Books, lib.Members, lib.Loans, LoanPolicy(cfg.Loans), opts...)

	return lib, nil
}

func (l *Library) Close() error {
	return l.DB.Close()
}
