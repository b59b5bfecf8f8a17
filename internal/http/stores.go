package http

import (
	"context"
	"time"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/membership"
)

// This file holds the dependencies of the HTTP controllers. Each controller
// takes the narrowest of these it needs.

// CatalogService manages books and periodicals.
type CatalogService interface {
	AddBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(isbn string) error
	GetBook(isbn string) (*entities.Book, error)
	ListBooks() ([]entities.Book, error)
	ListAvailable() ([]entities.Book, error)
	Search(query string) ([]entities.Book, error)
	Stats() (catalog.Stats, error)
}

// MembershipService manages members.
type MembershipService interface {
	Register(member *entities.Member) error
	Update(member *entities.Member) error
	SetActive(id uint, active bool) (*entities.Member, error)
	GetMember(id uint) (*entities.Member, error)
	List() ([]entities.Member, error)
	ListActive() ([]entities.Member, error)
	Search(query string) ([]entities.Member, error)
	Stats() (membership.Stats, error)
}

// LoanEngine runs checkouts, returns and loan queries.
type LoanEngine interface {
	BorrowBook(ctx context.Context, isbn string, memberID uint, requestedDue *time.Time) (*entities.Loan, error)
	ReturnBook(ctx context.Context, loanID uint) (*entities.Loan, error)
	Reconcile(ctx context.Context, loanID uint) (bool, error)
	ReconcileAll(ctx context.Context) (loans.ReconcileResult, error)
	Details(id uint) (*loans.LoanDetails, error)
	ListLoans() ([]entities.Loan, error)
	ListOutstanding() ([]entities.Loan, error)
	ListOverdue() ([]entities.Loan, error)
	ListByMember(memberID uint) ([]entities.Loan, error)
	CountOutstanding(memberID uint) (int64, error)
}
