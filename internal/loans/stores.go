package loans

import (
	"time"

	"github.com/mrlokans/librarian/internal/entities"
)

// CatalogStore is the part of the catalog the engine reads and writes.
// GetBook returns entities.ErrNotFound for unknown identifiers.
type CatalogStore interface {
	GetBook(isbn string) (*entities.Book, error)
	UpdateBook(book *entities.Book) error
}

// MembershipStore returns entities.ErrNotFound for unknown ids.
type MembershipStore interface {
	GetMemberByID(id uint) (*entities.Member, error)
}

type LoanStore interface {
	SaveLoan(loan *entities.Loan) error
	GetLoan(id uint) (*entities.Loan, error)
	UpdateLoan(loan *entities.Loan) error
	FindAll() ([]entities.Loan, error)
	FindOutstanding() ([]entities.Loan, error)
	FindOverdue(today time.Time) ([]entities.Loan, error)
	FindByMember(memberID uint) ([]entities.Loan, error)
	CountOutstanding(memberID uint) (int64, error)
	CountOutstandingForBook(isbn string) (int64, error)
	FindNeedingReconciliation() ([]entities.Loan, error)
}

// Reconciler schedules an asynchronous repair of a loan whose book write failed.
type Reconciler interface {
	ScheduleReconciliation(loanID uint) error
}
