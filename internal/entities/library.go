package entities

import (
	"errors"
	"time"

	"github.com/mrlokans/librarian/internal/utils"
)

// ErrNotFound is returned by repositories when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

type ItemKind string

const (
	ItemKindBook       ItemKind = "book"
	ItemKindPeriodical ItemKind = "periodical"
)

// Per-day overdue rates in currency units.
const (
	BookPenaltyRatePerDay       = 2.0
	PeriodicalPenaltyRatePerDay = 1.0
)

type Book struct {
	ISBN            string    `gorm:"primaryKey;size:20" json:"isbn"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	PublicationYear int       `json:"publication_year"`
	Kind            ItemKind  `gorm:"size:20;index" json:"kind"`
	IssueNumber     int       `json:"issue_number,omitempty"` // periodicals only
	IssueMonth      string    `gorm:"size:20" json:"issue_month,omitempty"`
	Available       bool      `gorm:"index" json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PenaltyRatePerDay returns the overdue rate for this kind of item.
// Unknown kinds are charged as standard books.
func (b Book) PenaltyRatePerDay() float64 {
	switch b.Kind {
	case ItemKindPeriodical:
		return PeriodicalPenaltyRatePerDay
	default:
		return BookPenaltyRatePerDay
	}
}

// IsBorrowable reports whether the item can start a new loan.
func (b Book) IsBorrowable() bool {
	return b.Available
}

type Member struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	Active       bool      `gorm:"index" json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Loan links one book to one member. ActualReturnDate is nil while the loan is outstanding.
type Loan struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	BookISBN            string     `gorm:"index;size:20;not null" json:"book_isbn"`
	MemberID            uint       `gorm:"index;not null" json:"member_id"`
	LoanDate            time.Time  `json:"loan_date"`
	ExpectedReturnDate  time.Time  `gorm:"index" json:"expected_return_date"`
	ActualReturnDate    *time.Time `gorm:"index" json:"actual_return_date,omitempty"`
	Penalty             float64    `json:"penalty"`
	NeedsReconciliation bool       `gorm:"index" json:"needs_reconciliation"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (l Loan) IsOutstanding() bool {
	return l.ActualReturnDate == nil
}

// OverdueDays is the number of days between the expected and actual return dates,
// never negative. It stays 0 until the loan is returned.
func (l Loan) OverdueDays() int {
	if l.ActualReturnDate == nil {
		return 0
	}
	return max(0, utils.DaysBetween(l.ExpectedReturnDate, *l.ActualReturnDate))
}

// ComputePenalty multiplies the overdue days by the item's per-day rate.
func (l Loan) ComputePenalty(ratePerDay float64) float64 {
	return float64(l.OverdueDays()) * ratePerDay
}

// IsOverdue reports whether the loan is late as of today: still out after the
// expected date, or returned after it.
func (l Loan) IsOverdue(today time.Time) bool {
	expected := utils.CivilDate(l.ExpectedReturnDate)
	if l.ActualReturnDate == nil {
		return utils.CivilDate(today).After(expected)
	}
	return utils.CivilDate(*l.ActualReturnDate).After(expected)
}

// DaysLate is the current lateness as of today: OverdueDays for returned loans,
// the running count for outstanding ones.
func (l Loan) DaysLate(today time.Time) int {
	if l.ActualReturnDate != nil {
		return l.OverdueDays()
	}
	return max(0, utils.DaysBetween(l.ExpectedReturnDate, today))
}
