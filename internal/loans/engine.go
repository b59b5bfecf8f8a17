// Package loans implements the checkout and return rules of the library:
// borrowing eligibility, due dates, overdue penalties and the recovery path
// for the book availability write that follows every loan write.
package loans

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/utils"
)

// LendableItem is what the engine needs to know about a catalog item.
type LendableItem interface {
	PenaltyRatePerDay() float64
	IsBorrowable() bool
}

// LoanDetails is a loan joined in memory with its book and member.
type LoanDetails struct {
	Loan        entities.Loan `json:"loan"`
	BookTitle   string        `json:"book_title"`
	MemberName  string        `json:"member_name"`
	Overdue     bool          `json:"overdue"`
	DaysOverdue int           `json:"days_overdue"`
}

// ReconcileResult summarises a reconciliation sweep.
type ReconcileResult struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

type Engine struct {
	catalog    CatalogStore
	members    MembershipStore
	loans      LoanStore
	config     Config
	now        func() time.Time
	reconciler Reconciler

	memberLocks *keyedMutex
	bookLocks   *keyedMutex
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithReconciler sets where failed book writes are handed off for repair.
func WithReconciler(r Reconciler) Option {
	return func(e *Engine) {
		e.reconciler = r
	}
}

func NewEngine(catalog CatalogStore, members MembershipStore, loans LoanStore, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		members:     members,
		loans:       loans,
		config:      cfg.withDefaults(),
		now:         time.Now,
		memberLocks: newKeyedMutex(),
		bookLocks:   newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) today() time.Time {
	return utils.CivilDate(e.now())
}

// BorrowBook lends a book to a member. requestedDue is honoured when it is not
// before today; otherwise the default loan period applies.
//
// When the loan is stored but the book cannot be marked unavailable, the loan is
// returned together with a *ConsistencyError.
func (e *Engine) BorrowBook(ctx context.Context, isbn string, memberID uint, requestedDue *time.Time) (*entities.Loan, error) {
	unlockMember := e.memberLocks.Lock(strconv.FormatUint(uint64(memberID), 10))
	defer unlockMember()
	unlockBook := e.bookLocks.Lock(isbn)
	defer unlockBook()

	book, err := e.loadBook(isbn)
	if err != nil {
		return nil, err
	}

	member, err := e.members.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
		}
		return nil, storageErr("get member", err)
	}

	if !member.Active {
		return nil, fmt.Errorf("%w: %d", ErrMemberInactive, memberID)
	}

	var item LendableItem = *book
	if !item.IsBorrowable() {
		return nil, fmt.Errorf("%w: %s", ErrBookUnavailable, isbn)
	}

	// Loan records win over the flag, which lags after a failed book write.
	lent, err := e.loans.CountOutstandingForBook(book.ISBN)
	if err != nil {
		return nil, storageErr("count outstanding loans for book", err)
	}
	if lent > 0 {
		return nil, fmt.Errorf("%w: %s has an outstanding loan", ErrBookUnavailable, isbn)
	}

	outstanding, err := e.loans.CountOutstanding(memberID)
	if err != nil {
		return nil, storageErr("count outstanding loans", err)
	}
	if outstanding >= int64(e.config.MaxOutstandingLoansPerMember) {
		return nil, fmt.Errorf("%w: %d of %d", ErrLoanLimitExceeded, outstanding, e.config.MaxOutstandingLoansPerMember)
	}

	today := e.today()
	loan := &entities.Loan{
		BookISBN:           book.ISBN,
		MemberID:           member.ID,
		LoanDate:           today,
		ExpectedReturnDate: e.dueDate(today, requestedDue),
	}

	if err := e.loans.SaveLoan(loan); err != nil {
		return nil, storageErr("save loan", err)
	}

	out := *book
	out.Available = false
	if err := e.writeBook(ctx, &out); err != nil {
		return loan, e.flagForReconciliation(loan, err)
	}

	log.Printf("[LOANS] Loan %d: %s lent to member %d until %s",
		loan.ID, book.ISBN, member.ID, utils.FormatDate(loan.ExpectedReturnDate))
	return loan, nil
}

// ReturnBook closes a loan as of today and computes its penalty.
func (e *Engine) ReturnBook(ctx context.Context, loanID uint) (*entities.Loan, error) {
	loan, err := e.loadLoan(loanID)
	if err != nil {
		return nil, err
	}

	unlock := e.bookLocks.Lock(loan.BookISBN)
	defer unlock()

	// Reload under the book lock so a concurrent return is observed.
	loan, err = e.loadLoan(loanID)
	if err != nil {
		return nil, err
	}

	repeat := !loan.IsOutstanding()
	if repeat && e.config.RejectRepeatReturn {
		return nil, fmt.Errorf("%w: %d", ErrLoanAlreadyReturned, loanID)
	}

	book, err := e.loadBook(loan.BookISBN)
	if err != nil {
		return nil, err
	}

	var item LendableItem = *book
	returned := e.today()
	loan.ActualReturnDate = &returned
	loan.Penalty = loan.ComputePenalty(item.PenaltyRatePerDay())

	if err := e.loans.UpdateLoan(loan); err != nil {
		return nil, storageErr("update loan", err)
	}

	// The book stays out while any other loan on it is outstanding.
	others, err := e.loans.CountOutstandingForBook(book.ISBN)
	if err != nil {
		return loan, e.flagForReconciliation(loan, err)
	}
	if others > 0 {
		log.Printf("[LOANS] Loan %d closed, book %s still has %d outstanding loan(s)", loan.ID, book.ISBN, others)
		return loan, nil
	}

	shelved := *book
	shelved.Available = true
	if err := e.writeBook(ctx, &shelved); err != nil {
		return loan, e.flagForReconciliation(loan, err)
	}

	if loan.Penalty > 0 {
		log.Printf("[LOANS] Loan %d returned %d day(s) late, penalty %.2f", loan.ID, loan.OverdueDays(), loan.Penalty)
	}
	return loan, nil
}

// Reconcile makes the book of a loan agree with the loan records and clears the
// loan's reconciliation flag. It reports whether the book had to be rewritten.
func (e *Engine) Reconcile(ctx context.Context, loanID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	loan, err := e.loadLoan(loanID)
	if err != nil {
		return false, err
	}

	unlock := e.bookLocks.Lock(loan.BookISBN)
	defer unlock()

	loan, err = e.loadLoan(loanID)
	if err != nil {
		return false, err
	}

	book, err := e.loadBook(loan.BookISBN)
	if err != nil {
		return false, err
	}

	outstanding, err := e.loans.CountOutstandingForBook(book.ISBN)
	if err != nil {
		return false, storageErr("count outstanding loans for book", err)
	}

	repaired := false
	if want := outstanding == 0; book.Available != want {
		fixed := *book
		fixed.Available = want
		if err := e.catalog.UpdateBook(&fixed); err != nil {
			return false, storageErr("update book", err)
		}
		repaired = true
		log.Printf("[LOANS] Reconciled book %s: available=%t", book.ISBN, want)
	}

	if loan.NeedsReconciliation {
		loan.NeedsReconciliation = false
		if err := e.loans.UpdateLoan(loan); err != nil {
			return repaired, storageErr("update loan", err)
		}
	}

	return repaired, nil
}

// ReconcileAll runs Reconcile for every flagged loan. Individual failures are
// counted and joined into the returned error; the sweep keeps going.
func (e *Engine) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	flagged, err := e.loans.FindNeedingReconciliation()
	if err != nil {
		return result, storageErr("find loans needing reconciliation", err)
	}

	var errs []error
	for _, loan := range flagged {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result.Checked++
		repaired, err := e.Reconcile(ctx, loan.ID)
		if err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("loan %d: %w", loan.ID, err))
			continue
		}
		if repaired {
			result.Repaired++
		}
	}

	return result, errors.Join(errs...)
}

func (e *Engine) GetLoan(id uint) (*entities.Loan, error) {
	return e.loadLoan(id)
}

func (e *Engine) ListLoans() ([]entities.Loan, error) {
	loans, err := e.loans.FindAll()
	if err != nil {
		return nil, storageErr("list loans", err)
	}
	return loans, nil
}

func (e *Engine) ListOutstanding() ([]entities.Loan, error) {
	loans, err := e.loans.FindOutstanding()
	if err != nil {
		return nil, storageErr("list outstanding loans", err)
	}
	return loans, nil
}

// ListOverdue returns loans that are overdue as of today.
func (e *Engine) ListOverdue() ([]entities.Loan, error) {
	today := e.today()

	candidates, err := e.loans.FindOverdue(today)
	if err != nil {
		return nil, storageErr("list overdue loans", err)
	}

	overdue := make([]entities.Loan, 0, len(candidates))
	for _, loan := range candidates {
		if loan.IsOverdue(today) {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}

// ListByMember returns ErrMemberNotFound for unknown members rather than an empty list.
func (e *Engine) ListByMember(memberID uint) ([]entities.Loan, error) {
	if _, err := e.members.GetMemberByID(memberID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
		}
		return nil, storageErr("get member", err)
	}

	loans, err := e.loans.FindByMember(memberID)
	if err != nil {
		return nil, storageErr("list member loans", err)
	}
	return loans, nil
}

func (e *Engine) CountOutstanding(memberID uint) (int64, error) {
	count, err := e.loans.CountOutstanding(memberID)
	if err != nil {
		return 0, storageErr("count outstanding loans", err)
	}
	return count, nil
}

// Details returns the loan with its book title, member name and overdue status.
// Missing book or member records leave the matching field empty.
func (e *Engine) Details(id uint) (*LoanDetails, error) {
	loan, err := e.loadLoan(id)
	if err != nil {
		return nil, err
	}

	today := e.today()
	details := &LoanDetails{
		Loan:        *loan,
		Overdue:     loan.IsOverdue(today),
		DaysOverdue: loan.DaysLate(today),
	}

	if book, err := e.catalog.GetBook(loan.BookISBN); err == nil {
		details.BookTitle = book.Title
	} else if !errors.Is(err, entities.ErrNotFound) {
		return nil, storageErr("get book", err)
	}

	if member, err := e.members.GetMemberByID(loan.MemberID); err == nil {
		details.MemberName = member.FullName()
	} else if !errors.Is(err, entities.ErrNotFound) {
		return nil, storageErr("get member", err)
	}

	return details, nil
}

func (e *Engine) dueDate(today time.Time, requested *time.Time) time.Time {
	if requested != nil {
		due := utils.CivilDate(*requested)
		if !due.Before(today) {
			return due
		}
	}
	return utils.AddDays(today, e.config.DefaultLoanPeriodDays)
}

func (e *Engine) loadBook(isbn string) (*entities.Book, error) {
	book, err := e.catalog.GetBook(isbn)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
		}
		return nil, storageErr("get book", err)
	}
	return book, nil
}

func (e *Engine) loadLoan(id uint) (*entities.Loan, error) {
	loan, err := e.loans.GetLoan(id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrLoanNotFound, id)
		}
		return nil, storageErr("get loan", err)
	}
	return loan, nil
}

func (e *Engine) writeBook(ctx context.Context, book *entities.Book) error {
	return retryWithBackoff(ctx, e.config.BookWriteAttempts, e.config.BookWriteBackoff, func() error {
		return e.catalog.UpdateBook(book)
	})
}

// flagForReconciliation marks the loan and hands it to the reconciler.
// Failures here are logged only: the loan write already succeeded.
func (e *Engine) flagForReconciliation(loan *entities.Loan, cause error) error {
	log.Printf("[LOANS] Book write for loan %d failed, flagging for reconciliation: %v", loan.ID, cause)

	loan.NeedsReconciliation = true
	if err := e.loans.UpdateLoan(loan); err != nil {
		log.Printf("[LOANS] Failed to flag loan %d: %v", loan.ID, err)
	}

	if e.reconciler != nil {
		if err := e.reconciler.ScheduleReconciliation(loan.ID); err != nil {
			log.Printf("[LOANS] Failed to schedule reconciliation for loan %d: %v", loan.ID, err)
		}
	}

	return &ConsistencyError{LoanID: loan.ID, Err: storageErr("update book", cause)}
}
