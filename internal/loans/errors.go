package loans

import (
	"errors"
	"fmt"
)

// Business rejections. Returned before any write and never retried.
var (
	ErrBookNotFound        = errors.New("book not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberInactive      = errors.New("member is not active")
	ErrBookUnavailable     = errors.New("book is not available")
	ErrLoanLimitExceeded   = errors.New("member has reached the outstanding loan limit")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAlreadyReturned = errors.New("loan has already been returned")
)

var (
	// ErrStorageFailure matches any *StorageError.
	ErrStorageFailure = errors.New("storage failure")
	// ErrReconciliationPending matches any *ConsistencyError.
	ErrReconciliationPending = errors.New("loan saved, book state pending reconciliation")
)

// StorageError wraps an error returned by one of the stores.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// ConsistencyError reports that the loan write succeeded but the book write did not.
// The loan is flagged for reconciliation and remains the source of truth.
type ConsistencyError struct {
	LoanID uint
	Err    error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("loan %d: %v: %v", e.LoanID, ErrReconciliationPending, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrReconciliationPending
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is one of the not-found rejections.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrLoanNotFound)
}
