package loans

import "time"

// Config holds the lending policy.
type Config struct {
	// MaxOutstandingLoansPerMember caps concurrent loans per member. Default: 3
	MaxOutstandingLoansPerMember int

	// DefaultLoanPeriodDays is used when no valid due date is requested. Default: 14
	DefaultLoanPeriodDays int

	// RejectRepeatReturn makes returning an already returned loan fail
	// instead of recomputing the penalty. Default: false
	RejectRepeatReturn bool

	// BookWriteAttempts is how many times the book availability write is tried. Default: 3
	BookWriteAttempts int

	// BookWriteBackoff is the delay before the first retry, doubled on each attempt. Default: 50ms
	BookWriteBackoff time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxOutstandingLoansPerMember: 3,
		DefaultLoanPeriodDays:        14,
		RejectRepeatReturn:           false,
		BookWriteAttempts:            3,
		BookWriteBackoff:             50 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxOutstandingLoansPerMember <= 0 {
		c.MaxOutstandingLoansPerMember = d.MaxOutstandingLoansPerMember
	}
	if c.DefaultLoanPeriodDays <= 0 {
		c.DefaultLoanPeriodDays = d.DefaultLoanPeriodDays
	}
	if c.BookWriteAttempts <= 0 {
		c.BookWriteAttempts = d.BookWriteAttempts
	}
	if c.BookWriteBackoff < 0 {
		c.BookWriteBackoff = 0
	}
	return c
}
