package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBook_PenaltyRatePerDay(t *testing.T) {
	tests := []struct {
		kind     ItemKind
		expected float64
	}{
		{ItemKindBook, 2.0},
		{ItemKindPeriodical, 1.0},
		{"", 2.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, Book{Kind: tt.kind}.PenaltyRatePerDay())
		})
	}
}

func TestBook_IsBorrowable(t *testing.T) {
	assert.True(t, Book{Available: true}.IsBorrowable())
	assert.False(t, Book{Available: false}.IsBorrowable())
}

func TestMember_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Member{FirstName: "Ada", LastName: "Lovelace"}.FullName())
}

func TestLoan_OverdueDaysAndPenalty(t *testing.T) {
	t.Run("returned five days late at 2.0 per day", func(t *testing.T) {
		loan := Loan{
			LoanDate:           date(2024, 1, 1),
			ExpectedReturnDate: date(2024, 1, 15),
			ActualReturnDate:   datePtr(2024, 1, 20),
		}

		assert.Equal(t, 5, loan.OverdueDays())
		assert.Equal(t, 10.0, loan.ComputePenalty(2.0))
	})

	t.Run("returned early has no penalty", func(t *testing.T) {
		loan := Loan{
			ExpectedReturnDate: date(2024, 1, 15),
			ActualReturnDate:   datePtr(2024, 1, 10),
		}

		assert.Equal(t, 0, loan.OverdueDays())
		assert.Equal(t, 0.0, loan.ComputePenalty(2.0))
	})

	t.Run("returned on the expected date has no penalty", func(t *testing.T) {
		loan := Loan{
			ExpectedReturnDate: date(2024, 1, 15),
			ActualReturnDate:   datePtr(2024, 1, 15),
		}

		assert.Equal(t, 0, loan.OverdueDays())
		assert.Equal(t, 0.0, loan.ComputePenalty(1.0))
	})

	t.Run("outstanding loan has zero overdue days", func(t *testing.T) {
		loan := Loan{ExpectedReturnDate: date(2000, 1, 1)}

		assert.True(t, loan.IsOutstanding())
		assert.Equal(t, 0, loan.OverdueDays())
	})
}

func TestLoan_IsOverdue(t *testing.T) {
	expected := date(2024, 1, 15)

	tests := []struct {
		name     string
		actual   *time.Time
		today    time.Time
		overdue  bool
		daysLate int
	}{
		{"outstanding before due date", nil, date(2024, 1, 10), false, 0},
		{"outstanding on due date", nil, date(2024, 1, 15), false, 0},
		{"outstanding after due date", nil, date(2024, 1, 18), true, 3},
		{"returned late", datePtr(2024, 1, 20), date(2024, 2, 1), true, 5},
		{"returned on time stays on time", datePtr(2024, 1, 15), date(2024, 3, 1), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := Loan{ExpectedReturnDate: expected, ActualReturnDate: tt.actual}

			assert.Equal(t, tt.overdue, loan.IsOverdue(tt.today))
			assert.Equal(t, tt.daysLate, loan.DaysLate(tt.today))
		})
	}
}
