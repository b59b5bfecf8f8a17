package loans

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "loans.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Loan{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func saveLoan(t *testing.T, repo *Repository, loan entities.Loan) *entities.Loan {
	t.Helper()
	require.NoError(t, repo.SaveLoan(&loan))
	return &loan
}

func TestRepository_SaveAndGetLoan(t *testing.T) {
	repo := setupTestDB(t)

	loan := saveLoan(t, repo, entities.Loan{BookISBN: "9780441013593", MemberID: 1, LoanDate: day(1), ExpectedReturnDate: day(15)})
	assert.NotZero(t, loan.ID)

	got, err := repo.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "9780441013593", got.BookISBN)
	assert.True(t, got.ExpectedReturnDate.Equal(day(15)))
	assert.Nil(t, got.ActualReturnDate)
	assert.Zero(t, got.Penalty)

	_, err = repo.GetLoan(999)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_UpdateLoan(t *testing.T) {
	repo := setupTestDB(t)
	loan := saveLoan(t, repo, entities.Loan{BookISBN: "A", MemberID: 1, LoanDate: day(1), ExpectedReturnDate: day(15)})

	loan.ActualReturnDate = dayPtr(20)
	loan.Penalty = 10
	loan.NeedsReconciliation = true
	require.NoError(t, repo.UpdateLoan(loan))

	got, err := repo.GetLoan(loan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActualReturnDate)
	assert.True(t, got.ActualReturnDate.Equal(day(20)))
	assert.Equal(t, 10.0, got.Penalty)
	assert.True(t, got.NeedsReconciliation)

	got.NeedsReconciliation = false
	require.NoError(t, repo.UpdateLoan(got))
	again, err := repo.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.False(t, again.NeedsReconciliation)

	assert.ErrorIs(t, repo.UpdateLoan(&entities.Loan{ID: 999}), entities.ErrNotFound)
}

func TestRepository_Queries(t *testing.T) {
	repo := setupTestDB(t)

	returnedLate := saveLoan(t, repo, entities.Loan{BookISBN: "A", MemberID: 1, LoanDate: day(1), ExpectedReturnDate: day(15), ActualReturnDate: dayPtr(20), Penalty: 10})
	returnedOnTime := saveLoan(t, repo, entities.Loan{BookISBN: "B", MemberID: 1, LoanDate: day(1), ExpectedReturnDate: day(15), ActualReturnDate: dayPtr(15)})
	outLate := saveLoan(t, repo, entities.Loan{BookISBN: "C", MemberID: 1, LoanDate: day(1), ExpectedReturnDate: day(10)})
	outNotDue := saveLoan(t, repo, entities.Loan{BookISBN: "D", MemberID: 2, LoanDate: day(1), ExpectedReturnDate: day(25), NeedsReconciliation: true})
	outDueToday := saveLoan(t, repo, entities.Loan{BookISBN: "A", MemberID: 2, LoanDate: day(6), ExpectedReturnDate: day(20)})

	ids := func(loans []entities.Loan) []uint {
		var out []uint
		for _, l := range loans {
			out = append(out, l.ID)
		}
		return out
	}

	t.Run("FindAll", func(t *testing.T) {
		all, err := repo.FindAll()
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("FindOutstanding", func(t *testing.T) {
		out, err := repo.FindOutstanding()
		require.NoError(t, err)
		assert.Equal(t, []uint{outLate.ID, outNotDue.ID, outDueToday.ID}, ids(out))
	})

	t.Run("FindOverdue", func(t *testing.T) {
		overdue, err := repo.FindOverdue(day(20))
		require.NoError(t, err)
		assert.Equal(t, []uint{returnedLate.ID, outLate.ID}, ids(overdue))
		assert.NotContains(t, ids(overdue), returnedOnTime.ID)
	})

	t.Run("FindByMember", func(t *testing.T) {
		loans, err := repo.FindByMember(2)
		require.NoError(t, err)
		assert.Equal(t, []uint{outNotDue.ID, outDueToday.ID}, ids(loans))
	})

	t.Run("CountOutstanding", func(t *testing.T) {
		count, err := repo.CountOutstanding(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountOutstanding(3)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("CountOutstandingForBook", func(t *testing.T) {
		count, err := repo.CountOutstandingForBook("A")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountOutstandingForBook("B")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("FindNeedingReconciliation", func(t *testing.T) {
		flagged, err := repo.FindNeedingReconciliation()
		require.NoError(t, err)
		assert.Equal(t, []uint{outNotDue.ID}, ids(flagged))
	})
}
