package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	dbloans "github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

type testEnv struct {
	service *Service
	books   *books.Repository
	loans   *dbloans.Repository
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bookRepo := books.NewRepository(db.DB)
	loanRepo := dbloans.NewRepository(db.DB)
	svc := NewService(bookRepo, loanRepo)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	return &testEnv{service: svc, books: bookRepo, loans: loanRepo}
}

func dune() *entities.Book {
	return &entities.Book{ISBN: "978-0-441-01359-3", Title: " Dune ", Author: "Frank Herbert", PublicationYear: 1965}
}

func TestAddBook(t *testing.T) {
	env := setupService(t)

	book := dune()
	require.NoError(t, env.service.AddBook(book))

	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, entities.ItemKindBook, book.Kind)
	assert.True(t, book.Available)

	stored, err := env.service.GetBook("978-0441013593")
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", stored.Author)
}

func TestAddBook_Duplicate(t *testing.T) {
	env := setupService(t)
	require.NoError(t, env.service.AddBook(dune()))

	err := env.service.AddBook(dune())
	assert.ErrorIs(t, err, ErrDuplicateBook)
}

func TestAddBook_Periodical(t *testing.T) {
	env := setupService(t)

	wired := &entities.Book{ISBN: "10591028", Title: "Wired", Kind: entities.ItemKindPeriodical, IssueNumber: 3, IssueMonth: "March", PublicationYear: 2024}
	require.NoError(t, env.service.AddBook(wired))
	assert.Equal(t, "1059-1028", wired.ISBN)

	stored, err := env.service.GetBook("1059-1028")
	require.NoError(t, err)

	_, err = env.service.GetBook("1059 1028")
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.PenaltyRatePerDay())
}

func TestAddBook_Validation(t *testing.T) {
	tests := []struct {
		name   string
		book   *entities.Book
		fields []string
	}{
		{
			name:   "blank title and author",
			book:   &entities.Book{ISBN: "9780441013593", PublicationYear: 1965},
			fields: []string{"title", "author"},
		},
		{
			name:   "bad checksum",
			book:   &entities.Book{ISBN: "9780441013594", Title: "Dune", Author: "Herbert", PublicationYear: 1965},
			fields: []string{"isbn"},
		},
		{
			name:   "year out of range",
			book:   &entities.Book{ISBN: "9780441013593", Title: "Dune", Author: "Herbert", PublicationYear: 2030},
			fields: []string{"publication_year"},
		},
		{
			name:   "periodical without issue number",
			book:   &entities.Book{ISBN: "1059-1028", Title: "Wired", Kind: entities.ItemKindPeriodical, PublicationYear: 2024},
			fields: []string{"issue_number"},
		},
		{
			name:   "unknown kind",
			book:   &entities.Book{ISBN: "9780441013593", Title: "Dune", Author: "Herbert", PublicationYear: 1965, Kind: "scroll"},
			fields: []string{"kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupService(t)

			err := env.service.AddBook(tt.book)
			require.ErrorIs(t, err, validation.ErrValidation)

			var fields []string
			for _, d := range validation.Details(err) {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestUpdateBook_PreservesAvailability(t *testing.T) {
	env := setupService(t)
	require.NoError(t, env.service.AddBook(dune()))

	lent, err := env.books.GetBook("9780441013593")
	require.NoError(t, err)
	lent.Available = false
	require.NoError(t, env.books.UpdateBook(lent))

	update := dune()
	update.Title = "Dune (Deluxe Edition)"
	update.Available = true
	require.NoError(t, env.service.UpdateBook(update))

	stored, err := env.service.GetBook("9780441013593")
	require.NoError(t, err)
	assert.Equal(t, "Dune (Deluxe Edition)", stored.Title)
	assert.False(t, stored.Available)
}

func TestUpdateBook_NotFound(t *testing.T) {
	env := setupService(t)

	err := env.service.UpdateBook(dune())
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	env := setupService(t)
	require.NoError(t, env.service.AddBook(dune()))

	loan := &entities.Loan{BookISBN: "9780441013593", MemberID: 1, LoanDate: time.Now(), ExpectedReturnDate: time.Now()}
	require.NoError(t, env.loans.SaveLoan(loan))

	assert.ErrorIs(t, env.service.DeleteBook("9780441013593"), ErrBookOnLoan)

	returned := time.Now()
	loan.ActualReturnDate = &returned
	require.NoError(t, env.loans.UpdateLoan(loan))

	require.NoError(t, env.service.DeleteBook("978-0-441-01359-3"))
	_, err := env.service.GetBook("9780441013593")
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, env.service.DeleteBook("9780441013593"), ErrBookNotFound)
}

func TestSearchListAndStats(t *testing.T) {
	env := setupService(t)
	require.NoError(t, env.service.AddBook(dune()))
	require.NoError(t, env.service.AddBook(&entities.Book{ISBN: "9780547928227", Title: "The Hobbit", Author: "J.R.R. Tolkien", PublicationYear: 1937}))

	hobbit, err := env.books.GetBook("9780547928227")
	require.NoError(t, err)
	hobbit.Available = false
	require.NoError(t, env.books.UpdateBook(hobbit))

	found, err := env.service.Search("tolkien")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "The Hobbit", found[0].Title)

	all, err := env.service.Search("  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := env.service.ListAvailable()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Dune", available[0].Title)

	stats, err := env.service.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Available: 1, Lent: 1}, stats)
}
