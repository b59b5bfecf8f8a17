package books

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func seed(t *testing.T, repo *Repository) {
	t.Helper()
	for _, b := range []entities.Book{
		{ISBN: "9780441013593", Title: "Dune", Author: "Frank Herbert", PublicationYear: 1965, Kind: entities.ItemKindBook, Available: true},
		{ISBN: "9780547928227", Title: "The Hobbit", Author: "J.R.R. Tolkien", PublicationYear: 1937, Kind: entities.ItemKindBook, Available: false},
		{ISBN: "1059-1028", Title: "Wired", Author: "Condé Nast", PublicationYear: 2024, Kind: entities.ItemKindPeriodical, IssueNumber: 3, IssueMonth: "March", Available: true},
	} {
		book := b
		require.NoError(t, repo.SaveBook(&book))
	}
}

func TestRepository_SaveAndGetBook(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	book, err := repo.GetBook("1059-1028")
	require.NoError(t, err)
	assert.Equal(t, "Wired", book.Title)
	assert.Equal(t, entities.ItemKindPeriodical, book.Kind)
	assert.Equal(t, 3, book.IssueNumber)
	assert.True(t, book.Available)

	unavailable, err := repo.GetBook("9780547928227")
	require.NoError(t, err)
	assert.False(t, unavailable.Available)
}

func TestRepository_GetBook_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	book, err := repo.GetBook("missing")
	assert.Nil(t, book)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_SaveBook_DuplicateFails(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	err := repo.SaveBook(&entities.Book{ISBN: "9780441013593", Title: "Dune again"})
	assert.Error(t, err)
}

func TestRepository_BookExists(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	exists, err := repo.BookExists("9780441013593")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BookExists("0000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_UpdateBook(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	book, err := repo.GetBook("9780441013593")
	require.NoError(t, err)

	book.Available = false
	book.Title = "Dune (50th anniversary)"
	require.NoError(t, repo.UpdateBook(book))

	updated, err := repo.GetBook("9780441013593")
	require.NoError(t, err)
	assert.False(t, updated.Available, "false must be written, not skipped as a zero value")
	assert.Equal(t, "Dune (50th anniversary)", updated.Title)

	updated.Available = true
	require.NoError(t, repo.UpdateBook(updated))
	again, err := repo.GetBook("9780441013593")
	require.NoError(t, err)
	assert.True(t, again.Available)
}

func TestRepository_UpdateBook_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.UpdateBook(&entities.Book{ISBN: "missing", Title: "Nope"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	require.NoError(t, repo.DeleteBook("9780441013593"))
	_, err := repo.GetBook("9780441013593")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteBook("9780441013593"), entities.ErrNotFound)
}

func TestRepository_ListAndSearch(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	all, err := repo.ListBooks()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dune", all[0].Title)

	available, err := repo.ListAvailableBooks()
	require.NoError(t, err)
	assert.Len(t, available, 2)

	tests := []struct {
		query    string
		expected []string
	}{
		{"dune", []string{"Dune"}},
		{"TOLKIEN", []string{"The Hobbit"}},
		{"e", []string{"Dune", "The Hobbit", "Wired"}},
		{"nothing matches", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.SearchBooks(tt.query)
			require.NoError(t, err)
			var titles []string
			for _, b := range found {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestRepository_CountBooks(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	total, available, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), available)
}
