// Package books provides database operations for the catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBook("9780441013593")
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBook retrieves a book by its identifier.
func (r *Repository) GetBook(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// BookExists reports whether a book with the identifier is in the catalog.
func (r *Repository) BookExists(isbn string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count > 0, err
}

// SaveBook inserts a new book.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// UpdateBook writes every mutable column of the book, including the availability flag.
func (r *Repository) UpdateBook(book *entities.Book) error {
	result := r.db.Model(book).
		Select("title", "author", "publication_year", "kind", "issue_number", "issue_month", "available", "updated_at").
		Updates(book)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero rows when nothing changed.
		exists, err := r.BookExists(book.ISBN)
		if err != nil {
			return err
		}
		if !exists {
			return entities.ErrNotFound
		}
	}
	return nil
}

// DeleteBook removes a book from the catalog.
func (r *Repository) DeleteBook(isbn string) error {
	result := r.db.Where("isbn = ?", isbn).Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// ListBooks returns the whole catalog ordered by title.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("title ASC, isbn ASC").Find(&books).Error
	return books, err
}

// ListAvailableBooks returns books that can be borrowed right now.
func (r *Repository) ListAvailableBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("available = ?", true).Order("title ASC, isbn ASC").Find(&books).Error
	return books, err
}

// SearchBooks matches the query against title and author, case-insensitively.
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	searchPattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", searchPattern, searchPattern).
		Order("title ASC, isbn ASC").
		Find(&books).Error
	return books, err
}

// CountBooks returns the total number of books and how many of them are available.
func (r *Repository) CountBooks() (total int64, available int64, err error) {
	if err = r.db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count books: %w", err)
	}
	if err = r.db.Model(&entities.Book{}).Where("available = ?", true).Count(&available).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count available books: %w", err)
	}
	return total, available, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}
