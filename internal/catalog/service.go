// Package catalog validates and manages the books and periodicals the library lends.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

var (
	ErrDuplicateBook = errors.New("a book with this identifier already exists")
	ErrBookNotFound  = errors.New("book not found")
	ErrBookOnLoan    = errors.New("book is currently on loan")
)

// Store is the persistence the catalog needs.
type Store interface {
	GetBook(isbn string) (*entities.Book, error)
	BookExists(isbn string) (bool, error)
	SaveBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(isbn string) error
	ListBooks() ([]entities.Book, error)
	ListAvailableBooks() ([]entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	CountBooks() (total int64, available int64, err error)
}

// LoanCounter reports outstanding loans of a book.
type LoanCounter interface {
	CountOutstandingForBook(isbn string) (int64, error)
}

type Stats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Lent      int64 `json:"lent"`
}

type Service struct {
	store Store
	loans LoanCounter
	now   func() time.Time
}

func NewService(store Store, loans LoanCounter) *Service {
	return &Service{store: store, loans: loans, now: time.Now}
}

// AddBook validates and stores a new item. New items are always available.
func (s *Service) AddBook(book *entities.Book) error {
	s.normalize(book)
	if err := s.validate(book); err != nil {
		return err
	}

	exists, err := s.store.BookExists(book.ISBN)
	if err != nil {
		return fmt.Errorf("failed to check book %s: %w", book.ISBN, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBook, book.ISBN)
	}

	book.Available = true
	if err := s.store.SaveBook(book); err != nil {
		return fmt.Errorf("failed to save book %s: %w", book.ISBN, err)
	}
	return nil
}

// UpdateBook replaces the descriptive fields of an existing item. The
// availability flag belongs to the loan engine and is kept as stored.
func (s *Service) UpdateBook(book *entities.Book) error {
	s.normalize(book)
	if err := s.validate(book); err != nil {
		return err
	}

	current, err := s.GetBook(book.ISBN)
	if err != nil {
		return err
	}

	book.Available = current.Available
	book.CreatedAt = current.CreatedAt
	if err := s.store.UpdateBook(book); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrBookNotFound, book.ISBN)
		}
		return fmt.Errorf("failed to update book %s: %w", book.ISBN, err)
	}
	return nil
}

// DeleteBook removes an item that is not on loan.
func (s *Service) DeleteBook(isbn string) error {
	isbn = validation.NormalizeIdentifier(isbn)

	if _, err := s.GetBook(isbn); err != nil {
		return err
	}

	outstanding, err := s.loans.CountOutstandingForBook(isbn)
	if err != nil {
		return fmt.Errorf("failed to count loans for %s: %w", isbn, err)
	}
	if outstanding > 0 {
		return fmt.Errorf("%w: %s", ErrBookOnLoan, isbn)
	}

	if err := s.store.DeleteBook(isbn); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
		}
		return fmt.Errorf("failed to delete book %s: %w", isbn, err)
	}
	return nil
}

func (s *Service) GetBook(isbn string) (*entities.Book, error) {
	isbn = validation.NormalizeIdentifier(isbn)
	book, err := s.store.GetBook(isbn)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
		}
		return nil, fmt.Errorf("failed to get book %s: %w", isbn, err)
	}
	return book, nil
}

func (s *Service) ListBooks() ([]entities.Book, error) {
	return s.store.ListBooks()
}

func (s *Service) ListAvailable() ([]entities.Book, error) {
	return s.store.ListAvailableBooks()
}

// Search matches title or author. A blank query lists the whole catalog.
func (s *Service) Search(query string) ([]entities.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.store.ListBooks()
	}
	return s.store.SearchBooks(query)
}

func (s *Service) Stats() (Stats, error) {
	total, available, err := s.store.CountBooks()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Available: available, Lent: total - available}, nil
}

func (s *Service) normalize(book *entities.Book) {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.IssueMonth = strings.TrimSpace(book.IssueMonth)
	if book.Kind == "" {
		book.Kind = entities.ItemKindBook
	}
	if book.Kind == entities.ItemKindPeriodical {
		book.ISBN = validation.NormalizeISSN(book.ISBN)
	} else {
		book.ISBN = validation.NormalizeISBN(book.ISBN)
	}
}

func (s *Service) validate(book *entities.Book) error {
	checks := []error{
		validation.NotBlank("title", book.Title),
		validation.MaxLength("title", book.Title, 512),
		validation.PublicationYear("publication_year", book.PublicationYear, s.now()),
	}

	switch book.Kind {
	case entities.ItemKindBook:
		checks = append(checks,
			validation.ISBN("isbn", book.ISBN),
			validation.NotBlank("author", book.Author),
			validation.MaxLength("author", book.Author, 256),
		)
	case entities.ItemKindPeriodical:
		checks = append(checks,
			validation.ISSN("isbn", book.ISBN),
			validation.MaxLength("author", book.Author, 256),
			validation.MaxLength("issue_month", book.IssueMonth, 20),
		)
		if book.IssueNumber <= 0 {
			checks = append(checks, &validation.ValidationError{Field: "issue_number", Message: "must be positive"})
		}
	default:
		checks = append(checks, &validation.ValidationError{Field: "kind", Message: "must be book or periodical"})
	}

	return validation.Collect(checks...)
}
