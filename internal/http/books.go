package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
)

// BookRequest is the body of POST /api/books and PUT /api/books/:isbn.
type BookRequest struct {
	ISBN            string            `json:"isbn"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	PublicationYear int               `json:"publication_year"`
	Kind            entities.ItemKind `json:"kind"`
	IssueNumber     int               `json:"issue_number"`
	IssueMonth      string            `json:"issue_month"`
}

func (r BookRequest) toEntity() *entities.Book {
	return &entities.Book{
		ISBN:            r.ISBN,
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: r.PublicationYear,
		Kind:            r.Kind,
		IssueNumber:     r.IssueNumber,
		IssueMonth:      r.IssueMonth,
	}
}

type BooksController struct {
	catalog CatalogService
}

func NewBooksController(catalog CatalogService) *BooksController {
	return &BooksController{catalog: catalog}
}

// List returns the catalog, optionally filtered.
// GET /api/books?q=&available=true
func (bc *BooksController) List(c *gin.Context) {
	availableOnly, ok := parseBoolQuery(c, "available")
	if !ok {
		return
	}

	var (
		books []entities.Book
		err   error
	)
	switch q := c.Query("q"); {
	case q != "":
		books, err = bc.catalog.Search(q)
		if err == nil && availableOnly {
			books = filterAvailable(books)
		}
	case availableOnly:
		books, err = bc.catalog.ListAvailable()
	default:
		books, err = bc.catalog.ListBooks()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	if books == nil {
		books = []entities.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// Get returns one book.
// GET /api/books/:isbn
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.catalog.GetBook(c.Param("isbn"))
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create adds a book to the catalog.
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := req.toEntity()
	if err := bc.catalog.AddBook(book); err != nil {
		respondDomainError(c, err, "add book")
		return
	}
	respondCreated(c, book)
}

// Update replaces the descriptive fields of a book.
// PUT /api/books/:isbn
func (bc *BooksController) Update(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	req.ISBN = c.Param("isbn")

	book := req.toEntity()
	if err := bc.catalog.UpdateBook(book); err != nil {
		respondDomainError(c, err, "update book")
		return
	}

	updated, err := bc.catalog.GetBook(book.ISBN)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a book that is not on loan.
// DELETE /api/books/:isbn
func (bc *BooksController) Delete(c *gin.Context) {
	if err := bc.catalog.DeleteBook(c.Param("isbn")); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

func filterAvailable(books []entities.Book) []entities.Book {
	var out []entities.Book
	for _, b := range books {
		if b.Available {
			out = append(out, b)
		}
	}
	return out
}
