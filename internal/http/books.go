package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rkarimov/baytalhikma/internal/entities"
	"github.com/rkarimov/baytalhikma/internal/library"
)

// MinPublicationYear is the lowest publication year the forms accept.
// The storage layer itself does not enforce this bound.
const MinPublicationYear = 1000

// CatalogService defines the catalogue operations the controllers
// drive. Implemented by library.Service.
type CatalogService interface {
	AddBook(input library.AddBookInput) (*entities.Book, error)
	ListBooks() (library.Snapshot, error)
	DeleteBook(id uint) (bool, error)
	InvalidateCache()
}

type BooksController struct {
	catalog CatalogService
}

func NewBooksController(catalog CatalogService) *BooksController {
	return &BooksController{catalog: catalog}
}

// AddBookRequest is the JSON payload for creating a record.
type AddBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	PublicationYear *int   `json:"publication_year"`
}

// GetAllBooks returns the (possibly cached) snapshot of the catalogue.
// GET /api/books
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	snap, err := bc.catalog.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"books":    snap.Books,
		"count":    len(snap.Books),
		"taken_at": snap.TakenAt.Format(time.RFC3339),
	})
}

// AddBook creates a new record and invalidates the list cache.
// POST /api/books
func (bc *BooksController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if msg, ok := validateBookFields(req.Title, req.Author, req.Category, req.PublicationYear); !ok {
		respondBadRequest(c, msg)
		return
	}

	book, err := bc.catalog.AddBook(library.AddBookInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		PublicationYear: req.PublicationYear,
	})
	if err != nil {
		if errors.Is(err, library.ErrTitleRequired) || errors.Is(err, library.ErrAuthorRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "add book")
		return
	}

	bc.catalog.InvalidateCache()
	c.IndentedJSON(http.StatusCreated, book)
}

// DeleteBook removes a record by ID and invalidates the list cache.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := bc.catalog.DeleteBook(id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if !deleted {
		respondNotFound(c, "book")
		return
	}

	bc.catalog.InvalidateCache()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Book deleted"})
}

// validateBookFields applies the presentation-level checks: presence of
// title and author, a known category label, and the publication year
// bound between MinPublicationYear and the current calendar year.
func validateBookFields(title, author, category string, year *int) (string, bool) {
	if title == "" {
		return "title is required", false
	}
	if author == "" {
		return "author is required", false
	}
	if category != "" && !entities.IsValidCategory(category) {
		return "unknown category", false
	}
	if year != nil {
		currentYear := time.Now().Year()
		if *year < MinPublicationYear || *year > currentYear {
			return "publication_year must be between 1000 and the current year", false
		}
	}
	return "", true
}
