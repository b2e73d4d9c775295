package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rkarimov/baytalhikma/internal/entities"
	"github.com/rkarimov/baytalhikma/internal/library"
	"github.com/rkarimov/baytalhikma/internal/web"
)

// UIController renders the server-side pages mirroring the three menu
// operations: view the collection, add a book, delete a book.
type UIController struct {
	catalog  CatalogService
	sessions *web.SessionManager
}

func NewUIController(catalog CatalogService, sessions *web.SessionManager) *UIController {
	return &UIController{catalog: catalog, sessions: sessions}
}

// pageData assembles the fields every template expects.
func (uc *UIController) pageData(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title": title,
	}

	if uc.sessions != nil {
		if flash, ok := uc.sessions.PopFlash(c.Request); ok {
			data["Flash"] = flash
		}
	}

	// The CSRF middleware redirects back with ?error= on failures
	if errMsg := c.Query("error"); errMsg != "" {
		data["Error"] = errMsg
	}

	if token, exists := c.Get(web.ContextKeyCSRFToken); exists {
		if tokenStr, ok := token.(string); ok {
			data["CSRFField"] = template.HTML(
				`<input type="hidden" name="gorilla.csrf.Token" value="` + template.HTMLEscapeString(tokenStr) + `">`)
		}
	}

	return data
}

// Home redirects to the collection view.
// GET /
func (uc *UIController) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/books")
}

// ViewBooks renders the collection table.
// GET /books
func (uc *UIController) ViewBooks(c *gin.Context) {
	data := uc.pageData(c, "Your Book Collection")

	snap, err := uc.catalog.ListBooks()
	if err != nil {
		data["Error"] = "Error retrieving books: " + err.Error()
	}
	data["Books"] = snap.Books

	c.HTML(http.StatusOK, "books.html", data)
}

// AddBookForm renders the add form.
// GET /books/new
func (uc *UIController) AddBookForm(c *gin.Context) {
	data := uc.pageData(c, "Add New Book")
	data["Categories"] = entities.Categories
	data["CurrentYear"] = time.Now().Year()
	data["MinYear"] = MinPublicationYear

	c.HTML(http.StatusOK, "add.html", data)
}

// AddBook handles the add form submission. Field presence and the
// publication-year bound are checked here, before the service is
// called; the service re-validates presence on its own.
// POST /books/new
func (uc *UIController) AddBook(c *gin.Context) {
	title := c.PostForm("title")
	author := c.PostForm("author")
	category := c.PostForm("category")

	var year *int
	if raw := c.PostForm("publication_year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			uc.flashAndRedirect(c, "error", "Publication year must be a number", "/books/new")
			return
		}
		year = &parsed
	}

	if msg, ok := validateBookFields(title, author, category, year); !ok {
		if title == "" || author == "" {
			msg = "Title and Author are required fields"
		}
		uc.flashAndRedirect(c, "error", msg, "/books/new")
		return
	}

	_, err := uc.catalog.AddBook(library.AddBookInput{
		Title:           title,
		Author:          author,
		ISBN:            c.PostForm("isbn"),
		Category:        category,
		PublicationYear: year,
	})
	if err != nil {
		uc.flashAndRedirect(c, "error", "Error adding book: "+err.Error(), "/books/new")
		return
	}

	uc.catalog.InvalidateCache()
	uc.flashAndRedirect(c, "success",
		fmt.Sprintf("Book '%s' by %s added successfully!", title, author), "/books")
}

// DeleteBookForm renders the current collection plus the delete form.
// GET /books/delete
func (uc *UIController) DeleteBookForm(c *gin.Context) {
	data := uc.pageData(c, "Delete Book")

	snap, err := uc.catalog.ListBooks()
	if err != nil {
		data["Error"] = "Error retrieving books: " + err.Error()
	}
	data["Books"] = snap.Books

	c.HTML(http.StatusOK, "delete.html", data)
}

// DeleteBook handles the delete form submission.
// POST /books/delete
func (uc *UIController) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("book_id"), 10, 32)
	if err != nil || id == 0 {
		uc.flashAndRedirect(c, "error", "Enter a valid book ID", "/books/delete")
		return
	}

	deleted, err := uc.catalog.DeleteBook(uint(id))
	if err != nil {
		uc.flashAndRedirect(c, "error", "Error deleting book: "+err.Error(), "/books/delete")
		return
	}
	if !deleted {
		uc.flashAndRedirect(c, "error", fmt.Sprintf("Book ID %d not found", id), "/books/delete")
		return
	}

	uc.catalog.InvalidateCache()
	uc.flashAndRedirect(c, "success", fmt.Sprintf("Book ID %d deleted successfully", id), "/books/delete")
}

func (uc *UIController) flashAndRedirect(c *gin.Context, kind, message, location string) {
	if uc.sessions != nil {
		uc.sessions.SetFlash(c.Request, kind, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}
