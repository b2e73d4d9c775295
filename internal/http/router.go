package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/rkarimov/baytalhikma/internal/database"
	"github.com/rkarimov/baytalhikma/internal/web"
)

// RouterConfig carries all router dependencies, keeping NewRouter's
// signature stable as wiring grows.
type RouterConfig struct {
	Database      *database.Database
	Catalog       CatalogService
	Sessions      *web.SessionManager
	TaskEnqueuer  TaskEnqueuer
	CSRFSecret    []byte
	SecureCookies bool
	TemplatesPath string
	StaticPath    string
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(web.SecurityHeadersMiddleware())

	// CSRF must run before the session middleware so that session
	// context is added on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(web.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, "/api/"))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}

	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	books := NewBooksController(cfg.Catalog)
	health := NewHealthController(cfg.Database, cfg.Version)
	importer := NewImportController(cfg.TaskEnqueuer)

	api := router.Group("/api")
	{
		api.GET("/health", health.Status)
		api.GET("/books", books.GetAllBooks)
		api.POST("/books", books.AddBook)
		api.DELETE("/books/:id", books.DeleteBook)
		api.POST("/import/csv", importer.ImportCSV)
	}

	if cfg.TemplatesPath != "" {
		ui := NewUIController(cfg.Catalog, cfg.Sessions)
		router.GET("/", ui.Home)
		router.GET("/books", ui.ViewBooks)
		router.GET("/books/new", ui.AddBookForm)
		router.POST("/books/new", ui.AddBook)
		router.GET("/books/delete", ui.DeleteBookForm)
		router.POST("/books/delete", ui.DeleteBook)
	}

	return router
}
