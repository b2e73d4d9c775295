// Package database provides the data access layer for the application.
//
// # Architecture
//
// The layer is organized into the connection wrapper and a domain
// sub-package:
//
//	database/
//	├── database.go      # Connection setup, idempotent schema migration
//	└── books/           # Book CRUD operations
//
// # Using the Sub-package
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./library.db")
//
//	// Create the repository
//	booksRepo := books.NewRepository(db.DB)
//
//	// Use it
//	all, err := booksRepo.GetAllBooks()
//
// The books.Repository implements library.BookStore, the narrow
// interface consumed by the service layer.
package database
