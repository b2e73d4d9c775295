// Package books provides database operations for catalogue records.
//
// This package implements the BookStore interface defined in
// internal/library/service.go.
//
// # Interface Implementation
//
//	var _ library.BookStore = (*books.Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123)
package books

import (
	"gorm.io/gorm"

	"github.com/rkarimov/baytalhikma/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new record. The storage layer assigns the ID;
// an empty status defaults to "available".
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.Status == "" {
		book.Status = entities.BookStatusAvailable
	}
	return r.db.Create(book).Error
}

// GetAllBooks retrieves every record. No explicit ordering is applied;
// rows come back in storage order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single record by its ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes the record with the given ID. The boolean reports
// whether a record actually existed; a missing ID is not an error.
func (r *Repository) DeleteBook(id uint) (bool, error) {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountBooks returns the number of records in the catalogue.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
