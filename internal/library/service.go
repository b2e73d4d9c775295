// Package library implements the catalogue service: the three operations
// (add, list, delete) the presentation layer drives, plus the cached
// list snapshot and its invalidation contract.
package library

import (
	"errors"
	"strings"
	"time"

	"github.com/rkarimov/baytalhikma/internal/entities"
)

// DefaultCacheTTL is how long a list snapshot may be served before it
// must be recomputed from storage.
const DefaultCacheTTL = 60 * time.Second

var (
	// ErrTitleRequired is returned by AddBook when the title is blank.
	ErrTitleRequired = errors.New("title is required")
	// ErrAuthorRequired is returned by AddBook when the author is blank.
	ErrAuthorRequired = errors.New("author is required")
)

// BookStore defines the storage operations the service needs.
// Implemented by books.Repository.
type BookStore interface {
	CreateBook(book *entities.Book) error
	GetAllBooks() ([]entities.Book, error)
	DeleteBook(id uint) (bool, error)
}

// AddBookInput carries the caller-supplied fields for a new record.
// Title and author are required; the rest are optional.
type AddBookInput struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	PublicationYear *int
}

// Snapshot is the full in-memory copy of all current records returned
// by ListBooks. TakenAt identifies when it was computed, which also
// distinguishes a cached snapshot from a fresh one.
type Snapshot struct {
	Books   []entities.Book
	TakenAt time.Time
}

// Service exposes the catalogue operations. Mutations do not clear the
// list cache themselves; callers must invoke InvalidateCache after every
// successful add or delete so the next read reflects the mutation.
type Service struct {
	store BookStore
	cache *snapshotCache
}

// NewService creates a catalogue service. A non-positive ttl falls back
// to DefaultCacheTTL.
func NewService(store BookStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		store: store,
		cache: newSnapshotCache(ttl),
	}
}

// AddBook validates presence of title and author, then inserts one new
// record with status "available" and a storage-assigned ID. Storage
// errors are returned to the caller, never retried.
//
// The presentation layer checks presence too; the service re-validates
// rather than trusting the caller.
func (s *Service) AddBook(input AddBookInput) (*entities.Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, ErrAuthorRequired
	}

	book := &entities.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Category:        input.Category,
		PublicationYear: input.PublicationYear,
		Status:          entities.BookStatusAvailable,
	}
	if err := s.store.CreateBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns a snapshot of all current records. Calls within the
// TTL window receive the identical cached snapshot. On storage error an
// empty snapshot is returned along with the error; errors are never
// cached.
func (s *Service) ListBooks() (Snapshot, error) {
	if snap, ok := s.cache.get(); ok {
		return snap, nil
	}

	books, err := s.store.GetAllBooks()
	if err != nil {
		return Snapshot{Books: []entities.Book{}, TakenAt: time.Now()}, err
	}

	snap := Snapshot{Books: books, TakenAt: time.Now()}
	s.cache.set(snap)
	return snap, nil
}

// DeleteBook removes the record with the given ID. It returns true when
// a record existed and was removed, false when no such record existed.
func (s *Service) DeleteBook(id uint) (bool, error) {
	return s.store.DeleteBook(id)
}

// InvalidateCache drops the cached list snapshot. Callers invoke it
// immediately after every successful mutation; TTL expiry handles the
// rest.
func (s *Service) InvalidateCache() {
	s.cache.invalidate()
}
