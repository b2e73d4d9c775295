package library

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rkarimov/baytalhikma/internal/database/books"
	"github.com/rkarimov/baytalhikma/internal/entities"
)

func setupTestService(t *testing.T, ttl time.Duration) (*Service, func()) {
	dbPath := "./test_library_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	svc := NewService(books.NewRepository(db), ttl)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return svc, cleanup
}

func TestService_AddBook(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	year := 1021
	book, err := svc.AddBook(AddBookInput{
		Title:           "Kitab al-Manazir",
		Author:          "Ibn al-Haytham",
		Category:        "Science",
		PublicationYear: &year,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), book.ID)
	assert.Equal(t, entities.BookStatusAvailable, book.Status)
}

func TestService_AddBook_Validation(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	_, err := svc.AddBook(AddBookInput{Title: "", Author: "Author"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.AddBook(AddBookInput{Title: "   ", Author: "Author"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.AddBook(AddBookInput{Title: "Title", Author: ""})
	assert.ErrorIs(t, err, ErrAuthorRequired)

	// Nothing was stored
	snap, err := svc.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, snap.Books)
}

func TestService_AddThenListAfterInvalidation(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	_, err := svc.AddBook(AddBookInput{Title: "Title", Author: "Author"})
	require.NoError(t, err)
	svc.InvalidateCache()

	snap, err := svc.ListBooks()
	require.NoError(t, err)
	require.Len(t, snap.Books, 1)
	assert.Equal(t, "Title", snap.Books[0].Title)
	assert.Equal(t, "Author", snap.Books[0].Author)
	assert.Equal(t, entities.BookStatusAvailable, snap.Books[0].Status)
}

func TestService_ListBooks_CachedWithinWindow(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	first, err := svc.ListBooks()
	require.NoError(t, err)

	// A mutation without invalidation must not be visible yet
	_, err = svc.AddBook(AddBookInput{Title: "New", Author: "Author"})
	require.NoError(t, err)

	second, err := svc.ListBooks()
	require.NoError(t, err)

	assert.Equal(t, first.TakenAt, second.TakenAt, "second list should serve the identical cached snapshot")
	assert.Empty(t, second.Books)

	// After invalidation the next list recomputes from storage
	svc.InvalidateCache()
	third, err := svc.ListBooks()
	require.NoError(t, err)
	assert.Len(t, third.Books, 1)
	assert.NotEqual(t, first.TakenAt, third.TakenAt)
}

func TestService_ListBooks_TTLExpiry(t *testing.T) {
	svc, cleanup := setupTestService(t, 30*time.Millisecond)
	defer cleanup()

	first, err := svc.ListBooks()
	require.NoError(t, err)

	_, err = svc.AddBook(AddBookInput{Title: "New", Author: "Author"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	second, err := svc.ListBooks()
	require.NoError(t, err)
	assert.NotEqual(t, first.TakenAt, second.TakenAt)
	assert.Len(t, second.Books, 1)
}

func TestService_DeleteBook(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	book, err := svc.AddBook(AddBookInput{Title: "T", Author: "A"})
	require.NoError(t, err)
	svc.InvalidateCache()

	deleted, err := svc.DeleteBook(book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	svc.InvalidateCache()

	snap, err := svc.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, snap.Books)

	deleted, err = svc.DeleteBook(book.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// Covers the whole catalogue lifecycle in one pass.
func TestService_Scenario(t *testing.T) {
	svc, cleanup := setupTestService(t, time.Minute)
	defer cleanup()

	year := 1021
	book, err := svc.AddBook(AddBookInput{
		Title:           "Kitab al-Manazir",
		Author:          "Ibn al-Haytham",
		ISBN:            "",
		Category:        "Science",
		PublicationYear: &year,
	})
	require.NoError(t, err)
	svc.InvalidateCache()

	snap, err := svc.ListBooks()
	require.NoError(t, err)
	require.Len(t, snap.Books, 1)
	assert.Equal(t, uint(1), snap.Books[0].ID)
	assert.Equal(t, entities.BookStatusAvailable, snap.Books[0].Status)

	deleted, err := svc.DeleteBook(book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	svc.InvalidateCache()

	snap, err = svc.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, snap.Books)

	deleted, err = svc.DeleteBook(book.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// failingStore simulates a broken storage layer.
type failingStore struct{}

func (failingStore) CreateBook(*entities.Book) error { return errors.New("disk on fire") }

func (failingStore) GetAllBooks() ([]entities.Book, error) { return nil, errors.New("disk on fire") }

func (failingStore) DeleteBook(uint) (bool, error) { return false, errors.New("disk on fire") }

func TestService_StorageErrors(t *testing.T) {
	svc := NewService(failingStore{}, time.Minute)

	_, err := svc.AddBook(AddBookInput{Title: "T", Author: "A"})
	assert.Error(t, err)

	snap, err := svc.ListBooks()
	assert.Error(t, err)
	assert.Empty(t, snap.Books)

	// Errors are never cached; the next call hits storage again
	snap2, err := svc.ListBooks()
	assert.Error(t, err)
	assert.Empty(t, snap2.Books)

	_, err = svc.DeleteBook(1)
	assert.Error(t, err)
}
