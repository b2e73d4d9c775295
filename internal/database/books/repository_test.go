package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rkarimov/baytalhikma/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	year := 1021
	book := &entities.Book{
		Title:           "Kitab al-Manazir",
		Author:          "Ibn al-Haytham",
		Category:        "Science",
		PublicationYear: &year,
	}

	err := repo.CreateBook(book)
	require.NoError(t, err)

	assert.Equal(t, uint(1), book.ID)
	assert.Equal(t, entities.BookStatusAvailable, book.Status)
}

func TestRepository_CreateBook_KeepsExplicitStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "T", Author: "A", Status: "borrowed"}
	require.NoError(t, repo.CreateBook(book))

	stored, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookStatus("borrowed"), stored.Status)
}

func TestRepository_GetAllBooks(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	books, err := repo.GetAllBooks()
	require.NoError(t, err)
	assert.Empty(t, books)

	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Book 1", Author: "Author 1"}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Book 2", Author: "Author 2"}))

	books, err = repo.GetAllBooks()
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestRepository_GetBookByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetBookByID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "To Delete", Author: "Someone"}
	require.NoError(t, repo.CreateBook(book))

	deleted, err := repo.DeleteBook(book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBook_NonExistent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	deleted, err := repo.DeleteBook(999)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_CountBooks(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.CreateBook(&entities.Book{Title: "T", Author: "A"}))

	count, err = repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
