package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/rkarimov/baytalhikma/internal/entities"
	"github.com/rkarimov/baytalhikma/internal/library"
)

// BookAdder provides the catalogue operations the import task needs.
// Implemented by library.Service.
type BookAdder interface {
	AddBook(input library.AddBookInput) (*entities.Book, error)
	InvalidateCache()
}

// BookRow is one catalogue row carried in the task payload.
type BookRow struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn,omitempty"`
	Category        string `json:"category,omitempty"`
	PublicationYear *int   `json:"publication_year,omitempty"`
}

// ImportBooksTask inserts a batch of parsed catalogue rows.
type ImportBooksTask struct {
	Rows []BookRow `json:"rows"`
}

// Config returns the queue configuration for import tasks.
func (t ImportBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_books",
		MaxAttempts: 3,
		Backoff:     1 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBooksProcessor creates a processor function for ImportBooksTask.
// Rows that fail validation are skipped and counted; a storage error
// aborts the task so backlite can retry it. The list cache is
// invalidated once at the end so the next read reflects the batch.
func ImportBooksProcessor(adder BookAdder) backlite.QueueProcessor[ImportBooksTask] {
	return func(ctx context.Context, task ImportBooksTask) error {
		if adder == nil {
			return fmt.Errorf("book adder not configured")
		}

		added, skipped := 0, 0
		for _, row := range task.Rows {
			_, err := adder.AddBook(library.AddBookInput{
				Title:           row.Title,
				Author:          row.Author,
				ISBN:            row.ISBN,
				Category:        row.Category,
				PublicationYear: row.PublicationYear,
			})
			switch {
			case err == nil:
				added++
			case errors.Is(err, library.ErrTitleRequired) || errors.Is(err, library.ErrAuthorRequired):
				skipped++
			default:
				return fmt.Errorf("import books: %w", err)
			}
		}

		if added > 0 {
			adder.InvalidateCache()
		}

		log.Printf("[TASK] Imported %d books (%d rows skipped)", added, skipped)
		return nil
	}
}

// NewImportBooksQueue creates a backlite queue for import tasks.
func NewImportBooksQueue(adder BookAdder) backlite.Queue {
	return backlite.NewQueue(ImportBooksProcessor(adder))
}
