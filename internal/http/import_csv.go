package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/rkarimov/baytalhikma/internal/importers"
	"github.com/rkarimov/baytalhikma/internal/tasks"
)

// TaskEnqueuer enqueues background tasks. Implemented by tasks.Client.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

type ImportController struct {
	enqueuer TaskEnqueuer
}

func NewImportController(enqueuer TaskEnqueuer) *ImportController {
	return &ImportController{enqueuer: enqueuer}
}

// ImportCSV parses an uploaded catalogue CSV and enqueues a background
// task that inserts the rows. Accepts either a multipart "file" field
// or a raw CSV body.
// POST /api/import/csv
func (ic *ImportController) ImportCSV(c *gin.Context) {
	if ic.enqueuer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue is disabled"})
		return
	}

	var reader io.Reader = c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			respondInternalError(c, err, "open uploaded file")
			return
		}
		defer f.Close()
		reader = f
	}

	rows, problems, err := importers.ParseCatalogCSV(reader)
	if err != nil {
		respondBadRequest(c, "failed to parse CSV: "+err.Error())
		return
	}
	if len(rows) == 0 {
		respondBadRequest(c, "no importable rows found")
		return
	}

	taskRows := make([]tasks.BookRow, 0, len(rows))
	for _, row := range rows {
		taskRows = append(taskRows, tasks.BookRow{
			Title:           row.Title,
			Author:          row.Author,
			ISBN:            row.ISBN,
			Category:        row.Category,
			PublicationYear: row.PublicationYear,
		})
	}

	if _, err := ic.enqueuer.Add(tasks.ImportBooksTask{Rows: taskRows}).Ctx(c.Request.Context()).Save(); err != nil {
		respondInternalError(c, err, "enqueue import task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":  "import queued",
		"rows":     len(rows),
		"problems": problems,
	})
}
