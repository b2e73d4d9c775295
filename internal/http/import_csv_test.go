package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkarimov/baytalhikma/internal/tasks"
)

func setupImportTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "library.db"), tasks.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	controller := NewImportController(client)

	router := gin.New()
	router.POST("/api/import/csv", controller.ImportCSV)
	return router
}

func postCSV(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/import/csv", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	router.ServeHTTP(w, req)
	return w
}

func TestImportController_ImportCSV(t *testing.T) {
	t.Run("queues parsed rows", func(t *testing.T) {
		router := setupImportTest(t)

		body := "title,author\nBook 1,Author 1\nBook 2,Author 2\n"
		w := postCSV(router, body)

		assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"rows":2`)
	})

	t.Run("rejects unusable CSV", func(t *testing.T) {
		router := setupImportTest(t)

		w := postCSV(router, "isbn\n123\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects CSV with no importable rows", func(t *testing.T) {
		router := setupImportTest(t)

		w := postCSV(router, "title,author\n,\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("503 when the task queue is disabled", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		controller := NewImportController(nil)

		router := gin.New()
		router.POST("/api/import/csv", controller.ImportCSV)

		w := postCSV(router, "title,author\nT,A\n")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
