package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownloadEndpointsWithoutHistory(t *testing.T) {
	router := newTestRouter(&stubModel{respond: func(context.Context) (string, error) {
		return "{}", nil
	}})

	paths := []string{
		"/api/resume/some-id/download",
		"/api/resume/some-id/download/csv",
		"/api/resume/recent",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "parse history is not enabled")
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubModel{respond: func(context.Context) (string, error) {
		return "{}", nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "cv_parsed.json", downloadName("cv.pdf", "_parsed.json"))
	assert.Equal(t, "cv_basic.csv", downloadName("cv.docx", "_basic.csv"))
	assert.Equal(t, "resume_parsed.json", downloadName("", "_parsed.json"))
}
