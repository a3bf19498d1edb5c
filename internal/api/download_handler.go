package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"resume-parser/internal/resume"
	"resume-parser/internal/storage"
)

// DownloadJSONHandler serves a stored parse result as a JSON attachment
// @Summary Download parsed resume as JSON
// @Description Download a previously parsed resume as a pretty-printed JSON file
// @Tags resume
// @Produce json
// @Param id path string true "Parse result ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /resume/{id}/download [get]
func (a *API) DownloadJSONHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.lookupRecord(w, r)
	if !ok {
		return
	}

	filename := downloadName(rec.Filename, "_parsed.json")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(rec.Payload)); err != nil {
		log.Printf("ERROR: Failed to write download: %v", err)
	}
}

// DownloadCSVHandler serves the personalInfo section of a stored result as CSV
// @Summary Download basic info as CSV
// @Description Download the personalInfo fields of a previously parsed resume as CSV
// @Tags resume
// @Produce text/csv
// @Param id path string true "Parse result ID"
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /resume/{id}/download/csv [get]
func (a *API) DownloadCSVHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.lookupRecord(w, r)
	if !ok {
		return
	}

	var doc resume.Parsed
	if err := json.Unmarshal([]byte(rec.Payload), &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "stored result is not valid JSON")
		return
	}
	data, err := resume.PersonalInfoCSV(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build CSV")
		return
	}

	filename := downloadName(rec.Filename, "_basic.csv")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("ERROR: Failed to write download: %v", err)
	}
}

// RecentHandler lists recent parse results
// @Summary List recent parse results
// @Description List the most recent stored parse results (without payloads)
// @Tags resume
// @Produce json
// @Param limit query int false "Limit results" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /resume/recent [get]
func (a *API) RecentHandler(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		writeError(w, http.StatusNotFound, "parse history is not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := a.db.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("Query error: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   len(records),
		"results": records,
	})
}

func (a *API) lookupRecord(w http.ResponseWriter, r *http.Request) (*storage.ParseRecord, bool) {
	if a.db == nil {
		writeError(w, http.StatusNotFound, "parse history is not enabled")
		return nil, false
	}

	stored, err := a.db.GetParseResult(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "parse result not found")
		} else {
			log.Printf("Query error: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return nil, false
	}
	return stored, true
}

func downloadName(original, suffix string) string {
	base := strings.TrimSuffix(original, ".pdf")
	base = strings.TrimSuffix(base, ".docx")
	base = strings.TrimSuffix(base, ".txt")
	if base == "" {
		base = "resume"
	}
	return base + suffix
}
