package api

import (
	"encoding/json"
	"log"
	"net/http"

	"resume-parser/internal/cv"
	"resume-parser/internal/llm"
	"resume-parser/internal/storage"
)

type API struct {
	extractor  *cv.Extractor
	llmService *llm.Service
	db         *storage.DB // nil when parse history is disabled
}

func NewAPI(llmService *llm.Service, db *storage.DB) *API {
	return &API{
		extractor:  cv.NewExtractor(),
		llmService: llmService,
		db:         db,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
