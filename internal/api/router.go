package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Resume parsing pipeline
	mux.HandleFunc("POST /api/resume/parse", a.ParseHandler)

	// Stored result downloads (available when parse history is enabled)
	mux.HandleFunc("GET /api/resume/recent", a.RecentHandler)
	mux.HandleFunc("GET /api/resume/{id}/download", a.DownloadJSONHandler)
	mux.HandleFunc("GET /api/resume/{id}/download/csv", a.DownloadCSVHandler)

	return mux
}
