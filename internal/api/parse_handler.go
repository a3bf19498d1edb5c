package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"resume-parser/internal/cv"
	"resume-parser/internal/llm"
	"resume-parser/internal/resume"
	"resume-parser/internal/storage"
)

// parseTimeout is the wall-clock budget for one extract-and-parse request.
// The context carries it into the model call, so a timeout genuinely cancels
// the outbound request instead of abandoning it.
const parseTimeout = 25 * time.Second

// ParseHandler handles resume upload and structured extraction
// @Summary Upload and parse a resume
// @Description Upload a resume (PDF/DOCX/TXT), extract its text, and return structured data parsed by the model or the local fallback extractor
// @Tags resume
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (PDF, DOCX, DOC, RTF, ODT, or TXT)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /resume/parse [post]
func (a *API) ParseHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	extraction, err := a.extractor.Extract(data, header.Filename)
	if err != nil {
		status, msg := classifyExtractionError(err)
		writeError(w, status, msg)
		return
	}

	log.Printf("Resume text extracted: %s (%d chars, %d/%d pages)",
		header.Filename, len(extraction.Text), extraction.PagesProcessed, extraction.PageCount)

	ctx, cancel := context.WithTimeout(r.Context(), parseTimeout)
	defer cancel()

	result := a.llmService.Extract(ctx, extraction.Text)
	if result.Source == llm.SourceError {
		switch {
		case errors.Is(result.Err, llm.ErrQuota):
			writeError(w, http.StatusTooManyRequests, "API quota exceeded, please try again later")
		case errors.Is(result.Err, llm.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout,
				"processing timeout: try a smaller PDF or a shorter resume (1-2 pages)")
		default:
			writeError(w, http.StatusInternalServerError, "resume parsing failed")
		}
		return
	}

	processingTime := time.Since(startTime).Milliseconds()

	response := map[string]interface{}{
		"filename":           header.Filename,
		"file_size":          len(data),
		"text_length":        len(extraction.Text),
		"pages_total":        extraction.PageCount,
		"pages_processed":    extraction.PagesProcessed,
		"text_truncated":     extraction.Truncated,
		"extraction_source":  string(result.Source),
		"processing_time_ms": processingTime,
	}

	doc, parseErr := resume.Normalize(result.JSON, time.Now())
	if parseErr != nil {
		// Decode failure is a presentation concern: surface the raw model
		// output and the error instead of failing the request.
		log.Printf("Failed to parse model output as JSON: %v", parseErr)
		response["raw_output"] = result.JSON
		response["parse_error"] = parseErr.Error()
		writeJSON(w, http.StatusOK, response)
		return
	}
	response["parsed"] = doc

	if a.db != nil {
		if id, saveErr := a.saveResult(r.Context(), header.Filename, result, doc, len(extraction.Text)); saveErr != nil {
			log.Printf("Failed to save parse result: %v", saveErr)
		} else {
			response["parse_id"] = id
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (a *API) saveResult(ctx context.Context, filename string, result llm.Result, doc resume.Parsed, textLen int) (string, error) {
	payload, err := resume.MarshalPretty(doc)
	if err != nil {
		return "", err
	}
	rec := &storage.ParseRecord{
		ID:         uuid.NewString(),
		Filename:   filename,
		Source:     string(result.Source),
		Payload:    string(payload),
		TextLength: textLen,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.db.SaveParseResult(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func classifyExtractionError(err error) (int, string) {
	switch {
	case errors.Is(err, cv.ErrProtected):
		return http.StatusUnprocessableEntity, "this PDF is password-protected, please upload an unlocked file"
	case errors.Is(err, cv.ErrCorrupted):
		return http.StatusUnprocessableEntity, "this file appears to be corrupted, please try a different one"
	case errors.Is(err, cv.ErrNoText):
		return http.StatusUnprocessableEntity, "no readable text found (the file may be a scanned image), please use a text-based file"
	case errors.Is(err, cv.ErrUnsupported):
		return http.StatusBadRequest, "invalid file type (supported: PDF, DOCX, DOC, RTF, ODT, TXT)"
	default:
		return http.StatusInternalServerError, "failed to extract text from file"
	}
}
