package cv

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrProtected signals a password-protected document.
	ErrProtected = errors.New("document is password-protected")
	// ErrCorrupted signals a stream that could not be read as its declared format.
	ErrCorrupted = errors.New("document is corrupted or not a valid file")
	// ErrNoText signals a document with no extractable text, commonly a
	// scanned-image PDF without an OCR layer.
	ErrNoText = errors.New("no readable text found in document")
	// ErrUnsupported signals an upload with an extension outside the supported set.
	ErrUnsupported = errors.New("unsupported file type")
)

const (
	maxPages     = 10
	minPageChars = 10
	maxTextLen   = 8000

	truncationMarker = "\n...[Content truncated for processing]"

	// Uploads above this size still get processed, but are worth flagging.
	advisoryMaxBytes = 5 * 1024 * 1024
)

// Extraction is the cleaned plain text pulled out of an uploaded document.
type Extraction struct {
	Text           string
	PageCount      int
	PagesProcessed int
	Truncated      bool
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract pulls normalized text from an uploaded document. PDF uploads go
// through page-level extraction with a page cap; office formats are converted
// whole. Failures come back as one of the sentinel errors above, never as a
// panic.
func (e *Extractor) Extract(data []byte, filename string) (Extraction, error) {
	if len(data) > advisoryMaxBytes {
		log.Printf("Large upload %s (%d bytes), processing may be slow", filename, len(data))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return e.extractPDF(data)
	case ".docx", ".doc", ".rtf", ".odt":
		return e.extractWithDocconv(data, filename)
	case ".txt":
		return e.clean(string(data), 1, 1)
	default:
		return Extraction{}, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

func (e *Extractor) extractPDF(data []byte) (ext Extraction, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return Extraction{}, fmt.Errorf("%w: missing PDF header", ErrCorrupted)
	}

	// The pdf package panics on some malformed files; keep the no-fault
	// contract by converting those into a corrupted-stream error.
	defer func() {
		if r := recover(); r != nil {
			ext = Extraction{}
			err = fmt.Errorf("%w: %v", ErrCorrupted, r)
		}
	}()

	reader, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		if errors.Is(openErr, pdf.ErrInvalidPassword) || strings.Contains(strings.ToLower(openErr.Error()), "encrypt") {
			return Extraction{}, fmt.Errorf("%w: %v", ErrProtected, openErr)
		}
		return Extraction{}, fmt.Errorf("%w: %v", ErrCorrupted, openErr)
	}

	pageCount := reader.NumPage()
	pagesToProcess := pageCount
	if pagesToProcess > maxPages {
		log.Printf("Large PDF detected (%d pages), processing first %d pages", pageCount, maxPages)
		pagesToProcess = maxPages
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= pagesToProcess; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			log.Printf("Could not extract text from page %d: %v", pageNum, pageErr)
			continue
		}
		// Pages below the threshold are non-content: blank or image-only.
		if len(strings.TrimSpace(pageText)) <= minPageChars {
			continue
		}
		fmt.Fprintf(&sb, "\n--- Page %d ---\n%s", pageNum, pageText)
	}

	return e.clean(sb.String(), pageCount, pagesToProcess)
}

func (e *Extractor) extractWithDocconv(data []byte, filename string) (Extraction, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), true)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return e.clean(res.Body, 1, 1)
}

// clean strips blank lines, trims each line, applies the length cap, and
// enforces the non-empty invariant.
func (e *Extractor) clean(text string, pageCount, pagesProcessed int) (Extraction, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	cleaned := strings.Join(lines, "\n")

	if strings.TrimSpace(cleaned) == "" {
		return Extraction{}, ErrNoText
	}

	truncated := false
	if len(cleaned) > maxTextLen {
		log.Printf("Large resume text (%d chars), truncating to %d", len(cleaned), maxTextLen)
		cleaned = cleaned[:maxTextLen] + truncationMarker
		truncated = true
	}

	return Extraction{
		Text:           cleaned,
		PageCount:      pageCount,
		PagesProcessed: pagesProcessed,
		Truncated:      truncated,
	}, nil
}
