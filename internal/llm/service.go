package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-parser/internal/resume"
)

// Model is the generative-text boundary the extraction service talks to.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Source labels which path produced a Result.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	SourceError    Source = "error"
)

// Result is the single outcome of one extraction request: model output,
// fallback output, or a categorical error (quota, timeout).
type Result struct {
	JSON   string
	Source Source
	Err    error
}

const (
	maxAttempts    = 3
	maxPromptText  = 4000
	timeoutBackoff = 2 * time.Second
	genericBackoff = 1 * time.Second
)

// Service runs the primary model-backed extraction with retry and degrades to
// the local fallback extractor on persistent or categorical failure.
type Service struct {
	model Model

	// Injection points for tests; default to the real clock.
	now   func() time.Time
	sleep func(time.Duration)
}

func NewService(model Model) *Service {
	return &Service{
		model: model,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Extract turns normalized resume text into a JSON-shaped string.
//
// Retry policy, per failure category:
//   - quota/rate-limit: no retry, immediate error result (fallback cannot
//     solve a quota problem)
//   - safety block: no retry, immediate fallback (a local path is the right
//     degrade)
//   - timeout: retry with 2s backoff; if the pipeline deadline itself has
//     expired, report the timeout instead of degrading
//   - generic: retry with 1s backoff
//   - retries exhausted: fallback
func (s *Service) Extract(ctx context.Context, text string) Result {
	if len(text) > maxPromptText {
		log.Printf("Large resume text (%d chars), truncating prompt input to %d", len(text), maxPromptText)
		text = text[:maxPromptText] + "\n... (truncated for processing)"
	}

	prompt := buildPrompt(text, currentMonth(s.now()))

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := s.model.GenerateContent(ctx, prompt)
		if err == nil {
			return Result{JSON: raw, Source: SourceModel}
		}

		switch {
		case errors.Is(err, ErrQuota):
			log.Printf("[ERROR] Quota exceeded, not retrying: %v", err)
			return Result{JSON: `{"error": "API quota exceeded"}`, Source: SourceError, Err: err}

		case errors.Is(err, ErrSafety):
			log.Printf("Safety filter triggered, using fallback extraction: %v", err)
			return Result{JSON: resume.ExtractFallbackJSON(text), Source: SourceFallback}

		case errors.Is(err, ErrTimeout):
			if ctx.Err() != nil {
				return Result{Source: SourceError, Err: fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())}
			}
			log.Printf("Timeout on attempt %d/%d: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				s.sleep(timeoutBackoff)
			}

		default:
			log.Printf("Attempt %d/%d failed: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				s.sleep(genericBackoff)
			}
		}
	}

	log.Println("All attempts failed, using fallback extraction")
	return Result{JSON: resume.ExtractFallbackJSON(text), Source: SourceFallback}
}

// currentMonth renders the request-time calendar month, e.g. "May 2025".
// "Present" end dates in the resume resolve to this month.
func currentMonth(now time.Time) string {
	return now.Format("January 2006")
}

func buildPrompt(resumeText, month string) string {
	return fmt.Sprintf(`Extract resume information in JSON format. Be precise and return ONLY valid JSON:

{
  "personalInfo": {
    "name": "full name",
    "email": "email address",
    "phone": "phone number",
    "address": "address"
  },
  "education": [
    {
      "degree": "degree name",
      "institution": "institution name",
      "year": "year/duration",
      "location": "location"
    }
  ],
  "experience": [
    {
      "position": "job title",
      "company": "company name",
      "duration": "start - end date",
      "durationCalculated": "calculated duration",
      "location": "location",
      "description": "brief description"
    }
  ],
  "skills": ["skill1", "skill2"],
  "certifications": [
    {
      "name": "cert name",
      "issuer": "issuer",
      "year": "year"
    }
  ]
}

Rules:
1. If "Present" mentioned, use %s as end date
2. Calculate duration in "X years Y months" format
3. Extract skills ONLY from skills section
4. Use null for missing data
5. Return ONLY JSON, no markdown

Resume:
%s`, month, resumeText)
}
