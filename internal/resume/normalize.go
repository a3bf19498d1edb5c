package resume

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Normalize decodes a model response into a Parsed document. The model is
// instructed to return bare JSON but occasionally wraps it in markdown code
// fences or leading prose, so the outer object is located before decoding.
// Scalar keys stay null when missing, collections are always present, and
// durationCalculated is recomputed locally for every experience entry whose
// duration string parses, so the value does not depend on model arithmetic.
func Normalize(raw string, now time.Time) (Parsed, error) {
	cleaned := StripCodeFences(raw)

	var doc Parsed
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Parsed{}, fmt.Errorf("decode model output: %w", err)
	}
	doc.EnsureShape()

	for i := range doc.Experience {
		exp := &doc.Experience[i]
		if exp.Duration == nil {
			continue
		}
		if calc, ok := CalculateDuration(*exp.Duration, now); ok {
			exp.DurationCalculated = strPtr(calc)
		}
	}

	return doc, nil
}

// StripCodeFences removes markdown fences and any prose around the outermost
// JSON object.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}

// MarshalPretty renders a document the way the download endpoint serves it.
func MarshalPretty(doc Parsed) ([]byte, error) {
	doc.EnsureShape()
	return json.MarshalIndent(doc, "", "  ")
}
