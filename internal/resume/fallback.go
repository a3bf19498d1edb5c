package resume

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// Fallback extraction runs when the model-backed path cannot complete. It is
// local, deterministic, and never fails: any input (including empty text)
// produces a valid document in the same shape as the primary path.

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\+?[1-9]?[0-9]{7,15}`)
)

// skillVocabulary is checked in order; matches keep this order in the output.
var skillVocabulary = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js",
	"sql", "mysql", "postgresql", "mongodb", "aws", "azure", "docker",
	"kubernetes", "git", "html", "css", "php", "c++", "c#", ".net",
}

var educationKeywords = []string{
	"university", "college", "bachelor", "master", "phd", "degree",
}

const (
	maxFallbackSkills    = 10
	maxFallbackEducation = 2
	fallbackNote         = "Fallback extraction used due to processing limitations"
	notExtracted         = "Could not extract"
)

// ExtractFallback builds a best-effort document from raw text using only
// pattern matching.
func ExtractFallback(text string) Parsed {
	lines := nonBlankLines(text)
	textLower := strings.ToLower(text)

	doc := Parsed{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []string{},
		Certifications: []Certification{},
		Note:           strPtr(fallbackNote),
	}

	// Name heuristic: first non-blank line. Often wrong for headers like
	// "Curriculum Vitae", which is acceptable on this last-resort path.
	if len(lines) > 0 {
		doc.PersonalInfo.Name = strPtr(lines[0])
	} else {
		doc.PersonalInfo.Name = strPtr(notExtracted)
	}
	if email := emailRe.FindString(text); email != "" {
		doc.PersonalInfo.Email = strPtr(email)
	}
	if phone := phoneRe.FindString(text); phone != "" {
		doc.PersonalInfo.Phone = strPtr(phone)
	}

	for _, skill := range skillVocabulary {
		if len(doc.Skills) >= maxFallbackSkills {
			break
		}
		if strings.Contains(textLower, skill) {
			doc.Skills = append(doc.Skills, capitalize(skill))
		}
	}

	for _, line := range lines {
		if len(doc.Education) >= maxFallbackEducation {
			break
		}
		lower := strings.ToLower(line)
		for _, kw := range educationKeywords {
			if strings.Contains(lower, kw) {
				doc.Education = append(doc.Education, Education{
					Degree:      strPtr(line),
					Institution: strPtr(notExtracted),
					Year:        strPtr(notExtracted),
				})
				break
			}
		}
	}

	// No real experience extraction here; a single placeholder entry tells
	// the consumer to check the original document.
	doc.Experience = append(doc.Experience, Experience{
		Position:           strPtr("Could not extract details"),
		Company:            strPtr("Please check original resume"),
		Duration:           strPtr("Unknown"),
		DurationCalculated: strPtr("Unknown"),
		Description:        strPtr("Fallback extraction used"),
	})

	return doc
}

// ExtractFallbackJSON returns the fallback document as a pretty-printed JSON
// string, the same wire shape the model path returns.
func ExtractFallbackJSON(text string) string {
	doc := ExtractFallback(text)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshaling a plain struct cannot realistically fail; keep the
		// never-fails contract anyway.
		return `{"personalInfo":{"name":null,"email":null,"phone":null,"address":null},"education":[],"experience":[],"skills":[],"certifications":[],"note":"` + fallbackNote + `"}`
	}
	return string(data)
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
