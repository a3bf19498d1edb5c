package resume

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `John Smith
Senior Software Engineer
john.smith@example.com | +14155552671
Skills: Python, Java, Docker, Kubernetes, PostgreSQL
Education
Bachelor of Science, Example University, 2018
Master of Science, Example University, 2020
`

func TestExtractFallback(t *testing.T) {
	doc := ExtractFallback(sampleResume)

	require.NotNil(t, doc.PersonalInfo.Name)
	assert.Equal(t, "John Smith", *doc.PersonalInfo.Name)

	require.NotNil(t, doc.PersonalInfo.Email)
	assert.Equal(t, "john.smith@example.com", *doc.PersonalInfo.Email)

	require.NotNil(t, doc.PersonalInfo.Phone)
	assert.Equal(t, "+14155552671", *doc.PersonalInfo.Phone)

	assert.Nil(t, doc.PersonalInfo.Address)

	// Matches keep vocabulary order, not document order. "sql" matches as a
	// substring of "postgresql", same as the membership test intends.
	assert.Equal(t, []string{"Python", "Java", "Sql", "Postgresql", "Docker", "Kubernetes"}, doc.Skills)

	// Education lines are capped at two.
	require.Len(t, doc.Education, 2)
	assert.Equal(t, "Bachelor of Science, Example University, 2018", *doc.Education[0].Degree)
	assert.Equal(t, notExtracted, *doc.Education[0].Institution)

	// Exactly one placeholder experience entry.
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Fallback extraction used", *doc.Experience[0].Description)

	require.NotNil(t, doc.Note)
	assert.Equal(t, fallbackNote, *doc.Note)
}

func TestExtractFallbackSkillsCap(t *testing.T) {
	text := strings.Join(skillVocabulary, " ")
	doc := ExtractFallback(text)

	assert.Len(t, doc.Skills, maxFallbackSkills)
	// First ten vocabulary entries, capitalized, in vocabulary order.
	assert.Equal(t, "Python", doc.Skills[0])
	assert.Equal(t, "Node.js", doc.Skills[6])
	assert.Equal(t, "Postgresql", doc.Skills[9])
}

func TestExtractFallbackJSONNeverFails(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t\n  "},
		{"binary garbage", string([]byte{0x00, 0xff, 0xfe, 0x01})},
		{"single line", "Curriculum Vitae"},
		{"huge input", strings.Repeat("lorem ipsum dolor sit amet\n", 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := ExtractFallbackJSON(tt.text)

			var decoded map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

			// All four top-level sections must be present even for garbage input.
			for _, key := range []string{"personalInfo", "education", "experience", "skills", "certifications"} {
				assert.Contains(t, decoded, key)
			}
			assert.Contains(t, decoded, "note")
		})
	}
}

func TestExtractFallbackEmptyTextShape(t *testing.T) {
	doc := ExtractFallback("")

	require.NotNil(t, doc.PersonalInfo.Name)
	assert.Equal(t, notExtracted, *doc.PersonalInfo.Name)
	assert.Nil(t, doc.PersonalInfo.Email)
	assert.Nil(t, doc.PersonalInfo.Phone)
	assert.Empty(t, doc.Skills)
	assert.Empty(t, doc.Education)
	assert.Len(t, doc.Experience, 1)
}
