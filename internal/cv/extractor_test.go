package cv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRejectsUnsupportedTypes(t *testing.T) {
	e := NewExtractor()

	for _, name := range []string{"resume.png", "resume.html", "resume"} {
		t.Run(name, func(t *testing.T) {
			_, err := e.Extract([]byte("data"), name)
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestExtractPDFHeaderValidation(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract([]byte("this is not a pdf at all"), "resume.pdf")
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestExtractCorruptedPDFStream(t *testing.T) {
	e := NewExtractor()

	// Valid header followed by garbage must classify as corrupted, not panic.
	data := append([]byte("%PDF-1.7\n"), []byte(strings.Repeat("garbage ", 100))...)
	_, err := e.Extract(data, "resume.pdf")
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor()

	text := "John Smith\n\n\nSoftware Engineer\n\n   \nSkills: Go\n"
	ext, err := e.Extract([]byte(text), "resume.txt")
	require.NoError(t, err)

	// Blank lines are dropped and remaining lines trimmed.
	assert.Equal(t, "John Smith\nSoftware Engineer\nSkills: Go", ext.Text)
	assert.False(t, ext.Truncated)
}

func TestExtractEmptyTextSignalsNoText(t *testing.T) {
	e := NewExtractor()

	for _, content := range []string{"", "   \n\t\n   "} {
		_, err := e.Extract([]byte(content), "resume.txt")
		assert.ErrorIs(t, err, ErrNoText)
	}
}

func TestExtractTruncatesLongText(t *testing.T) {
	e := NewExtractor()

	long := strings.Repeat("This line repeats to build a very long resume body.\n", 500)
	ext, err := e.Extract([]byte(long), "resume.txt")
	require.NoError(t, err)

	assert.True(t, ext.Truncated)
	assert.True(t, strings.HasSuffix(ext.Text, truncationMarker))
	assert.LessOrEqual(t, len(ext.Text), maxTextLen+len(truncationMarker))
}
