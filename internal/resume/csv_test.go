package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonalInfoCSV(t *testing.T) {
	doc := Parsed{
		PersonalInfo: PersonalInfo{
			Name:  strPtr("Jane Doe"),
			Email: strPtr("jane@example.com"),
			// Phone and Address missing on purpose.
		},
	}

	data, err := PersonalInfoCSV(doc)
	require.NoError(t, err)
	assert.Equal(t, "Name,Email,Phone,Address\nJane Doe,jane@example.com,,\n", string(data))
}

func TestPersonalInfoCSVQuoting(t *testing.T) {
	doc := Parsed{
		PersonalInfo: PersonalInfo{
			Name:    strPtr("Doe, Jane"),
			Address: strPtr("1 Main St, Springfield"),
		},
	}

	data, err := PersonalInfoCSV(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Doe, Jane"`)
	assert.Contains(t, string(data), `"1 Main St, Springfield"`)
}
