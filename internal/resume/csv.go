package resume

import (
	"bytes"
	"encoding/csv"
)

// PersonalInfoCSV renders the personalInfo section as a two-row CSV (header
// plus values) for the basic-info download.
func PersonalInfoCSV(doc Parsed) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "Email", "Phone", "Address"}); err != nil {
		return nil, err
	}
	row := []string{
		deref(doc.PersonalInfo.Name),
		deref(doc.PersonalInfo.Email),
		deref(doc.PersonalInfo.Phone),
		deref(doc.PersonalInfo.Address),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
