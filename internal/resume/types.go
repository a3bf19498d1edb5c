package resume

// Parsed is the structured résumé document produced by both the model-backed
// and the fallback extraction paths. Scalar fields are pointers so that
// missing values marshal as explicit null instead of being omitted; consumers
// can rely on every key being present.
type Parsed struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Note           *string         `json:"note,omitempty"`
}

type PersonalInfo struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type Education struct {
	Degree      *string `json:"degree"`
	Institution *string `json:"institution"`
	Year        *string `json:"year"`
	Location    *string `json:"location"`
}

type Experience struct {
	Position           *string `json:"position"`
	Company            *string `json:"company"`
	Duration           *string `json:"duration"`
	DurationCalculated *string `json:"durationCalculated"`
	Location           *string `json:"location"`
	Description        *string `json:"description"`
}

type Certification struct {
	Name   *string `json:"name"`
	Issuer *string `json:"issuer"`
	Year   *string `json:"year"`
}

// EnsureShape initializes nil collections so all four top-level keys render
// as empty arrays rather than null.
func (p *Parsed) EnsureShape() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
}

func strPtr(s string) *string {
	return &s
}
