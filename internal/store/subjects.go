package store

import "fmt"

// Subject is one of the fixed DAT study subjects. The zero value means
// "no subject selected".
type Subject int

const (
	SubjectNone Subject = iota
	SubjectGeneralChem
	SubjectOrganicChem
	SubjectBiology
	SubjectPerceptualAbility
	SubjectReadingComprehension
	SubjectQuantitativeReasoning
)

// Subjects lists every selectable subject in display order.
var Subjects = []Subject{
	SubjectGeneralChem,
	SubjectOrganicChem,
	SubjectBiology,
	SubjectPerceptualAbility,
	SubjectReadingComprehension,
	SubjectQuantitativeReasoning,
}

func (s Subject) String() string {
	switch s {
	case SubjectGeneralChem:
		return "General Chem"
	case SubjectOrganicChem:
		return "Organic Chem"
	case SubjectBiology:
		return "Biology"
	case SubjectPerceptualAbility:
		return "Perceptual Ability"
	case SubjectReadingComprehension:
		return "Reading Comprehension"
	case SubjectQuantitativeReasoning:
		return "Quantitative Reasoning"
	}
	return ""
}

// Valid reports whether s is one of the selectable subjects.
func (s Subject) Valid() bool {
	return s >= SubjectGeneralChem && s <= SubjectQuantitativeReasoning
}

// ParseSubject maps a display name back to its Subject.
func ParseSubject(name string) (Subject, error) {
	for _, s := range Subjects {
		if s.String() == name {
			return s, nil
		}
	}
	return SubjectNone, fmt.Errorf("unknown subject %q", name)
}

func (s Subject) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid subject %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Subject) UnmarshalText(text []byte) error {
	parsed, err := ParseSubject(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
