package subject

import "slices"

// Subject is the tag the API puts on each question.
type Subject string

const (
	Medicine Subject = "Medicine"
	Paeds    Subject = "Paeds"
	Gynae    Subject = "Gynae"
	Surgery  Subject = "Surgery"

	// Other groups questions that carry no subject tag.
	Other Subject = "Other"
)

// Priority is the order used for mock test breakdowns. It follows the
// mock test distribution, largest share first.
var Priority = []Subject{Medicine, Paeds, Gynae, Surgery}

// Selectable lists the subjects offered for subject-wise practice.
var Selectable = []Subject{Surgery, Medicine, Gynae, Paeds}

// MockDistribution is the number of questions per subject in a mock test.
var MockDistribution = map[Subject]int{
	Medicine: 70,
	Paeds:    50,
	Gynae:    40,
	Surgery:  30,
}

var displayNames = map[Subject]string{
	Medicine: "Medicine",
	Paeds:    "Pediatrics",
	Gynae:    "Obstetrics & Gynecology",
	Surgery:  "General Surgery",
}

// Known reports whether s is one of the catalogued subjects.
func (s Subject) Known() bool {
	return slices.Contains(Priority, s)
}

// DisplayName returns the long form used in headings.
func (s Subject) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// Rank returns the position of s in Priority, or len(Priority) for
// subjects outside the catalog.
func (s Subject) Rank() int {
	if i := slices.Index(Priority, s); i >= 0 {
		return i
	}
	return len(Priority)
}

// Compare orders subjects by priority; unknown subjects come last,
// alphabetically among themselves.
func Compare(a, b Subject) int {
	ra, rb := a.Rank(), b.Rank()
	if ra != rb {
		return ra - rb
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Normalize maps an empty tag to Other.
func Normalize(raw string) Subject {
	if raw == "" {
		return Other
	}
	return Subject(raw)
}
