package catalog

// Subject is one of the seven fixed academic areas. The literals are used as
// storage keys and as indexes into the rule catalog and the usage stats maps,
// so the set must stay closed and stable.
type Subject string

const (
	Matematicas Subject = "matematicas"
	Ciencias    Subject = "ciencias"
	Historia    Subject = "historia"
	Literatura  Subject = "literatura"
	Ingles      Subject = "ingles"
	Fisica      Subject = "fisica"
	Quimica     Subject = "quimica"
)

// AllSubjects is the canonical enumeration order. The cross-subject fallback
// scan iterates in this order, so reordering changes responder behavior.
var AllSubjects = []Subject{
	Matematicas,
	Ciencias,
	Historia,
	Literatura,
	Ingles,
	Fisica,
	Quimica,
}

var displayNames = map[Subject]string{
	Matematicas: "Matemáticas",
	Ciencias:    "Ciencias Naturales",
	Historia:    "Historia",
	Literatura:  "Literatura",
	Ingles:      "Inglés",
	Fisica:      "Física",
	Quimica:     "Química",
}

// titleAbbrevs prefix auto-generated conversation titles.
var titleAbbrevs = map[Subject]string{
	Matematicas: "Mat",
	Ciencias:    "Ciencias",
	Historia:    "Historia",
	Literatura:  "Literatura",
	Ingles:      "Inglés",
	Fisica:      "Física",
	Quimica:     "Química",
}

// Valid reports whether s is one of the seven known subjects.
func (s Subject) Valid() bool {
	_, ok := displayNames[s]
	return ok
}

// DisplayName returns the human-readable Spanish name of the subject.
func (s Subject) DisplayName() string {
	if n, ok := displayNames[s]; ok {
		return n
	}
	return string(s)
}

// TitleAbbrev returns the short form used to prefix conversation titles.
func (s Subject) TitleAbbrev() string {
	if a, ok := titleAbbrevs[s]; ok {
		return a
	}
	return string(s)
}
