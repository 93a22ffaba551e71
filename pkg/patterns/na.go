package patterns

// defaultNAValues mirrors the missing-value markers written by common
// spreadsheet and dataframe tools.
var defaultNAValues = []string{
	"", "#N/A", "N/A", "#NA", "NA",
	"-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "NULL", "NaN",
	"n/a", "nan", "null",
}

// DefaultNAValues returns a copy of the built-in missing-value vocabulary.
func DefaultNAValues() []string {
	return clone(defaultNAValues)
}

// NAVocabulary is a set of literal strings treated as missing values.
// Membership is exact and case-sensitive.
type NAVocabulary map[string]struct{}

// NewNAVocabulary builds a vocabulary from values.
func NewNAVocabulary(values []string) NAVocabulary {
	v := make(NAVocabulary, len(values))
	for _, s := range values {
		v[s] = struct{}{}
	}
	return v
}

// Contains reports whether value is a missing-value marker.
func (v NAVocabulary) Contains(value string) bool {
	_, ok := v[value]
	return ok
}
