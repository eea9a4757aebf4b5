// Package labels - Label vocabularies for detection class resolution.
package labels

// Unknown is the fallback label for any class id the vocabulary cannot
// supply, including every id when the vocabulary is empty.
const Unknown = "Unknown"

// Vocabulary is an ordered, index-addressable list of class names. It is
// loaded once per detector lifetime and never mutated afterwards, so a
// single Vocabulary may be shared across concurrent decode calls.
type Vocabulary []string

// Name resolves a class id to its label.
//
// Arguments:
//   - id: The class index produced by the decoder.
//
// Returns:
//   - The label at id, or Unknown when the vocabulary cannot supply it.
func (v Vocabulary) Name(id int) string {
	if id < 0 || id >= len(v) {
		return Unknown
	}
	return v[id]
}
