package labels

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Load reads a vocabulary from a plain-text label file, one class name
// per line in model output order (the coco.names convention). Blank lines
// are skipped; surrounding whitespace is trimmed.
//
// Arguments:
//   - path: Path to the label file.
//
// Returns:
//   - The ordered vocabulary.
//   - An error if the file cannot be read.
func Load(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open label file %s", path)
	}
	defer f.Close()

	var vocab Vocabulary
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		vocab = append(vocab, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read label file %s", path)
	}

	return vocab, nil
}
