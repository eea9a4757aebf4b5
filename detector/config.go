package detector

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-detect/models/postprocess"
	"github.com/nvr-ai/go-detect/tensor"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	// DefaultConfidenceThreshold is the exclusive objectness cutoff.
	DefaultConfidenceThreshold float32 = 0.3
	// DefaultIoUThreshold is the suppression overlap cutoff.
	DefaultIoUThreshold float32 = 0.5
)

// Config describes one detector instance. Layout and Mode are required:
// the tensor layout and the class-resolution policy are ambiguous across
// model exports and must be declared, never inferred from the data.
type Config struct {
	// Physical layout of the model's output tensor.
	Layout tensor.Layout `json:"layout" yaml:"layout"`
	// Class resolution mode, fixed for the detector's lifetime.
	Mode postprocess.ClassMode `json:"mode" yaml:"mode"`
	// ConfidenceThreshold is exclusive: only predictions strictly above
	// it are kept. Zero selects DefaultConfidenceThreshold; a small
	// negative value keeps everything.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// IoUThreshold is the suppression cutoff. Zero selects
	// DefaultIoUThreshold.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// MaxDetections caps the suppressed output. Zero means unbounded; 1
	// is the single-best-detection deployment.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
	// Labels is the in-memory vocabulary in model output order.
	Labels []string `json:"labels" yaml:"labels"`
	// LabelPath, when set, loads the vocabulary from a one-label-per-line
	// file instead of Labels.
	LabelPath string `json:"label_path" yaml:"label_path"`
}

// LoadConfig reads a YAML detector configuration from path.
//
// Arguments:
//   - path: Path to the YAML file.
//
// Returns:
//   - The parsed configuration (defaults are applied later, by New).
//   - An error if the file cannot be read or parsed.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read detector config %s", path)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(err, "parse detector config %s", path)
	}

	return config, nil
}
