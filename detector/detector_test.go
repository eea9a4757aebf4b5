package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-detect/models/postprocess"
	"github.com/nvr-ai/go-detect/tensor"
)

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "missing layout",
			config: Config{Mode: postprocess.ClassModeSingle},
		},
		{
			name:   "unknown layout",
			config: Config{Layout: "diagonal", Mode: postprocess.ClassModeSingle},
		},
		{
			name:   "missing mode",
			config: Config{Layout: tensor.LayoutPredictionMajor},
		},
		{
			name:   "unknown mode",
			config: Config{Layout: tensor.LayoutPredictionMajor, Mode: "dual"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.config)
			assert.Nil(t, d)
			assert.Error(t, err)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutPredictionMajor,
		Mode:   postprocess.ClassModeSingle,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfidenceThreshold, d.config.ConfidenceThreshold)
	assert.Equal(t, DefaultIoUThreshold, d.config.IoUThreshold)
	assert.Equal(t, 0, d.nms.Limit)
}

func TestDetectPipeline(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutPredictionMajor,
		Mode:   postprocess.ClassModeMulti,
		Labels: []string{"person", "car", "dog"},
	})
	require.NoError(t, err)

	// Three predictions on a 640x480 image: two heavily overlapping
	// "car" boxes and one below the confidence threshold.
	output := []float32{
		0.5, 0.5, 0.2, 0.2, 0.9, 0.1, 0.8, 0.1,
		0.51, 0.51, 0.2, 0.2, 0.7, 0.1, 0.8, 0.1,
		0.2, 0.2, 0.1, 0.1, 0.1, 0.9, 0.1, 0.1,
	}

	results, err := d.Detect(output, 3, 8, 640, 480)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, "car", results[0].Label)

	// Clamping invariant holds on everything the pipeline returns.
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Box.X1, float32(0))
		assert.GreaterOrEqual(t, r.Box.Y1, float32(0))
		assert.LessOrEqual(t, r.Box.X2, float32(640))
		assert.LessOrEqual(t, r.Box.Y2, float32(480))
	}
}

func TestDetectAttributeMajorSingleClass(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutAttributeMajor,
		Mode:   postprocess.ClassModeSingle,
		Labels: []string{"face"},
	})
	require.NoError(t, err)

	output := []float32{
		0.5, 0.2, // cx
		0.5, 0.2, // cy
		0.2, 0.1, // w
		0.2, 0.1, // h
		0.9, 0.8, // objectness
	}

	results, err := d.Detect(output, 2, 5, 100, 100)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "face", results[0].Label)
	assert.Equal(t, "face", results[1].Label)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestDetectShapeErrorProducesNoPartialResult(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutPredictionMajor,
		Mode:   postprocess.ClassModeSingle,
	})
	require.NoError(t, err)

	results, err := d.Detect(make([]float32, 8), 2, 4, 100, 100)
	assert.Nil(t, results)

	var shapeErr *tensor.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestDetectEmptyResultIsNotAnError(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutPredictionMajor,
		Mode:   postprocess.ClassModeSingle,
	})
	require.NoError(t, err)

	// Zero predictions.
	results, err := d.Detect(nil, 0, 5, 100, 100)
	assert.NoError(t, err)
	assert.Empty(t, results)

	// Predictions exist but nothing crosses the threshold.
	results, err = d.Detect([]float32{0.5, 0.5, 0.2, 0.2, 0.1}, 1, 5, 100, 100)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestDetectCountsClassAnomalies(t *testing.T) {
	d, err := New(Config{
		Layout: tensor.LayoutPredictionMajor,
		Mode:   postprocess.ClassModeMulti,
	})
	require.NoError(t, err)

	output := []float32{0.5, 0.5, 0.2, 0.2, 0.9, 0.1, 0.9}
	results, err := d.Detect(output, 1, 7, 100, 100)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Class)
	assert.Equal(t, int64(1), d.ClassAnomalies())

	// The counter accumulates across calls.
	_, err = d.Detect(output, 1, 7, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.ClassAnomalies())
}

func TestSingleBestDetectionDeployment(t *testing.T) {
	d, err := New(Config{
		Layout:        tensor.LayoutPredictionMajor,
		Mode:          postprocess.ClassModeSingle,
		MaxDetections: 1,
	})
	require.NoError(t, err)

	output := []float32{
		0.2, 0.2, 0.1, 0.1, 0.6,
		0.8, 0.8, 0.1, 0.1, 0.9,
	}

	results, err := d.Detect(output, 2, 5, 100, 100)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, float32(0.9), results[0].Score)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detector.yaml")
	content := `
layout: attribute-major
mode: multi
confidence_threshold: 0.25
iou_threshold: 0.45
max_detections: 10
labels:
  - person
  - car
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, tensor.LayoutAttributeMajor, config.Layout)
	assert.Equal(t, postprocess.ClassModeMulti, config.Mode)
	assert.Equal(t, float32(0.25), config.ConfidenceThreshold)
	assert.Equal(t, float32(0.45), config.IoUThreshold)
	assert.Equal(t, 10, config.MaxDetections)
	assert.Equal(t, []string{"person", "car"}, config.Labels)

	d, err := New(config)
	require.NoError(t, err)
	assert.Equal(t, "car", d.Vocabulary().Name(1))
}

func TestLoadConfigLabelFile(t *testing.T) {
	dir := t.TempDir()

	labelPath := filepath.Join(dir, "coco.names")
	require.NoError(t, os.WriteFile(labelPath, []byte("person\ncar\n"), 0o644))

	configPath := filepath.Join(dir, "detector.yaml")
	content := "layout: prediction-major\nmode: multi\nlabel_path: " + labelPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	d, err := New(config)
	require.NoError(t, err)
	assert.Equal(t, "person", d.Vocabulary().Name(0))
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: [unclosed"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
