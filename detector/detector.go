// Package detector - Explicitly owned detection post-processing pipeline.
//
// A Detector is constructed once per model deployment and owns the
// resolved label vocabulary and validated thresholds. There is no implicit
// default instance and no lazily initialized state: everything a decode
// call needs is fixed at construction.
package detector

import (
	"log"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-detect/labels"
	"github.com/nvr-ai/go-detect/models/postprocess"
	"github.com/nvr-ai/go-detect/tensor"
)

// Detector runs the view → decode → suppress pipeline over raw inference
// outputs. It holds no per-call state, so Detect is safe to call
// concurrently on independent output buffers.
type Detector struct {
	config Config
	vocab  labels.Vocabulary
	nms    postprocess.NMSConfig

	anomalies atomic.Int64
}

// New validates config, resolves the label vocabulary, and returns a
// ready detector.
//
// Arguments:
//   - config: Detector configuration; Layout and Mode are required.
//
// Returns:
//   - The constructed detector.
//   - An error if the configuration is invalid or the label file cannot
//     be loaded.
func New(config Config) (*Detector, error) {
	switch config.Layout {
	case tensor.LayoutPredictionMajor, tensor.LayoutAttributeMajor:
	default:
		return nil, errors.Errorf("detector: tensor layout %q is not a known layout", config.Layout)
	}

	switch config.Mode {
	case postprocess.ClassModeSingle, postprocess.ClassModeMulti:
	default:
		return nil, errors.Errorf("detector: class mode %q is not a known mode", config.Mode)
	}

	if config.ConfidenceThreshold == 0 {
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if config.IoUThreshold == 0 {
		config.IoUThreshold = DefaultIoUThreshold
	}

	vocab := labels.Vocabulary(config.Labels)
	if config.LabelPath != "" {
		loaded, err := labels.Load(config.LabelPath)
		if err != nil {
			return nil, errors.Wrap(err, "detector: load label vocabulary")
		}
		vocab = loaded
	}

	if len(vocab) == 0 && config.Mode == postprocess.ClassModeMulti {
		log.Printf("⚠️  detector: multi-class decoding with an empty vocabulary, labels degrade to %q", labels.Unknown)
	}

	return &Detector{
		config: config,
		vocab:  vocab,
		nms: postprocess.NMSConfig{
			IoUThreshold: config.IoUThreshold,
			Limit:        config.MaxDetections,
		},
	}, nil
}

// Detect runs the full pipeline over one raw output tensor.
//
// The buffer is borrowed read-only for the duration of the call; the
// returned detections are owned by the caller. An empty result means
// nothing crossed the threshold and is not an error.
//
// Arguments:
//   - output: Flat output buffer of the completed inference call.
//   - predictions: Number of predictions declared by the model.
//   - attributes: Values per prediction declared by the model.
//   - imageWidth: Width of the original image in pixels.
//   - imageHeight: Height of the original image in pixels.
//
// Returns:
//   - Detections ordered by descending confidence.
//   - A *tensor.ShapeError (wrapped) if the declared shape is invalid; no
//     partial result is produced in that case.
func (d *Detector) Detect(output []float32, predictions, attributes, imageWidth, imageHeight int) ([]postprocess.Result, error) {
	view, err := tensor.NewView(output, d.config.Layout, predictions, attributes)
	if err != nil {
		return nil, errors.Wrap(err, "detector: invalid output tensor")
	}

	candidates, stats := postprocess.Decode(view, postprocess.DecodeOptions{
		ImageWidth:          imageWidth,
		ImageHeight:         imageHeight,
		ConfidenceThreshold: d.config.ConfidenceThreshold,
		Mode:                d.config.Mode,
		Vocabulary:          d.vocab,
	})

	if stats.ClassAnomalies > 0 {
		d.anomalies.Add(int64(stats.ClassAnomalies))
		log.Printf("⚠️  detector: coerced %d out-of-range class ids to class 0", stats.ClassAnomalies)
	}

	return postprocess.ApplyGreedyNMS(candidates, d.nms), nil
}

// ClassAnomalies reports the cumulative number of out-of-range class ids
// coerced to 0 since construction.
func (d *Detector) ClassAnomalies() int64 {
	return d.anomalies.Load()
}

// Vocabulary returns the detector's label vocabulary. Callers must treat
// it as read-only.
func (d *Detector) Vocabulary() labels.Vocabulary {
	return d.vocab
}
