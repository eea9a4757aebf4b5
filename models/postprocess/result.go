// Package postprocess - Decode and Non-Maximum Suppression for raw
// detection model outputs.
package postprocess

import "github.com/nvr-ai/go-detect/images"

// Result represents a single detection result. It is fully determined by
// one prediction of the raw tensor plus the image dimensions and label
// vocabulary at decode time, and is immutable after construction.
type Result struct {
	// The corner-form bounding box, clamped to the image bounds.
	Box images.Rect
	// The center-form box in pixel space, derived from the raw decode
	// rather than recomputed from the clamped corners.
	Center images.CenterBox
	// The objectness score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
	// The class name resolved against the label vocabulary.
	Label string
}
