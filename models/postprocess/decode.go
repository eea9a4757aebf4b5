package postprocess

import (
	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-detect/images"
	"github.com/nvr-ai/go-detect/labels"
	"github.com/nvr-ai/go-detect/tensor"
)

// ClassMode selects how a prediction's class identity is resolved. The
// mode is fixed when the pipeline is configured, not re-detected per
// prediction.
type ClassMode string

const (
	// ClassModeSingle assigns class 0 to every prediction. Used for
	// single-object models whose output carries no per-class scores.
	ClassModeSingle ClassMode = "single"
	// ClassModeMulti resolves the class by argmax over the trailing
	// per-class scores.
	ClassModeMulti ClassMode = "multi"
)

// DecodeOptions parameterize one decode call.
type DecodeOptions struct {
	// Dimensions of the original image the detections are expressed
	// against.
	ImageWidth  int
	ImageHeight int
	// ConfidenceThreshold is exclusive: only predictions whose objectness
	// is strictly greater survive.
	ConfidenceThreshold float32
	// Mode selects single-class or multi-class resolution.
	Mode ClassMode
	// Vocabulary maps class ids to names. May be empty, in which case
	// labels degrade to labels.Unknown.
	Vocabulary labels.Vocabulary
}

// Stats counts per-batch decode outcomes. ClassAnomalies is the number of
// predictions whose resolved class id fell outside the vocabulary and was
// coerced to class 0; such anomalies never abort the batch.
type Stats struct {
	Predictions    int
	Kept           int
	Degenerate     int
	ClassAnomalies int
}

// Decode converts every raw prediction in the view into a candidate
// detection: normalized center/size scaled to pixel space, corner
// coordinates derived from the predicted width and height, each corner
// clamped independently into the image bounds, and the class resolved per
// the configured mode.
//
// Predictions at or below the confidence threshold are discarded, as are
// boxes that are degenerate after clamping (zero or negative area).
// Output ordering is not guaranteed; ApplyGreedyNMS orders by confidence.
//
// Arguments:
//   - view: Read-only view over the raw output tensor.
//   - opts: Decode parameters for this call.
//
// Returns:
//   - The surviving candidate detections.
//   - Per-batch decode statistics.
func Decode(view *tensor.View, opts DecodeOptions) ([]Result, Stats) {
	imgW := float32(opts.ImageWidth)
	imgH := float32(opts.ImageHeight)
	stats := Stats{Predictions: view.Predictions()}

	multi := opts.Mode == ClassModeMulti && view.Classes() > 0

	results := make([]Result, 0, view.Predictions())
	for i := 0; i < view.Predictions(); i++ {
		score := view.At(i, 4)
		if score <= opts.ConfidenceThreshold {
			continue
		}

		cx := view.At(i, 0) * imgW
		cy := view.At(i, 1) * imgH
		w := view.At(i, 2) * imgW
		h := view.At(i, 3) * imgH

		// Corners come from the predicted box size; each edge is then
		// clamped into the image independently.
		x1 := math32.Max(0, math32.Min(cx-w/2, imgW))
		y1 := math32.Max(0, math32.Min(cy-h/2, imgH))
		x2 := math32.Max(0, math32.Min(cx+w/2, imgW))
		y2 := math32.Max(0, math32.Min(cy+h/2, imgH))

		if x2 <= x1 || y2 <= y1 {
			stats.Degenerate++
			continue
		}

		class := 0
		if multi {
			class = argmaxClass(view, i, len(opts.Vocabulary))
			if class >= len(opts.Vocabulary) {
				stats.ClassAnomalies++
				class = 0
			}
		}

		results = append(results, Result{
			Box:    images.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2},
			Center: images.CenterBox{CX: cx, CY: cy, W: w, H: h},
			Score:  score,
			Class:  class,
			Label:  opts.Vocabulary.Name(class),
		})
	}

	stats.Kept = len(results)
	return results, stats
}

// argmaxClass scans the trailing per-class scores of prediction i,
// restricted to the vocabulary size when one is supplied. The strict
// greater-than comparison keeps the lowest index on ties.
func argmaxClass(view *tensor.View, i, vocabSize int) int {
	n := view.Classes()
	if vocabSize > 0 && vocabSize < n {
		n = vocabSize
	}

	class := 0
	best := view.ClassScore(i, 0)
	for c := 1; c < n; c++ {
		if score := view.ClassScore(i, c); score > best {
			best = score
			class = c
		}
	}
	return class
}
