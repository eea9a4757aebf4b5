// Package tensor - Read-only views over raw detection output buffers.
package tensor

import "fmt"

// Layout identifies the physical memory layout of a detection output
// tensor. Different exports of the same model family disagree on which
// dimension varies fastest, so the layout is a decode-time configuration
// value supplied by the caller, never inferred from the data.
type Layout string

const (
	// LayoutPredictionMajor stores one row per prediction with its
	// attributes contiguous: [predictions][attributes].
	LayoutPredictionMajor Layout = "prediction-major"
	// LayoutAttributeMajor stores one row per attribute across all
	// predictions (transposed): [attributes][predictions].
	LayoutAttributeMajor Layout = "attribute-major"
)

// MinAttributes is the smallest usable attribute count: four geometry
// values plus one objectness score. Anything beyond that is a trailing
// run of per-class scores.
const MinAttributes = 5

// ShapeError reports a structurally invalid declared shape. It is fatal
// to the decode call that triggered it; no partial result is produced.
type ShapeError struct {
	Predictions int
	Attributes  int
	Reason      string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("tensor: shape [%d x %d] invalid: %s", e.Predictions, e.Attributes, e.Reason)
}

// View exposes per-prediction attribute access over a flat float32 buffer
// without copying it. The buffer is borrowed read-only for the duration of
// one decode call; a View must not be retained past the buffer's owner.
type View struct {
	data        []float32
	layout      Layout
	predictions int
	attributes  int
}

// NewView wraps data with a declared shape and layout.
//
// Arguments:
//   - data: The flat output buffer owned by the inference call.
//   - layout: Physical layout of the declared shape.
//   - predictions: Number of predictions in the tensor.
//   - attributes: Values per prediction (geometry + objectness + class scores).
//
// Returns:
//   - A read-only view over the buffer.
//   - A *ShapeError if the declared shape is structurally invalid.
func NewView(data []float32, layout Layout, predictions, attributes int) (*View, error) {
	switch layout {
	case LayoutPredictionMajor, LayoutAttributeMajor:
	default:
		return nil, &ShapeError{
			Predictions: predictions,
			Attributes:  attributes,
			Reason:      fmt.Sprintf("unknown layout %q", layout),
		}
	}
	if predictions < 0 {
		return nil, &ShapeError{
			Predictions: predictions,
			Attributes:  attributes,
			Reason:      "negative prediction count",
		}
	}
	if attributes < MinAttributes {
		return nil, &ShapeError{
			Predictions: predictions,
			Attributes:  attributes,
			Reason:      fmt.Sprintf("need at least %d attributes (4 geometry values + 1 confidence)", MinAttributes),
		}
	}
	if len(data) < predictions*attributes {
		return nil, &ShapeError{
			Predictions: predictions,
			Attributes:  attributes,
			Reason:      fmt.Sprintf("buffer holds %d values, declared shape needs %d", len(data), predictions*attributes),
		}
	}

	return &View{
		data:        data,
		layout:      layout,
		predictions: predictions,
		attributes:  attributes,
	}, nil
}

// Predictions returns the number of predictions in the view.
func (v *View) Predictions() int {
	return v.predictions
}

// Attributes returns the number of values per prediction.
func (v *View) Attributes() int {
	return v.attributes
}

// Classes returns the number of trailing per-class scores per prediction.
// Zero means the tensor carries objectness only (single-class output).
func (v *View) Classes() int {
	return v.attributes - MinAttributes
}

// At returns attribute attr of prediction i. The access pattern is the
// same for both layouts; only the index arithmetic differs.
func (v *View) At(i, attr int) float32 {
	if v.layout == LayoutAttributeMajor {
		return v.data[attr*v.predictions+i]
	}
	return v.data[i*v.attributes+attr]
}

// ClassScore returns the c-th trailing per-class score of prediction i.
func (v *View) ClassScore(i, c int) float32 {
	return v.At(i, MinAttributes+c)
}
