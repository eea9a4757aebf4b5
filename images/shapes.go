// Package images - Geometry primitives shared by the detection pipeline.
package images

import "github.com/chewxy/math32"

// Rect is a lightweight axis-aligned bounding box in pixel space.
type Rect struct {
	// X1,Y1 is the top-left corner, X2,Y2 the bottom-right corner.
	X1, Y1, X2, Y2 float32
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float32 {
	return r.X2 - r.X1
}

// Height returns the vertical extent of the box.
func (r Rect) Height() float32 {
	return r.Y2 - r.Y1
}

// Area returns the raw width*height product. For an inverted box the
// product is negative; CalculateIoU guards against that before dividing.
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}

// CenterBox is the center/size form of a box, carried alongside the
// corner form for consumers that prefer center representation.
type CenterBox struct {
	CX, CY, W, H float32
}

// CalculateIoU measures the overlap of two boxes as a value in [0, 1].
//
// The intersection rectangle is found by taking the maximum of the
// top-left corners and the minimum of the bottom-right corners; its width
// and height are clamped to zero before multiplying, so disjoint boxes
// yield zero intersection area rather than a negative one. The union uses
// the inclusion-exclusion principle:
//
//	Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - The IoU score, or 0 when the union area is not positive (degenerate
//     inputs), which also avoids division by zero.
func CalculateIoU(r, o Rect) float32 {
	ix1 := math32.Max(r.X1, o.X1)
	iy1 := math32.Max(r.Y1, o.Y1)
	ix2 := math32.Min(r.X2, o.X2)
	iy2 := math32.Min(r.Y2, o.Y2)

	interW := math32.Max(0, ix2-ix1)
	interH := math32.Max(0, iy2-iy1)
	interArea := interW * interH

	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}
