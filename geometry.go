package labelpix

// Conversions between pixel rectangles and ratio boxes.

import (
	"fmt"
	"math"
)

// RatioBox is a bounding box stored as its center (X, Y) and size (W, H), each normalised to
// [0, 1] of a reference frame.
type RatioBox struct {
	X, Y, W, H float64
}

// Rect is an axis-aligned pixel rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Corners returns the absolute x1, y1, x2, y2 coordinates of r.
func (r Rect) Corners() [4]float64 {
	return [4]float64{r.X, r.Y, r.X + r.W, r.Y + r.H}
}

// checkFrame rejects reference frames that cannot be divided by.
func checkFrame(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: frame size %vx%v", ErrInvalidGeometry, width, height)
	}
	return nil
}

// ToRatios converts the rectangle spanned by the opposite corners (x1,y1) and (x2,y2) to a ratio
// box relative to a frame of the given width and height.
//
// Zero-size rectangles yield a zero width or height, never NaN.
func ToRatios(x1, y1, x2, y2, width, height float64) (RatioBox, error) {
	if err := checkFrame(width, height); err != nil {
		return RatioBox{}, err
	}

	w := math.Abs(x2 - x1)
	h := math.Abs(y2 - y1)
	left := math.Min(x1, x2)
	top := math.Min(y1, y2)

	return RatioBox{
		X: (left + w/2) / width,
		Y: (top + h/2) / height,
		W: w / width,
		H: h / height,
	}, nil
}

// FromRatios is the inverse of ToRatios. It returns the top-left corner and size of b in a frame
// of the given width and height.
func FromRatios(b RatioBox, width, height float64) (Rect, error) {
	if err := checkFrame(width, height); err != nil {
		return Rect{}, err
	}

	w := b.W * width
	h := b.H * height
	return Rect{
		X: b.X*width - w/2,
		Y: b.Y*height - h/2,
		W: w,
		H: h,
	}, nil
}
