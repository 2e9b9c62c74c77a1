package region

import (
	"cmp"
	"fmt"
	"math"
)

// Rectangle is an axis-aligned box in page-relative coordinates.
// Top grows downward, matching rasterized page images.
type Rectangle struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Page   int
}

// NewRectangle creates a rectangle on the given page.
func NewRectangle(left, top, width, height float64, page int) Rectangle {
	return Rectangle{Left: left, Top: top, Width: width, Height: height, Page: page}
}

// Right returns the right edge X coordinate
func (r Rectangle) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge Y coordinate
func (r Rectangle) Bottom() float64 {
	return r.Top + r.Height
}

// Area returns the area of the rectangle
func (r Rectangle) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// IsEmpty returns true if the rectangle has zero area
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Validate reports whether the rectangle can be part of a Region.
// Zero width or height is legal; negative sizes, negative pages and
// non-finite coordinates are not.
func (r Rectangle) Validate() error {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %v", ErrInvalidRectangle, r)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative size in %v", ErrInvalidRectangle, r)
	}
	if r.Page < 0 {
		return fmt.Errorf("%w: negative page %d", ErrInvalidRectangle, r.Page)
	}
	return nil
}

// covers reports whether the rectangle contains the cell [x0,x1]x[y0,y1].
func (r Rectangle) covers(x0, x1, y0, y1 float64) bool {
	return !r.IsEmpty() &&
		r.Left <= x0 && r.Right() >= x1 &&
		r.Top <= y0 && r.Bottom() >= y1
}

// String formats the rectangle with full float precision so that
// distinct rectangles never print the same.
func (r Rectangle) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v, page=%d)", r.Left, r.Top, r.Width, r.Height, r.Page)
}

// CompareRectangles orders rectangles by page, then left, top, width and height.
func CompareRectangles(a, b Rectangle) int {
	if c := cmp.Compare(a.Page, b.Page); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Left, b.Left); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Top, b.Top); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Width, b.Width); c != 0 {
		return c
	}
	return cmp.Compare(a.Height, b.Height)
}
