package geom

import "fmt"

// Rect is an axis-aligned rectangle in screen pixels
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}

// Empty reports whether the rectangle covers no pixel
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the pixel (x, y) is inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Camera is the viewer of a frame. The runtime only passes it through to
// behaviors and renderers.
type Camera struct {
	Position Vector3
	View     Matrix
}
