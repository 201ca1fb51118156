// Package crop computes the clip rectangles used when capturing a region of a page.
//
// All values are CSS pixels in page coordinates.
package crop

// ChildMargin is added to the furthest child edges by Smart.
const ChildMargin = 15

// Rect is a positioned region of the page.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Padding is the computed CSS padding of an element.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Shrink insets box by the padding on each side. ok is false when the result
// has no positive area, in which case the caller captures the element uncropped.
func Shrink(box Rect, pad Padding) (clip Rect, ok bool) {
	clip = Rect{
		X:      box.X + pad.Left,
		Y:      box.Y + pad.Top,
		Width:  box.Width - pad.Left - pad.Right,
		Height: box.Height - pad.Top - pad.Bottom,
	}
	return clip, !clip.Empty()
}

// Smart grows a container's capture region to cover its children.
//
// The furthest right and bottom edges of the children with positive area,
// plus ChildMargin, give the candidate size measured from the container's
// top-left corner. Width never exceeds the container's width, height is never
// smaller than the container's height. Without any visible child the
// container's own edges are used.
func Smart(container Rect, children []Rect) (clip Rect, ok bool) {
	var maxRight, maxBottom float64
	for _, c := range children {
		if c.Empty() {
			continue
		}
		maxRight = max(maxRight, c.Right())
		maxBottom = max(maxBottom, c.Bottom())
	}
	if maxRight == 0 {
		maxRight = container.Right()
	}
	if maxBottom == 0 {
		maxBottom = container.Bottom()
	}

	width := maxRight - container.X + ChildMargin
	height := maxBottom - container.Y + ChildMargin

	clip = Rect{
		X:      container.X,
		Y:      container.Y,
		Width:  min(width, container.Width),
		Height: max(height, container.Height),
	}
	return clip, !clip.Empty()
}
