// Package core provides fundamental types shared by the scenes and the
// platform layer: runtime config, palette colours, layout geometry, the screen
// buffer and semantic input actions. It has no third-party dependencies so
// scene logic stays pure and testable.
package core

// Rect is an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Percent returns the sub-rectangle starting at top% of the height and
// spanning height% of it, full width. Used for banded layouts such as the
// combat button row (top 80%, height 20%).
func (r Rect) Percent(top, height int) Rect {
	y := r.Y + r.H*top/100
	h := r.H * height / 100
	if y+h > r.Bottom() {
		h = r.Bottom() - y
	}
	return Rect{X: r.X, Y: y, W: r.W, H: Max(h, 0)}
}

// Centered returns a w×h rectangle centred in r.
func (r Rect) Centered(w, h int) Rect {
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// SpaceEvenly lays out n items of width w in a row inside r with equal gaps
// before, between and after them. Items are vertically centred.
func (r Rect) SpaceEvenly(n, w, h int) []Rect {
	if n <= 0 {
		return nil
	}
	gap := (r.W - n*w) / (n + 1)
	if gap < 0 {
		gap = 0
	}
	y := r.Y + (r.H-h)/2
	out := make([]Rect, n)
	x := r.X + gap
	for i := range out {
		out[i] = Rect{X: x, Y: y, W: w, H: h}
		x += w + gap
	}
	return out
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
