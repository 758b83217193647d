// Package core provides fundamental types and utilities shared by the grid
// engine and the terminal platform. It has no external dependencies so the
// simulation stays pure and testable.
package core

import (
	"fmt"
	"math"
)

// Pos is an integer grid coordinate, 0-indexed from the top-left corner.
type Pos struct {
	X, Y int
}

// P is shorthand for constructing a Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// Add returns p shifted by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the Euclidean distance between p and q.
func (p Pos) Dist(q Pos) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan returns the taxicab distance between p and q.
func (p Pos) Manhattan(q Pos) int {
	return Abs(p.X-q.X) + Abs(p.Y-q.Y)
}

// InBounds reports whether p lies inside a size x size grid.
func (p Pos) InBounds(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

// Neighbors4 returns the orthogonal neighbours of p in left, right, up, down
// order, filtered to a size x size grid.
func (p Pos) Neighbors4(size int) []Pos {
	out := make([]Pos, 0, 4)
	for _, n := range [...]Pos{p.Add(-1, 0), p.Add(1, 0), p.Add(0, -1), p.Add(0, 1)} {
		if n.InBounds(size) {
			out = append(out, n)
		}
	}
	return out
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect represents an axis-aligned box on the screen.
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

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
