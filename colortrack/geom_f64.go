package colortrack

import (
	"image"
	"math"
)

// Rectangle is an axis-aligned bounding box in image coordinates.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

func NewRectFrom(rect image.Rectangle) Rectangle {
	return Rectangle{
		X:      float64(rect.Min.X),
		Y:      float64(rect.Min.Y),
		Width:  float64(rect.Dx()),
		Height: float64(rect.Dy()),
	}
}

// Left returns the x-coordinate of the left edge
func (rect Rectangle) Left() float64 {
	return rect.X
}

// Right returns the x-coordinate of the right edge
func (rect Rectangle) Right() float64 {
	return rect.X + rect.Width
}

// Top returns the y-coordinate of the top edge
func (rect Rectangle) Top() float64 {
	return rect.Y
}

// Bottom returns the y-coordinate of the bottom edge
func (rect Rectangle) Bottom() float64 {
	return rect.Y + rect.Height
}

// Center returns the centroid of the rectangle
func (rect Rectangle) Center() Point {
	return Point{
		X: rect.X + rect.Width/2.0,
		Y: rect.Y + rect.Height/2.0,
	}
}

// CenteredOn returns a rectangle of the same size re-centered on (x, y)
func (rect Rectangle) CenteredOn(x, y float64) Rectangle {
	return Rectangle{
		X:      x - rect.Width/2.0,
		Y:      y - rect.Height/2.0,
		Width:  rect.Width,
		Height: rect.Height,
	}
}

// Empty reports whether the rectangle covers no pixels
func (rect Rectangle) Empty() bool {
	return rect.Width <= 0 || rect.Height <= 0
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
