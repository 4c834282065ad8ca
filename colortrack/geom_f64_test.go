package colortrack

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
}

func TestRectangleEdges(t *testing.T) {
	rect := NewRect(10, 20, 30, 40)
	if rect.Left() != 10 || rect.Right() != 40 {
		t.Errorf("Expected edges [10, 40], got [%f, %f]", rect.Left(), rect.Right())
	}
	if rect.Top() != 20 || rect.Bottom() != 60 {
		t.Errorf("Expected edges [20, 60], got [%f, %f]", rect.Top(), rect.Bottom())
	}
	expectedCenter := Point{X: 25, Y: 40}
	if rect.Center() != expectedCenter {
		t.Errorf("Expected center %v, got %v", expectedCenter, rect.Center())
	}
}

func TestRectangleCenteredOn(t *testing.T) {
	rect := NewRect(10, 20, 30, 40)

	moved := rect.CenteredOn(100, 200)
	if moved.Width != rect.Width || moved.Height != rect.Height {
		t.Errorf("CenteredOn should preserve size, got %fx%f", moved.Width, moved.Height)
	}
	expectedCenter := Point{X: 100, Y: 200}
	if moved.Center() != expectedCenter {
		t.Errorf("Expected center %v, got %v", expectedCenter, moved.Center())
	}

	// Re-centering on its own center must reproduce the rectangle
	center := rect.Center()
	same := rect.CenteredOn(center.X, center.Y)
	if same != rect {
		t.Errorf("Expected %v, got %v", rect, same)
	}
	if math.Abs(IoU(rect, same)-1.0) > eps {
		t.Errorf("Expected IoU 1.0, got %f", IoU(rect, same))
	}
}

func TestNewRectFrom(t *testing.T) {
	rect := NewRectFrom(image.Rect(10, 20, 40, 60))
	expected := NewRect(10, 20, 30, 40)
	if rect != expected {
		t.Errorf("Expected %v, got %v", expected, rect)
	}

	point := NewPointFrom(image.Pt(3, 4))
	if point != NewPoint(3, 4) {
		t.Errorf("Expected %v, got %v", NewPoint(3, 4), point)
	}
}

func TestRectangleEmpty(t *testing.T) {
	if NewRect(0, 0, 10, 10).Empty() {
		t.Error("Rectangle with area should not be empty")
	}
	if !NewRect(0, 0, 0, 10).Empty() {
		t.Error("Zero-width rectangle should be empty")
	}
	if !NewRect(0, 0, 10, -1).Empty() {
		t.Error("Negative-height rectangle should be empty")
	}
}

func TestIoU(t *testing.T) {
	r1 := NewRect(0, 0, 10, 10)
	r2 := NewRect(5, 5, 10, 10)
	// Intersection 25, union 175
	correctAnswer := 25.0 / 175.0
	answer := IoU(r1, r2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}

	r3 := NewRect(100, 100, 10, 10)
	if IoU(r1, r3) != 0.0 {
		t.Errorf("Expected IoU 0.0 for disjoint rectangles, got %f", IoU(r1, r3))
	}
}
