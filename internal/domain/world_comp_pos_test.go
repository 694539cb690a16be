package domain

import (
	"errors"
	"testing"
)

func TestRectFootprint(t *testing.T) {
	cells := RectFootprint(Position{X: 0, Y: 0}, 2, 2)
	want := []Position{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
	if RectFootprint(Position{}, 0, 3) != nil {
		t.Error("zero width must give nil footprint")
	}
	if got := MinCorner([]Position{{3, 1}, {2, 5}, {2, 1}}); got != (Position{X: 2, Y: 1}) {
		t.Errorf("MinCorner = %v, want (2,1)", got)
	}
}

func TestGridLayout(t *testing.T) {
	g := NewGridLayout(2, 10, -4)

	tests := []struct {
		x, y float64
		want Position
	}{
		{10, -4, Position{X: 0, Y: 0}},
		{11.9, -2.1, Position{X: 0, Y: 0}},
		{12, -2, Position{X: 1, Y: 1}},
		{9.9, -4.1, Position{X: -1, Y: -1}},
	}
	for _, tt := range tests {
		if got := g.WorldToCell(tt.x, tt.y); got != tt.want {
			t.Errorf("WorldToCell(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	cx, cy := g.CellCenter(Position{X: 1, Y: 1})
	if cx != 13 || cy != -1 {
		t.Errorf("CellCenter = (%v,%v), want (13,-1)", cx, cy)
	}
	// Центр клетки всегда возвращается в ту же клетку
	if back := g.WorldToCell(cx, cy); back != (Position{X: 1, Y: 1}) {
		t.Errorf("round trip = %v", back)
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Right")
	if err != nil || d != DirRight {
		t.Errorf("ParseDirection(Right) = %v, %v", d, err)
	}
	if _, err := ParseDirection("north-east"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
	if !DirLeft.IsCardinal() || (Position{X: 1, Y: 1}).IsCardinal() {
		t.Error("IsCardinal mismatch")
	}
}

func TestStepDuration(t *testing.T) {
	// 5 клеток/сек -> 200мс на клетку
	if got := StepDuration(5, 1, 1).Milliseconds(); got != 200 {
		t.Errorf("StepDuration = %dms, want 200", got)
	}
	// Множитель 2 -> вдвое быстрее, стоимость 2 -> вдвое медленнее
	if got := StepDuration(5, 2, 2).Milliseconds(); got != 200 {
		t.Errorf("StepDuration = %dms, want 200", got)
	}
}
