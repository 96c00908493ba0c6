package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{14, 14, true},
		{12, 12, true},
		{15, 10, false},
		{10, 15, false},
		{9, 10, false},
		{10, 9, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if r.Right() != 40 {
		t.Errorf("Right() = %d, expected 40", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %d, expected 60", r.Bottom())
	}
}

func TestRectInset(t *testing.T) {
	if got := NewRect(0, 0, 5, 5).Inset(1); got != NewRect(1, 1, 3, 3) {
		t.Errorf("Inset(1) = %+v", got)
	}
	if got := NewRect(0, 0, 2, 2).Inset(2); got.W != 0 || got.H != 0 {
		t.Errorf("Inset should not go negative, got %+v", got)
	}
}

func TestRectCentered(t *testing.T) {
	if got := NewRect(0, 0, 80, 24).Centered(20, 10); got != NewRect(30, 7, 20, 10) {
		t.Errorf("Centered = %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		val, n, want int
	}{
		{0, 3, 0},
		{3, 3, 0},
		{-1, 3, 2},
		{7, 3, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.val, tt.n); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", tt.val, tt.n, got, tt.want)
		}
	}
}

func TestActionHeading(t *testing.T) {
	tests := []struct {
		a         Action
		dx, dy    int
		slide, ok bool
	}{
		{ActionUp, 0, -1, false, true},
		{ActionRight, 1, 0, false, true},
		{ActionSlideLeft, -1, 0, true, true},
		{ActionSlideDown, 0, 1, true, true},
		{ActionUndo, 0, 0, false, false},
	}
	for _, tt := range tests {
		dx, dy, slide, ok := tt.a.Heading()
		if dx != tt.dx || dy != tt.dy || slide != tt.slide || ok != tt.ok {
			t.Errorf("%s.Heading() = (%d, %d, %v, %v)", tt.a, dx, dy, slide, ok)
		}
	}
	if ActionSave.String() != "Save" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
