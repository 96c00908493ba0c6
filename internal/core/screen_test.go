package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	s.SetColored(1, 2, '▚', ColorYellow)
	if c := s.GetCell(1, 2); c.Rune != '▚' || c.Color != ColorYellow {
		t.Errorf("GetCell(1, 2) = %+v", c)
	}

	// Out of bounds is silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawText(2, 0, "Hello")
	if got := s.Row(0); got != "  Hello   " {
		t.Errorf("Row(0) = %q", got)
	}

	// Multi-byte runes advance one column each
	s.DrawTextColored(0, 1, "0/1▚", ColorGreen)
	if got := s.Row(1); got != "0/1▚      " {
		t.Errorf("Row(1) = %q", got)
	}
	if s.GetCell(3, 1).Color != ColorGreen {
		t.Error("expected colored text")
	}

	// Clipped at the edge
	s.DrawText(8, 0, "xyz")
	if got := s.Row(0); !strings.HasSuffix(got, "xy") {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "abc")
	if got := s.Row(0); got != "    abc    " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawRectAndFrame(t *testing.T) {
	s := NewScreen(5, 5)
	s.DrawRect(NewRect(0, 0, 5, 5), '▒', ColorWhite)
	s.DrawRect(NewRect(1, 1, 3, 3), ' ', ColorDefault)
	want := "▒▒▒▒▒\n▒   ▒\n▒   ▒\n▒   ▒\n▒▒▒▒▒"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	f := NewScreen(4, 3)
	f.DrawFrame(f.Bounds(), '#', ColorGray)
	if got := f.String(); got != "####\n#  #\n####" {
		t.Errorf("frame =\n%s", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(s.Bounds())
	want := "┌──┐\n│  │\n└──┘"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s", got)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(3, 1)
	s.DrawText(0, 0, "abc")
	s.Clear()
	if s.Row(0) != "   " {
		t.Errorf("Row(0) = %q after Clear", s.Row(0))
	}
}
