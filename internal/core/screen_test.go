package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Errorf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, Cell{Rune: 'X', Fg: ColorWhite, Bg: ColorDark})
	got := s.GetCell(5, 5)
	if got.Rune != 'X' || got.Fg != ColorWhite || got.Bg != ColorDark {
		t.Errorf("GetCell(5, 5) = %+v", got)
	}

	// Set keeps colours.
	s.Set(5, 5, 'Y')
	if got := s.GetCell(5, 5); got.Rune != 'Y' || got.Bg != ColorDark {
		t.Errorf("after Set, GetCell(5, 5) = %+v", got)
	}

	// Out of bounds is silent.
	s.SetCell(-1, 0, Cell{Rune: 'A'})
	s.SetCell(100, 0, Cell{Rune: 'A'})
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.GetCell(0, 100) != blank {
		t.Error("out of bounds reads should return a blank")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.FillRect(s.Bounds(), ColorDarker)
	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.GetCell(x, y) != blank {
				t.Errorf("after Clear, expected blank at (%d, %d), got %+v", x, y, s.GetCell(x, y))
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextStyled(2, 1, "Hello", ColorLight, ColorBlack)

	for i, ch := range "Hello" {
		c := s.GetCell(2+i, 1)
		if c.Rune != ch || c.Fg != ColorLight || c.Bg != ColorBlack {
			t.Errorf("cell %d = %+v, expected %q light on black", i, c, ch)
		}
	}

	// Clipped at the right edge.
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}

	// Multi-byte runes take one cell each.
	s.DrawText(0, 3, "♪♫x")
	if s.Get(0, 3) != '♪' || s.Get(1, 3) != '♫' || s.Get(2, 3) != 'x' {
		t.Errorf("row 3 = %q", s.Row(3))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi")

	if s.Get(9, 2) != 'H' || s.Get(10, 2) != 'i' {
		t.Errorf("row 2 = %q, expected Hi at x=9", s.Row(2))
	}

	s.DrawTextIn(NewRect(0, 0, 10, 3), "ab", ColorWhite, ColorDark)
	if c := s.GetCell(4, 1); c.Rune != 'a' || c.Bg != ColorDark {
		t.Errorf("DrawTextIn cell = %+v, expected 'a' on dark at (4, 1)", c)
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(NewRect(2, 2, 3, 3), ColorDark)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.GetCell(x, y).Bg != ColorDark {
				t.Errorf("FillRect: expected dark background at (%d, %d)", x, y)
			}
		}
	}
	if s.GetCell(1, 1) != blank || s.GetCell(5, 5) != blank {
		t.Error("FillRect should not affect outside area")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(NewRect(1, 1, 5, 4), ColorDarker)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorLight)

	corners := []struct {
		x, y int
		r    rune
	}{
		{1, 1, '┌'}, {5, 1, '┐'}, {1, 4, '└'}, {5, 4, '┘'},
	}
	for _, c := range corners {
		if got := s.Get(c.x, c.y); got != c.r {
			t.Errorf("corner (%d, %d) = %q, expected %q", c.x, c.y, got, c.r)
		}
	}

	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}

	// The border keeps the fill underneath.
	if c := s.GetCell(1, 1); c.Fg != ColorLight || c.Bg != ColorDarker {
		t.Errorf("border cell = %+v, expected light on darker", c)
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawHLine(2, 2, 5, '-', ColorLighter)

	for x := 2; x < 7; x++ {
		if c := s.GetCell(x, 2); c.Rune != '-' || c.Fg != ColorLighter {
			t.Errorf("DrawHLine: cell (%d, 2) = %+v", x, c)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got, expected := s.String(), "AAAAA\nBBBBB\nCCCCC"; got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextStyled(0, 0, "Hello", ColorWhite, ColorDefault)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("after resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content should be preserved, row 0 = %q", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") || s.GetCell(0, 0).Fg != ColorWhite {
		t.Errorf("content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
	if s.Row(-1) != strings.Repeat(" ", 15) {
		t.Error("out of bounds row should be spaces")
	}
}

func TestActionCombatIndex(t *testing.T) {
	for i, a := range CombatActions {
		got, ok := a.CombatIndex()
		if !ok || got != i {
			t.Errorf("%s.CombatIndex() = %d, %v, expected %d, true", a, got, ok, i)
		}
	}
	if _, ok := ActionConfirm.CombatIndex(); ok {
		t.Error("Confirm is not a combat action")
	}
}

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionConfirm) || !f.Empty() {
		t.Error("zero frame should be empty")
	}

	f.Set(ActionConfirm)
	c := f.Clone()
	f.Clear()

	if f.Has(ActionConfirm) {
		t.Error("Clear() should reset actions")
	}
	if !c.Has(ActionConfirm) {
		t.Error("Clone() should be independent")
	}
}
