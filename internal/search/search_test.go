package search

import "testing"

func TestModResults(t *testing.T) {
	cases := []struct{ x, y, want int }{
		{-4, 3, 2}, {-3, 3, 0}, {-2, 3, 1}, {-1, 3, 2},
		{0, 3, 0}, {1, 3, 1}, {2, 3, 2}, {3, 3, 0}, {4, 3, 1}, {5, 3, 2},
	}
	for _, c := range cases {
		if got := Mod(c.x, c.y); got != c.want {
			t.Errorf("Mod(%d, %d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestIterationStateImmediateAdvancement(t *testing.T) {
	s := New(42)
	items := []int{42, 43, 44}

	for i := 0; i < 4; i++ {
		s.Advance()
	}

	if got := Normalize(s, items); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if !s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be true")
	}
}

func TestIterationStateStaysCycled(t *testing.T) {
	s := New(7)
	items := []int{8, 7, 6}

	for i := 0; i < 4; i++ {
		s.Advance()
	}

	for i := 1; i < 200; i++ {
		Normalize(s, items)
		if !s.HasCycled(len(items)) {
			t.Errorf("iteration %d: expected HasCycled to stay true", i)
		}
	}
}

func TestIterationStateResetCycled(t *testing.T) {
	s := New(4)
	items := []int{3, 9, 4}

	for i := 0; i < 4; i++ {
		s.Advance()
	}
	if got := Normalize(s, items); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if !s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be true")
	}

	s.Advance()
	if got := Normalize(s, items); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	s.ResetCycled()

	s.Advance()
	if got := Normalize(s, items); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be false after reset")
	}

	s.Advance()
	if got := Normalize(s, items); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be false")
	}

	s.Advance()
	if got := Normalize(s, items); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be false")
	}

	s.Advance()
	if got := Normalize(s, items); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if !s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be true")
	}
}

func TestReverseIteration(t *testing.T) {
	s := New(1)
	items := []int{2, 1, 3}

	s.Reverse(true)
	if s.HasCycled(len(items)) {
		t.Errorf("expected HasCycled to be false before any advance")
	}
	if s.HasAdvanced() {
		t.Errorf("expected HasAdvanced to be false before any advance")
	}

	s.Advance()
	if !s.HasAdvanced() {
		t.Errorf("expected HasAdvanced to be true")
	}
	if got := Normalize(s, items); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if s.HasCycled(len(items)) || s.HasAdvanced() {
		t.Errorf("unexpected cycled/advanced state after normalize")
	}

	s.Advance()
	if got := Normalize(s, items); got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	s.Advance()
	if got := Normalize(s, items); got != 1 {
		t.Errorf("got %d, want 1", got)
	}

	s.Reverse(false)
	if s.HasAdvanced() {
		t.Errorf("expected HasAdvanced to be false right after Reverse")
	}
	if got := Normalize(s, items); got != 1 {
		t.Errorf("got %d, want 1", got)
	}

	s.Advance()
	if got := Normalize(s, items); got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	s.Advance()
	if got := Normalize(s, items); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
