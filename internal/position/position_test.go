package position

import "testing"

func TestIntegerPartEnsurance(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.000000001, 1.0},
		{0.1, 1.0},
		{1.0, 1.0},
		{1.2, 1.2},
		{1.8, 1.8},
		{5.0, 5.0},
		{9.9, 9.9},
		{10.0, 10.0},
		{15.0, 15.0},
		{227.0, 227.0},
	}
	for _, c := range cases {
		got, _ := ensureHasIntegerPart(c.in)
		// the scaled value must round to the expected integer-leading form
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ensureHasIntegerPart(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestApproximationBetween(t *testing.T) {
	cases := []struct {
		first, second, want float64
		ok                  bool
	}{
		{-1.0, 0.0, -0.5, true},
		{0.001, 0.01, 0.005, true},
		{0.0, 10.0, 5.0, true},
		{10.0, 0.0, 5.0, true},
		{0.9999, 1.1, 1.0, true},
		{1.0, 3.0, 2.0, true},
		{1.0, 1.00002, 1.00001, true},
		{1.5, 2.5, 2.0, true},
		{1.1, 2.9, 2.0, true},
		{1.1, 2.8, 2.0, true},
		{1.0, 10.0, 5.0, true},
		{2.0, 10.0, 6.0, true},
		{3.0, 10.0, 6.0, true},
		{200.0, 200.3, 200.1, true},
		{200.0, 201.0, 200.5, true},
		{200.0, 202.0, 201.0, true},
		{0.0, 0.0, 0, false},
		{1.0, 1.0, 0, false},
		{200.0, 200.0, 0, false},
	}
	for _, c := range cases {
		got, ok := between(c.first, c.second)
		if ok != c.ok {
			t.Errorf("between(%v, %v) ok = %v, want %v", c.first, c.second, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("between(%v, %v) = %v, want %v", c.first, c.second, got, c.want)
		}
	}
}

func TestPositionCreation(t *testing.T) {
	first := FromInt(1)
	second := FromInt(2)

	got, ok := Between(&first, &second)
	if !ok || got.Get() != 1.5 {
		t.Errorf("Between(1, 2) = (%v, %v), want (1.5, true)", got, ok)
	}

	got, ok = Between(nil, &second)
	if !ok || got.Get() != 1.0 {
		t.Errorf("Between(nil, 2) = (%v, %v), want (1.0, true)", got, ok)
	}

	got, ok = Between(&first, nil)
	if !ok || got.Get() != 2.0 {
		t.Errorf("Between(1, nil) = (%v, %v), want (2.0, true)", got, ok)
	}

	got, ok = Between(nil, nil)
	if !ok || got.Get() != 0.0 {
		t.Errorf("Between(nil, nil) = (%v, %v), want (0.0, true)", got, ok)
	}
}
