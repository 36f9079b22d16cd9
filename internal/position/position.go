// Package position implements the real-valued sort key used to order tasks
// relative to their neighbors without renumbering the whole list.
package position

import "math"

// Position is a task's sort key relative to its neighbors.
type Position float64

// FromInt creates a Position from an integer index.
func FromInt(i int) Position { return Position(i) }

// Between returns a Position lying strictly between first and second, and
// true if one could be found. Either neighbor may be absent: with only a
// lower neighbor the result lies between it and a value 2.0 above it; with
// only an upper neighbor, between a value 2.0 below it and it; with
// neither, the result is 0.0. The chosen value favors an integer result,
// then the fewest post-decimal digits, over strict equidistance. False is
// returned when first and second are both present and equal, or when no
// value strictly between the two bounds can be found.
func Between(first, second *Position) (Position, bool) {
	switch {
	case first != nil && second != nil:
		v, ok := between(float64(*first), float64(*second))
		return Position(v), ok
	case first != nil && second == nil:
		v, ok := between(float64(*first), float64(*first)+2.0)
		return Position(v), ok
	case first == nil && second != nil:
		v, ok := between(float64(*second)-2.0, float64(*second))
		return Position(v), ok
	default:
		return Position(0.0), true
	}
}

// Get returns the position's floating point value.
func (p Position) Get() float64 { return float64(p) }

// ensureHasIntegerPart scales value by a power of ten so it has a non-zero
// integer part, returning the scaled value and the exponent applied.
// Callers must not invoke this with a value of exactly zero.
func ensureHasIntegerPart(value float64) (float64, int) {
	exponent := -int(math.Min(math.Floor(math.Log10(value)), 0))
	return value * math.Pow(10, float64(exponent)), exponent
}

// between finds a value lying strictly between first and second, chosen to
// be close to equidistant while favoring the fewest post-decimal digits.
func between(first, second float64) (float64, bool) {
	if first == second {
		return 0, false
	}
	if first > second {
		first, second = second, first
	}

	v, ok := approximateBetween(first, second)
	if !ok {
		return 0, false
	}
	if first < v && v < second {
		return v, true
	}
	return 0, false
}

func approximateBetween(first, second float64) (float64, bool) {
	var exponent int
	if second == 0 || second > 1 {
		exponent = 0
	} else {
		scaled, exp := ensureHasIntegerPart(second)
		first = first * math.Pow(10, float64(exp))
		second = scaled
		exponent = exp
	}

	floor := math.Floor(second)
	var value float64
	if first < floor && floor < second {
		value = floor
	} else {
		for {
			candidate := math.Floor((second + first) / 2)
			if first < candidate && candidate < second {
				value = candidate
				break
			}

			newFirst := first * 10
			newSecond := second * 10
			if newFirst == first && newSecond == second {
				return 0, false
			}

			exponent++
			first = newFirst
			second = newSecond

			if math.IsInf(second, 1) {
				return 0, false
			}
		}
	}

	if exponent != 0 {
		value = value / math.Pow(10, float64(exponent))
	}
	return value, true
}
