package model

import "math"

// IntHalfMax bounds the magnitude any objective, expression, or penalty
// accumulator is allowed to reach. Arithmetic saturates at this bound
// instead of wrapping, trading precision at an extreme no real model
// approaches for the guarantee that int64 overflow never corrupts a score.
const IntHalfMax = math.MaxInt64 / 2

// SaturatingAdd returns a+b clamped to [-IntHalfMax, IntHalfMax]. ok is
// false when the clamp actually changed the result, letting a caller log a
// NumericOverflow warning without the clamp itself being fatal.
func SaturatingAdd(a, b int64) (sum int64, ok bool) {
	sum = a + b
	// Overflow of int64 addition flips the sign relative to both operands
	// agreeing; detect that before trusting the wrapped sum.
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return IntHalfMax, false
		}
		return -IntHalfMax, false
	}
	if sum > IntHalfMax {
		return IntHalfMax, false
	}
	if sum < -IntHalfMax {
		return -IntHalfMax, false
	}
	return sum, true
}
