package mobius

import "math"

// IsFinite reports whether both parts of z are finite.
func IsFinite(z complex128) bool {
	re, im := real(z), imag(z)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}

// Div returns num/den. ok is false when den is zero or the quotient
// overflows, in which case the returned value must not be used.
func Div(num, den complex128) (w complex128, ok bool) {
	if den == 0 || !IsFinite(den) || !IsFinite(num) {
		return 0, false
	}
	w = num / den
	if !IsFinite(w) {
		return 0, false
	}
	return w, true
}

// Inv returns 1/z under the same rules as Div.
func Inv(z complex128) (complex128, bool) {
	return Div(1, z)
}
