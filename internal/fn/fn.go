// Package fn holds small generic helpers shared by the tlstr commands.
package fn

// T is short for ternary
func T[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

// FirstNonZero returns the first value that is not the zero value, or the
// zero value when all of them are.
func FirstNonZero[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
