// Package math provides generic numeric helpers.
package math

import "golang.org/x/exp/constraints"

// Number is any integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Max calculates the maximum of two numbers.
func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min calculates the minimum of two numbers.
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}
