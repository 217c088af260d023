// Package util holds small generic helpers shared by the other packages
package util

// Unpack copies the leading elements of from into the given variables and
// returns how many were set. Variables without a matching element keep
// their value, surplus elements are ignored.
func Unpack[T any](from []T, into ...*T) int {
	n := min(len(from), len(into))
	for i := 0; i < n; i++ {
		*into[i] = from[i]
	}
	return n
}
