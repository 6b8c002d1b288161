// Package cmp compares slices and maps.
package cmp

// SliceEq is true when a and b have the same elements in the same order.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, func(x, y T) bool { return x == y })
}

func SliceEqWith[T any, U any](a []T, b []U, pred func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pred(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SliceContentEq is true when a and b have the same elements, in any order.
//
// Duplicated elements are counted.
func SliceContentEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	count := map[T]int{}
	for _, x := range a {
		count[x] += 1
	}
	for _, y := range b {
		count[y] -= 1
		if count[y] < 0 {
			return false
		}
	}
	return true
}

// MapEq is true when a and b have the same keys and values.
func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapEqWith(a, b, func(x, y V) bool { return x == y })
}

func MapEqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred func(V, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}
