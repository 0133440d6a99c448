// Package collection provides generic, functional-style helpers for slices,
// after Laravel's Collection API.
//
//	ids := collection.Pluck(images, func(i models.PropertyImage) uint { return i.ID })
//	added := collection.Diff(want, current)
package collection

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Pluck extracts a single field from every element.
func Pluck[T, R any](s []T, fn func(T) R) []R {
	return Map(s, fn)
}

// Unique returns s with duplicate elements removed, keeping first occurrences.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	var out []T
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Diff returns the unique elements of a that are not in b.
func Diff[T comparable](a, b []T) []T {
	drop := make(map[T]struct{}, len(b))
	for _, v := range b {
		drop[v] = struct{}{}
	}
	return Filter(Unique(a), func(v T) bool {
		_, ok := drop[v]
		return !ok
	})
}

