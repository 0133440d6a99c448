// Package services orchestrates the entity and media lifecycle of the back
// office: ownership checks, transactions over the repositories, and blob
// writes with compensation.
//
// The acting user is always passed explicitly as the first argument after
// ctx.
package services

// Patch is one optional column of a partial update. Set reports whether the
// client sent the field; a nil Value clears a nullable column.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Value returns a Patch setting v.
func Value[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// Null returns a Patch clearing the column.
func Null[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p Patch[T]) apply(dst **T) {
	if p.Set {
		*dst = p.Value
	}
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
