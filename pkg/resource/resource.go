// Package resource provides Laravel-style API Resource transformers.
//
// A transformer controls exactly what JSON shape a model is exposed as:
//
//	func User(u models.User) resource.Map {
//	    return resource.Map{"id": u.ID, "name": u.Name}
//	}
//
//	resource.Collection(User, users)
//	resource.Paginated(User, users, page)
package resource

import "github.com/staydesk/staydesk/pkg/orm"

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model instance into a Map.
type Transformer[T any] func(T) Map

// Collection applies t to every element. The result is never nil, so an
// empty list encodes as [].
func Collection[T any](t Transformer[T], items []T) []Map {
	out := make([]Map, len(items))
	for i, v := range items {
		out[i] = t(v)
	}
	return out
}

// Paginated returns {"data": [...], "pagination": {...}}.
func Paginated[T any](t Transformer[T], items []T, p orm.Pagination) Map {
	return Map{
		"data":       Collection(t, items),
		"pagination": p,
	}
}

// Optional returns t(v) or nil when v is nil.
func Optional[T any](t Transformer[T], v *T) interface{} {
	if v == nil {
		return nil
	}
	return t(*v)
}
