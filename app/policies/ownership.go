// Package policies decides whether an acting user may touch a record.
package policies

import "errors"

// ErrForbidden is returned when the actor does not own the record.
var ErrForbidden = errors.New("this action is unauthorized")

// Authorize allows the action only when actorID owns the record. The
// anonymous actor (0) is always denied.
func Authorize(actorID, ownerID uint) error {
	if actorID == 0 || actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
