// Package repositories is the relational store of the back office. Every
// method resolves its handle with database.Conn, so calls made inside a
// Transactor scope join that transaction.
package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// wrap maps gorm.ErrRecordNotFound to ErrNotFound and prefixes other errors
// with the operation name.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("repositories: %s: %w", op, err)
}
