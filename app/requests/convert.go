// Package requests declares the shape of each form the back office accepts
// and converts a validated form into service input.
package requests

import (
	"strconv"
	"strings"
	"time"

	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/validate"
)

// text returns nil for an absent or blank value.
func text(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func float(s *string) *float64 {
	if t := text(s); t != nil {
		if f, err := strconv.ParseFloat(*t, 64); err == nil {
			return &f
		}
	}
	return nil
}

func integer(s *string) *int {
	if t := text(s); t != nil {
		if n, err := strconv.Atoi(*t); err == nil {
			return &n
		}
	}
	return nil
}

func id(s string) uint {
	n, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return uint(n)
}

func date(s *string) *time.Time {
	if t := text(s); t != nil {
		if d, err := validate.ParseDate(*t); err == nil {
			d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func typed[T ~string](s *string) *T {
	if t := text(s); t != nil {
		v := T(*t)
		return &v
	}
	return nil
}

// patchOf maps an optional form value onto a Patch: absent leaves the column
// alone, blank clears it.
func patchOf[T any](s *string, conv func(*string) *T) services.Patch[T] {
	if s == nil {
		return services.Patch[T]{}
	}
	if v := conv(s); v != nil {
		return services.Value(*v)
	}
	return services.Null[T]()
}
