package resources

import "time"

// day formats a date column as YYYY-MM-DD, or nil.
func day(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}
