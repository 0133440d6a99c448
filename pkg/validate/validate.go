// Package validate provides Laravel-inspired struct-tag validation for
// request shapes.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must be present and not blank
//	nullable            if empty, skip all remaining rules for this field
//	sometimes           if the field is absent (nil pointer), skip it entirely
//	email               valid email address
//	url                 valid URL (http/https)
//	boolean             "true","false","1","0" (or actual bool)
//	date                parseable date (many common layouts tried)
//	numeric             any number
//	integer             whole number
//	min=N               number: min value | string: min char length | slice: min items
//	max=N               number: max value | string: max char length | slice: max items
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	after_or_equal=f    date must not be before the sibling field f
//
// A string field carrying `numeric` or `integer` is sized by its numeric value,
// as Laravel does. Pointer fields are dereferenced; a nil pointer is empty.
//
// Example:
//
//	type UpdateInput struct {
//	    Name       *string `form:"name"        validate:"sometimes,required,max=255"`
//	    StarRating *string `form:"star_rating" validate:"sometimes,nullable,integer,min=1,max=5"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := fieldName(field)
		rules := splitRules(tag)
		value := rv.Field(i)

		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				if hasRule(rules, "sometimes") {
					continue
				}
			} else {
				value = value.Elem()
			}
		}

		empty := isEmpty(value)
		if empty && !hasRule(rules, "required") {
			continue
		}

		numeric := hasRule(rules, "numeric") || hasRule(rules, "integer")
		for _, rule := range rules {
			if rule == "nullable" || rule == "sometimes" {
				continue
			}
			if msg := applyRule(rule, name, value, rv, numeric); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value, parent reflect.Value, numeric bool) string {
	raw := ""
	if v.IsValid() && v.Kind() != reflect.Ptr {
		raw = strings.TrimSpace(fmt.Sprintf("%v", v.Interface()))
	}
	key, param, _ := strings.Cut(rule, "=")
	label := strings.ReplaceAll(field, "_", " ")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", label)
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", label)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", label)
		}
	case "boolean":
		lower := strings.ToLower(raw)
		if v.Kind() != reflect.Bool && lower != "true" && lower != "false" && lower != "1" && lower != "0" {
			return fmt.Sprintf("The %s field must be true or false.", label)
		}
	case "date":
		if _, err := parseDate(raw); err != nil {
			return fmt.Sprintf("The %s is not a valid date.", label)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", label)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", label)
		}

	case "min":
		n := mustParseFloat(param)
		switch size, unit := measure(v, raw, numeric); {
		case unit == "" && size < n:
			return fmt.Sprintf("The %s must be at least %s.", label, param)
		case unit != "" && size < n:
			return fmt.Sprintf("The %s must be at least %s %s.", label, param, unit)
		}
	case "max":
		n := mustParseFloat(param)
		switch size, unit := measure(v, raw, numeric); {
		case unit == "" && size > n:
			return fmt.Sprintf("The %s must not be greater than %s.", label, param)
		case unit != "" && size > n:
			return fmt.Sprintf("The %s must not be greater than %s %s.", label, param, unit)
		}
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if ok {
			size, unit := measure(v, raw, numeric)
			if size < mustParseFloat(lo) || size > mustParseFloat(hi) {
				if unit != "" {
					return fmt.Sprintf("The %s must be between %s and %s %s.", label, lo, hi, unit)
				}
				return fmt.Sprintf("The %s must be between %s and %s.", label, lo, hi)
			}
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", label)

	case "after_or_equal":
		other := siblingString(parent, param)
		if other == "" {
			return ""
		}
		t1, err1 := parseDate(raw)
		t2, err2 := parseDate(other)
		if err1 != nil || err2 != nil || t1.Before(t2) {
			return fmt.Sprintf("The %s must be a date after or equal to %s.", label, strings.ReplaceAll(param, "_", " "))
		}
	}

	return ""
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var dateLayouts = []string{
	"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04",
	"02/01/2006", "01/02/2006", "January 2, 2006", "Jan 2, 2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", s)
}

// ParseDate parses s with the layouts accepted by the `date` rule.
func ParseDate(s string) (time.Time, error) {
	return parseDate(strings.TrimSpace(s))
}

// measure returns the value compared by min, max and between, plus the unit
// named in the message ("" for plain numbers).
func measure(v reflect.Value, raw string, numeric bool) (float64, string) {
	switch {
	case isNumericKind(v):
		return toFloat(v), ""
	case v.Kind() == reflect.Slice || v.Kind() == reflect.Array:
		return float64(v.Len()), "items"
	case numeric:
		f, _ := strconv.ParseFloat(raw, 64)
		return f, ""
	default:
		return float64(len([]rune(raw))), "characters"
	}
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// fieldName prefers the `form` tag, then `json`, then the lower-cased name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func siblingString(parent reflect.Value, name string) string {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if fieldName(rt.Field(i)) != name {
			continue
		}
		v := parent.Field(i)
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return ""
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.String {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

// splitRules splits the validate tag by comma while keeping multi-value
// rule parameters (in=, between=) intact.
// e.g. "required,in=budget,mid-range,luxury,max=100" → ["required","in=budget,mid-range,luxury","max=100"]
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam {
				s := current.String()
				inParam = s == "in=" || s == "between="
			}
			continue
		}
		if inParam && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, strings.TrimSpace(current.String()))
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		rules = append(rules, strings.TrimSpace(current.String()))
	}
	return rules
}

var knownRules = []string{
	"required", "nullable", "sometimes", "email", "url", "boolean", "date",
	"numeric", "integer", "min=", "max=", "between=", "in=", "after_or_equal=",
}

// looksLikeNewRule reports whether s starts with a rule keyword, meaning the
// comma before it ends a multi-value parameter.
func looksLikeNewRule(s string) bool {
	for _, k := range knownRules {
		if !strings.HasPrefix(s, k) {
			continue
		}
		rest := s[len(k):]
		if strings.HasSuffix(k, "=") || rest == "" || rest[0] == ',' {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
