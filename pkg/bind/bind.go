// Package bind decodes and validates an HTTP request body into a struct.
//
// JSON, multipart and urlencoded bodies are normalised to url.Values and
// copied into fields by their `form` tag, so one request struct serves both
// the browser form and the JSON client:
//
//	type StoreGuest struct {
//	    PropertyID string  `form:"property_id" validate:"required,integer"`
//	    GuestName  string  `form:"guest_name"  validate:"required,max=255"`
//	    RoomNumber *string `form:"room_number" validate:"nullable,max=255"`
//	}
//
// A nil pointer field means the key was absent from the request.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/validate"
)

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		return nil, bodyError(err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Form collects the request values (query string excluded for bodies), fills
// dest by `form` tag and runs validation. Values that cannot be converted to
// the field type are reported as validation errors.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	values, err := Values(r)
	if err != nil {
		return nil, err
	}

	errs = Fill(values, dest)
	for k, v := range validate.Struct(dest) {
		if _, seen := errs[k]; !seen {
			errs[k] = v
		}
	}
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Values normalises the request body to url.Values. Keys written as
// "images[]" or "categories[0]" are reduced to their base name.
func Values(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	limit := config.MaxBodyBytes()

	var raw url.Values
	switch {
	case ct == "application/json":
		r.Body = http.MaxBytesReader(nil, r.Body, limit)
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, bodyError(err)
		}
		raw = flattenJSON(body)

	case ct == "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, limit)
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, bodyError(err)
		}
		raw = r.MultipartForm.Value

	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		raw = r.URL.Query()

	default:
		r.Body = http.MaxBytesReader(nil, r.Body, limit)
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		raw = r.PostForm
	}

	out := url.Values{}
	for key, vals := range raw {
		base := BaseKey(key)
		out[base] = append(out[base], vals...)
	}
	return out, nil
}

// BaseKey strips a trailing "[]" or "[n]" from a form key.
func BaseKey(key string) string {
	if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
		return key[:i]
	}
	return key
}

// Fill copies values into the tagged fields of dest (a struct pointer).
// Supported field kinds: string, *string, bool, *bool, int/uint kinds,
// float kinds, and slices of string or uint.
func Fill(values url.Values, dest interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errs
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}
		vals, present := values[name]
		if !present {
			continue
		}
		if err := setField(rv.Field(i), vals); err != nil {
			errs[name] = fmt.Sprintf("The %s field is invalid.", strings.ReplaceAll(name, "_", " "))
		}
	}
	return errs
}

func setField(f reflect.Value, vals []string) error {
	first := ""
	if len(vals) > 0 {
		first = strings.TrimSpace(vals[0])
	}

	switch f.Kind() {
	case reflect.Ptr:
		elem := reflect.New(f.Type().Elem())
		if err := setField(elem.Elem(), vals); err != nil {
			return err
		}
		f.Set(elem)
		return nil

	case reflect.Slice:
		out := reflect.MakeSlice(f.Type(), 0, len(vals))
		for _, v := range vals {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			item := reflect.New(f.Type().Elem()).Elem()
			if err := setScalar(item, v); err != nil {
				return err
			}
			out = reflect.Append(out, item)
		}
		f.Set(out)
		return nil
	}

	return setScalar(f, first)
}

func setScalar(f reflect.Value, v string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(v)
	case reflect.Bool:
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v == "" {
			return nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if v == "" {
			return nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		f.SetFloat(n)
	default:
		return fmt.Errorf("bind: unsupported kind %s", f.Kind())
	}
	return nil
}

// flattenJSON turns a decoded JSON object into form values. Arrays become
// repeated values; null becomes an empty value so nullable fields can be
// cleared.
func flattenJSON(body map[string]interface{}) url.Values {
	out := url.Values{}
	for key, v := range body {
		switch t := v.(type) {
		case []interface{}:
			out[key] = []string{}
			for _, item := range t {
				out[key] = append(out[key], scalarString(item))
			}
		default:
			out.Set(key, scalarString(t))
		}
	}
	return out
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	}
	return fmt.Errorf("invalid request body: %w", err)
}
