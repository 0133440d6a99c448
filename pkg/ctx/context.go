// Package ctx provides a request context for back office handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding, content
// negotiation and flash redirects:
//
//	func (pc *PropertyController) Destroy(c *ctx.Context) {
//	    if err := pc.svc.Delete(c.Context(), c.UserID(), c.ParamUint("property")); err != nil {
//	        renderError(c, err)
//	        return
//	    }
//	    c.Respond(http.StatusOK, resource.Map{"message": "Property deleted"}, "/properties", "Property deleted")
//	}
//
//	// Register with ctx.Wrap:
//	r.Delete("/properties/{property}", "properties.destroy", ctx.Wrap(pc.Destroy))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/staydesk/staydesk/pkg/bind"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/middleware"
	"github.com/staydesk/staydesk/pkg/session"
	"github.com/staydesk/staydesk/pkg/upload"
	"github.com/staydesk/staydesk/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a rich helper API.
type Context struct {
	W     http.ResponseWriter
	R     *http.Request
	mu    sync.RWMutex
	store map[string]any
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/properties/{property}" → c.Param("property")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint returns a numeric path parameter, or 0 when it is not a
// positive integer. Id 0 never matches a record.
func (c *Context) ParamUint(key string) uint {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt returns a query-string integer, or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryUints returns every positive integer given for key, accepting both
// "categories=1&categories=2" and "categories[]=1".
func (c *Context) QueryUints(key string) []uint {
	var out []uint
	for k, vals := range c.R.URL.Query() {
		if bind.BaseKey(k) != key {
			continue
		}
		for _, v := range vals {
			if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
				out = append(out, uint(n))
			}
		}
	}
	return out
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// IsXHR reports whether the request was made via XMLHttpRequest.
func (c *Context) IsXHR() bool {
	return strings.EqualFold(c.R.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// WantsJSON reports whether the client expects a JSON acknowledgment rather
// than a redirect.
func (c *Context) WantsJSON() bool {
	return c.IsXHR() || strings.Contains(c.R.Header.Get("Accept"), "application/json")
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the authenticated user, or 0 for an anonymous request.
func (c *Context) UserID() uint {
	id, _ := middleware.UserIDFromCtx(c.R)
	return id
}

// Session returns the request session loaded by session.Middleware.
func (c *Context) Session() *session.Session {
	return session.FromCtx(c.R)
}

// Files returns the uploaded files under key ("images" also matches
// "images[]" and "images[0]"). Call after the body has been bound.
func (c *Context) Files(key string) []upload.File {
	if c.R.MultipartForm == nil {
		return nil
	}
	var out []upload.File
	for k, headers := range c.R.MultipartForm.File {
		if bind.BaseKey(k) != key {
			continue
		}
		for _, fh := range headers {
			out = append(out, upload.FromHeader(fh))
		}
	}
	return out
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On validation failure it automatically sends a 422 response and returns false.
// On JSON decode error it sends a 400 and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ShouldBind decodes a JSON, multipart or urlencoded body into dest by `form`
// tag and validates it. It does NOT write a response.
func (c *Context) ShouldBind(dest any) (map[string]string, error) {
	return bind.Form(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.JSON(code, envelope{Status: code, Message: message})
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	msg := "Unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusUnauthorized, msg)
}

// Forbidden sends a 403.
func (c *Context) Forbidden(message ...string) {
	msg := "This action is unauthorized."
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusForbidden, msg)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// Redirect sends an HTTP redirect response.
func (c *Context) Redirect(code int, url string) {
	http.Redirect(c.W, c.R, url, code)
}

// ─── Pages and flash redirects ───────────────────────────────────────────────

// Page is the JSON payload returned for GET screens.
type Page struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
	Flash     map[string]any `json:"flash,omitempty"`
	Errors    any            `json:"errors,omitempty"`
}

// Page renders a screen payload with the flash messages pending in the
// session. Reading them consumes them.
func (c *Context) Page(component string, props map[string]any) {
	sess := c.Session()
	flash := sess.Flashes()

	page := Page{Component: component, Props: props}
	if errs, ok := flash["errors"]; ok {
		page.Errors = errs
		delete(flash, "errors")
	}
	if len(flash) > 0 {
		page.Flash = flash
	}
	if page.Props == nil {
		page.Props = map[string]any{}
	}

	c.saveSession()
	c.JSON(http.StatusOK, page)
}

// RedirectWithFlash stores a flash message and answers 303 See Other.
func (c *Context) RedirectWithFlash(to, key string, message any) {
	c.Session().Flash(key, message)
	c.saveSession()
	c.Redirect(http.StatusSeeOther, to)
}

// Back returns the Referer when it points at this host, otherwise fallback.
func (c *Context) Back(fallback string) string {
	ref := c.R.Header.Get("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.R.Host) {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// Respond acknowledges a mutation: JSON clients get data with status code,
// browsers are redirected to "to" with a success flash.
func (c *Context) Respond(code int, data any, to, message string) {
	if c.WantsJSON() {
		c.JSON(code, data)
		return
	}
	c.RedirectWithFlash(to, "success", message)
}

// RespondValidation reports field errors as 422 JSON, or redirects back with
// the errors flashed.
func (c *Context) RespondValidation(errs map[string]string, fallback string) {
	if c.WantsJSON() {
		c.ValidationError(errs)
		return
	}
	c.RedirectWithFlash(c.Back(fallback), "errors", errs)
}

func (c *Context) saveSession() {
	if err := c.Session().Save(c.Context(), c.W); err != nil {
		logger.WithCtx(c.Context()).Warn("session save failed", "error", err)
	}
}

// URLWithQuery appends query parameters to path, e.g.
// URLWithQuery("/restaurants", "property_id", 3) → "/restaurants?property_id=3".
func URLWithQuery(path, key string, value any) string {
	return path + "?" + url.Values{key: []string{fmt.Sprint(value)}}.Encode()
}

// ─── JSON envelope (mirrors pkg/response) ────────────────────────────────────

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}
