// Package session provides cookie-identified sessions stored through
// pkg/cache (Redis). The back office uses them for flash messages carried
// across a redirect.
//
//	sess := session.FromCtx(r)
//	sess.Flash("success", "Guest added successfully")
//	sess.Save(r.Context(), w)
//
// The next request reads the message once with sess.Flashes().
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/staydesk/staydesk/pkg/cache"
)

const flashPrefix = "_flash_"

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns the cookie settings used by the HTTP kernel.
func DefaultOptions() Options {
	return Options{
		CookieName: "staydesk_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	changed bool
}

func newID() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func cacheKey(id string) string { return "staydesk:session:" + id }

func load(ctx context.Context, id string) map[string]interface{} {
	var data map[string]interface{}
	if cache.Get(ctx, cacheKey(id), &data) && data != nil {
		return data
	}
	return map[string]interface{}{}
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Flash stores a value that is removed the first time it is read.
func (s *Session) Flash(key string, value interface{}) {
	s.Set(flashPrefix+key, value)
}

// Flashes pulls every pending flash value, keyed without the internal
// prefix. Returns nil when there are none.
func (s *Session) Flashes() map[string]interface{} {
	var out map[string]interface{}
	for k, v := range s.data {
		if name, ok := strings.CutPrefix(k, flashPrefix); ok {
			if out == nil {
				out = map[string]interface{}{}
			}
			out[name] = v
			s.Delete(k)
		}
	}
	return out
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Save persists the session and writes the cookie to the response. It is a
// no-op when nothing changed.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if err := cache.Set(ctx, cacheKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				sess.data = load(r.Context(), sess.id)
			} else {
				sess.id = newID()
				sess.data = map[string]interface{}{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return &Session{id: newID(), data: map[string]interface{}{}, opts: DefaultOptions()}
}
