package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/session"
)

func serve(h appctx.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	session.Middleware(session.DefaultOptions())(appctx.Wrap(h)).ServeHTTP(rec, req)
	return rec
}

func TestWrapAndJSON(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestSetAndGet(t *testing.T) {
	serve(func(c *appctx.Context) {
		c.Set("property", uint(42))
		v, ok := c.Get("property")
		assert.True(t, ok)
		assert.Equal(t, uint(42), v)
	}, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got []uint
	r.Get("/properties/{property}", appctx.Wrap(func(c *appctx.Context) {
		got = append(got, c.ParamUint("property"))
	}))

	for _, path := range []string{"/properties/7", "/properties/abc", "/properties/-1"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, []uint{7, 0, 0}, got)
}

func TestQueryUintsAcceptsBracketKeys(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/restaurants?categories[]=1&categories[]=x&categories=3&other=9", nil)
	serve(func(c *appctx.Context) {
		assert.ElementsMatch(t, []uint{1, 3}, c.QueryUints("categories"))
		assert.Equal(t, 5, c.QueryInt("page", 5))
	}, req)
}

func TestWantsJSON(t *testing.T) {
	cases := map[string]struct {
		header, value string
		want          bool
	}{
		"accept json": {"Accept", "application/json, text/plain", true},
		"xhr":         {"X-Requested-With", "XMLHttpRequest", true},
		"browser":     {"Accept", "text/html", false},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set(tc.header, tc.value)
			serve(func(c *appctx.Context) {
				assert.Equal(t, tc.want, c.WantsJSON())
			}, req)
		})
	}
}

func TestBackIgnoresForeignReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://staydesk.test/properties/1", nil)
	req.Header.Set("Referer", "http://evil.test/phish")
	serve(func(c *appctx.Context) {
		assert.Equal(t, "/properties", c.Back("/properties"))
	}, req)

	req = httptest.NewRequest(http.MethodPost, "http://staydesk.test/properties/1", nil)
	req.Header.Set("Referer", "http://staydesk.test/restaurants?property_id=2")
	serve(func(c *appctx.Context) {
		assert.Equal(t, "/restaurants?property_id=2", c.Back("/properties"))
	}, req)
}

func TestRespondJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(func(c *appctx.Context) {
		c.Respond(http.StatusCreated, map[string]any{"message": "created"}, "/properties", "created")
	}, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"created"}`, rec.Body.String())
}

func TestRespondRedirectFlashesOnce(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.Respond(http.StatusCreated, nil, "/properties", "Hotel created successfully")
	}, httptest.NewRequest(http.MethodPost, "/properties", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/properties", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	page := func() appctx.Page {
		req := httptest.NewRequest(http.MethodGet, "/properties", nil)
		req.AddCookie(cookies[0])
		rec := serve(func(c *appctx.Context) {
			c.Page("Properties/Index", nil)
		}, req)
		var p appctx.Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		return p
	}

	first := page()
	assert.Equal(t, "Properties/Index", first.Component)
	assert.Equal(t, "Hotel created successfully", first.Flash["success"])
	assert.NotNil(t, first.Props)

	assert.Empty(t, page().Flash)
}

func TestRespondValidation(t *testing.T) {
	errs := map[string]string{"name": "The name field is required."}

	req := httptest.NewRequest(http.MethodPost, "/properties", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(func(c *appctx.Context) {
		c.RespondValidation(errs, "/properties/create")
	}, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The name field is required.")

	rec = serve(func(c *appctx.Context) {
		c.RespondValidation(errs, "/properties/create")
	}, httptest.NewRequest(http.MethodPost, "/properties", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/properties/create", rec.Header().Get("Location"))
}

func TestURLWithQuery(t *testing.T) {
	assert.Equal(t, "/restaurants?property_id=3", appctx.URLWithQuery("/restaurants", "property_id", 3))
}
