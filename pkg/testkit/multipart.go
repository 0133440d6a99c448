package testkit

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// png is a 1×1 transparent PNG.
var png = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// PNG returns the bytes of a tiny valid PNG image.
func PNG() []byte {
	return append([]byte(nil), png...)
}

// Form builds a multipart/form-data request body.
type Form struct {
	t   *testing.T
	buf bytes.Buffer
	w   *multipart.Writer
}

// NewForm starts an empty multipart form.
func NewForm(t *testing.T) *Form {
	f := &Form{t: t}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// Field adds a plain form value.
func (f *Form) Field(name, value string) *Form {
	f.t.Helper()
	require.NoError(f.t, f.w.WriteField(name, value))
	return f
}

// File adds a file part.
func (f *Form) File(field, filename string, content []byte) *Form {
	f.t.Helper()
	part, err := f.w.CreateFormFile(field, filename)
	require.NoError(f.t, err)
	_, err = part.Write(content)
	require.NoError(f.t, err)
	return f
}

// Request closes the form and returns a request carrying it. The request
// accepts JSON unless the caller overrides the header.
func (f *Form) Request(method, target string) *http.Request {
	f.t.Helper()
	require.NoError(f.t, f.w.Close())

	req := httptest.NewRequest(method, target, bytes.NewReader(f.buf.Bytes()))
	req.Header.Set("Content-Type", f.w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}
