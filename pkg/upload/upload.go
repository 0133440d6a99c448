// Package upload checks uploaded images before they reach the blob store.
//
// The mime type is sniffed from the first 512 bytes of content; the client's
// Content-Type header and file extension are ignored.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Size limits in kilobytes.
const (
	PropertyImageMaxKB = 5120
	ImageMaxKB         = 2048
)

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// File is one uploaded image.
type File struct {
	Name        string
	Size        int64
	ContentType string // sniffed, filled by Check

	open func() (io.ReadCloser, error)
}

// FromHeader wraps a multipart file header.
func FromHeader(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Size: fh.Size,
		open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes wraps in-memory content, used by seeders and tests.
func FromBytes(name string, b []byte) File {
	return File{
		Name: name,
		Size: int64(len(b)),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil },
	}
}

// Open returns a fresh reader over the file content.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errors.New("upload: file has no content")
	}
	return f.open()
}

// Ext returns the extension matching the sniffed content type.
func (f File) Ext() string {
	return allowed[f.ContentType]
}

// Check sniffs the content type and enforces the jpeg/png/gif whitelist and
// the size limit. The returned message is suitable for a field error.
func (f *File) Check(maxKB int64) (string, error) {
	if f.Size > maxKB*1024 {
		return fmt.Sprintf("must not be greater than %d kilobytes.", maxKB), nil
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("upload: read %s: %w", f.Name, err)
	}

	f.ContentType = http.DetectContentType(head[:n])
	if _, ok := allowed[f.ContentType]; !ok {
		return "must be a file of type: jpeg, png, jpg, gif.", nil
	}
	return "", nil
}

// CheckAll validates every file and returns field errors keyed as
// "field" for a single file or "field.N" for the Nth file of a list.
func CheckAll(field string, files []File, maxKB int64, multiple bool) (map[string]string, error) {
	errs := map[string]string{}
	for i := range files {
		msg, err := files[i].Check(maxKB)
		if err != nil {
			return nil, err
		}
		if msg == "" {
			continue
		}
		key, label := field, field
		if multiple {
			key = fmt.Sprintf("%s.%d", field, i)
			label = key
		}
		errs[key] = fmt.Sprintf("The %s %s", label, msg)
	}
	return errs, nil
}
