// Package controllers adapts HTTP requests to the services and renders their
// results as page payloads, JSON acknowledgments or flash redirects.
package controllers

import (
	"errors"
	"net/http"

	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/upload"
	"github.com/staydesk/staydesk/pkg/validate"
)

// renderError writes the response for a service error. Validation errors go
// back to the form (fallback when there is no usable Referer).
func renderError(c *ctx.Context, err error, fallback string) {
	var ve *services.ValidationError
	var se *services.StorageError

	switch {
	case errors.As(err, &ve):
		c.RespondValidation(ve.Fields, fallback)
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotFound):
		c.Forbidden()
	case errors.As(err, &se):
		logger.WithCtx(c.Context()).Error("storage operation failed", se.LogAttrs()...)
		c.Error(http.StatusInternalServerError, "Something went wrong")
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.Method(), "path", c.Path(), "user_id", c.UserID(), "error", err)
		c.Error(http.StatusInternalServerError, "Something went wrong")
	}
}

// bindForm decodes and validates the body into dest, then checks the files
// uploaded under field. It writes the response and returns false when the
// request is rejected.
func bindForm(c *ctx.Context, dest any, fallback string, uploads ...fileRule) ([]upload.File, bool) {
	errs, err := c.ShouldBind(dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return nil, false
	}
	if errs == nil {
		errs = map[string]string{}
	}

	var files []upload.File
	for _, rule := range uploads {
		got := c.Files(rule.field)
		if rule.required && len(got) == 0 {
			errs[rule.field] = "The " + rule.field + " field is required."
			continue
		}
		if !rule.multiple && len(got) > 1 {
			got = got[:1]
		}
		fileErrs, err := upload.CheckAll(rule.field, got, rule.maxKB, rule.multiple)
		if err != nil {
			renderError(c, err, fallback)
			return nil, false
		}
		for k, v := range fileErrs {
			errs[k] = v
		}
		files = append(files, got...)
	}

	if validate.HasErrors(errs) {
		c.RespondValidation(errs, fallback)
		return nil, false
	}
	return files, true
}

type fileRule struct {
	field    string
	maxKB    int64
	multiple bool
	required bool
}

func imageList(field string) fileRule {
	return fileRule{field: field, maxKB: upload.PropertyImageMaxKB, multiple: true}
}

func singleImage(field string, required bool) fileRule {
	return fileRule{field: field, maxKB: upload.ImageMaxKB, required: required}
}

// first returns the first file, or nil.
func first(files []upload.File) *upload.File {
	if len(files) == 0 {
		return nil
	}
	return &files[0]
}
