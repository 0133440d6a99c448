package controllers

import (
	"fmt"
	"net/http"

	"github.com/staydesk/staydesk/app/requests"
	"github.com/staydesk/staydesk/app/resources"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/resource"
)

type PropertyController struct {
	svc     *services.PropertyService
	present *resources.Presenter
}

func NewPropertyController(svc *services.PropertyService, present *resources.Presenter) *PropertyController {
	return &PropertyController{svc: svc, present: present}
}

func propertyPath(id uint) string { return fmt.Sprintf("/properties/%d", id) }

// Index lists the actor's properties.
func (pc *PropertyController) Index(c *ctx.Context) {
	props, err := pc.svc.List(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/properties")
		return
	}
	c.Page("Properties/Index", resource.Map{
		"properties": resource.Collection(pc.present.Property, props),
	})
}

func (pc *PropertyController) Create(c *ctx.Context) {
	c.Page("Properties/Create", nil)
}

// Store creates a property with the images sent as images[].
func (pc *PropertyController) Store(c *ctx.Context) {
	var req requests.StoreProperty
	files, ok := bindForm(c, &req, "/properties/create", imageList("images"))
	if !ok {
		return
	}

	p, err := pc.svc.Create(c.Context(), c.UserID(), req.Input(), files)
	if err != nil {
		renderError(c, err, "/properties/create")
		return
	}
	c.Respond(http.StatusCreated, resource.Map{
		"message":  "Hotel created successfully",
		"property": pc.present.Property(p),
	}, "/properties", "Hotel created successfully")
}

func (pc *PropertyController) Show(c *ctx.Context) {
	p, err := pc.svc.Show(c.Context(), c.UserID(), c.ParamUint("property"))
	if err != nil {
		renderError(c, err, "/properties")
		return
	}
	c.Page("Properties/Show", resource.Map{"property": pc.present.Property(p)})
}

// Update changes only the fields present in the request.
func (pc *PropertyController) Update(c *ctx.Context) {
	id := c.ParamUint("property")
	var req requests.UpdateProperty
	if _, ok := bindForm(c, &req, propertyPath(id)); !ok {
		return
	}

	p, err := pc.svc.Update(c.Context(), c.UserID(), id, req.Patch())
	if err != nil {
		renderError(c, err, propertyPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message":  "Property updated successfully",
		"property": pc.present.Property(p),
	}, c.Back(propertyPath(id)), "Property updated successfully")
}

// UpdateImages deletes images_to_delete[] and uploads new_images[].
func (pc *PropertyController) UpdateImages(c *ctx.Context) {
	id := c.ParamUint("property")
	var req requests.UpdatePropertyImages
	files, ok := bindForm(c, &req, propertyPath(id), imageList("new_images"))
	if !ok {
		return
	}

	diff, err := pc.svc.ReplaceImages(c.Context(), c.UserID(), id, req.ImagesToDelete, files)
	if err != nil && diff.Added+diff.Deleted == 0 {
		renderError(c, err, propertyPath(id))
		return
	}
	if err != nil {
		partialImages(c, err, id, diff)
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"success":        true,
		"message":        diff.Message(),
		"uploaded_count": diff.Added,
		"deleted_count":  diff.Deleted,
	}, c.Back(propertyPath(id)), diff.Message())
}

// partialImages reports a replacement where one half failed after the other
// changed images. The counts go out with the failure.
func partialImages(c *ctx.Context, err error, id uint, diff services.ImageDiff) {
	logger.WithCtx(c.Context()).Error("property images partially replaced",
		"property_id", id, "user_id", c.UserID(),
		"uploaded_count", diff.Added, "deleted_count", diff.Deleted, "error", err)

	if c.WantsJSON() {
		c.JSON(http.StatusInternalServerError, resource.Map{
			"success":        false,
			"status":         http.StatusInternalServerError,
			"message":        "Something went wrong",
			"summary":        diff.Message(),
			"uploaded_count": diff.Added,
			"deleted_count":  diff.Deleted,
		})
		return
	}
	c.Session().Flash("success", diff.Message())
	c.RedirectWithFlash(c.Back(propertyPath(id)), "error", "Something went wrong")
}

// Destroy deletes the property with everything attached to it.
func (pc *PropertyController) Destroy(c *ctx.Context) {
	if err := pc.svc.Delete(c.Context(), c.UserID(), c.ParamUint("property")); err != nil {
		renderError(c, err, "/properties")
		return
	}
	c.Respond(http.StatusOK, resource.Map{"message": "Property deleted successfully"},
		"/properties", "Property deleted successfully")
}

// DestroyImage deletes one property image and always answers JSON.
func (pc *PropertyController) DestroyImage(c *ctx.Context) {
	if err := pc.svc.DeleteImage(c.Context(), c.UserID(), c.ParamUint("id")); err != nil {
		renderError(c, err, "/properties")
		return
	}
	c.JSON(http.StatusOK, resource.Map{"success": true})
}

// UserProperties returns the property picker as JSON.
func (pc *PropertyController) UserProperties(c *ctx.Context) {
	props, err := pc.svc.Options(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/properties")
		return
	}
	c.JSON(http.StatusOK, resource.Collection(pc.present.PropertyOption, props))
}
