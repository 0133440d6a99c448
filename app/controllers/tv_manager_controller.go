package controllers

import (
	"fmt"
	"net/http"

	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/app/requests"
	"github.com/staydesk/staydesk/app/resources"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/resource"
)

// TvManagerController manages the guest records shown on in-room TVs.
type TvManagerController struct {
	svc     *services.GuestRecordService
	present *resources.Presenter
}

func NewTvManagerController(svc *services.GuestRecordService, present *resources.Presenter) *TvManagerController {
	return &TvManagerController{svc: svc, present: present}
}

func guestsPath(propertyID uint) string {
	return ctx.URLWithQuery("/tv-managers", "property_id", propertyID)
}

func guestEditPath(id uint) string { return fmt.Sprintf("/tv-managers/%d/edit", id) }

func (tc *TvManagerController) Index(c *ctx.Context) {
	f := repositories.GuestFilter{
		PropertyID: uint(max(c.QueryInt("property_id", 0), 0)),
		Search:     c.Query("search"),
		Page:       c.QueryInt("page", 1),
	}

	idx, err := tc.svc.Index(c.Context(), c.UserID(), f)
	if err != nil {
		renderError(c, err, "/tv-managers")
		return
	}
	c.Page("TvManagers/Index", resource.Map{
		"properties":       resource.Collection(tc.present.PropertyOption, idx.Properties),
		"selectedProperty": resource.Optional(tc.present.PropertyOption, idx.Selected),
		"guests":           resource.Paginated(tc.present.GuestRecord, idx.Guests, idx.Pagination),
		"filters": resource.Map{
			"property_id": f.PropertyID,
			"search":      f.Search,
		},
	})
}

func (tc *TvManagerController) Create(c *ctx.Context) {
	props, err := tc.svc.Properties(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/tv-managers")
		return
	}
	c.Page("TvManagers/Create", resource.Map{
		"properties": resource.Collection(tc.present.PropertyOption, props),
	})
}

func (tc *TvManagerController) Store(c *ctx.Context) {
	var req requests.StoreGuest
	files, ok := bindForm(c, &req, "/tv-managers/create", singleImage("image", false))
	if !ok {
		return
	}

	g, err := tc.svc.Create(c.Context(), c.UserID(), req.Input(first(files)))
	if err != nil {
		renderError(c, err, "/tv-managers/create")
		return
	}
	c.Respond(http.StatusCreated, resource.Map{
		"message": "Guest added successfully",
		"guest":   tc.present.GuestRecord(g),
	}, guestsPath(g.PropertyID), "Guest added successfully")
}

func (tc *TvManagerController) Edit(c *ctx.Context) {
	g, err := tc.svc.Find(c.Context(), c.UserID(), c.ParamUint("tvManager"))
	if err != nil {
		renderError(c, err, "/tv-managers")
		return
	}
	props, err := tc.svc.Properties(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/tv-managers")
		return
	}
	c.Page("TvManagers/Edit", resource.Map{
		"guest":      tc.present.GuestRecord(g),
		"properties": resource.Collection(tc.present.PropertyOption, props),
	})
}

func (tc *TvManagerController) Update(c *ctx.Context) {
	id := c.ParamUint("tvManager")
	var req requests.UpdateGuest
	if _, ok := bindForm(c, &req, guestEditPath(id)); !ok {
		return
	}

	g, err := tc.svc.Update(c.Context(), c.UserID(), id, req.Patch())
	if err != nil {
		renderError(c, err, guestEditPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message": "Guest data updated successfully",
		"guest":   tc.present.GuestRecord(g),
	}, guestsPath(g.PropertyID), "Guest data updated successfully")
}

// UpdateImage replaces the guest photo.
func (tc *TvManagerController) UpdateImage(c *ctx.Context) {
	id := c.ParamUint("tvManager")
	var req struct{}
	files, ok := bindForm(c, &req, guestEditPath(id), singleImage("image", true))
	if !ok {
		return
	}

	g, err := tc.svc.ReplaceImage(c.Context(), c.UserID(), id, files[0])
	if err != nil {
		renderError(c, err, guestEditPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message": "Guest photo updated successfully",
		"guest":   tc.present.GuestRecord(g),
	}, c.Back(guestsPath(g.PropertyID)), "Guest photo updated successfully")
}

func (tc *TvManagerController) Destroy(c *ctx.Context) {
	propertyID, err := tc.svc.Delete(c.Context(), c.UserID(), c.ParamUint("tvManager"))
	if err != nil {
		renderError(c, err, "/tv-managers")
		return
	}
	c.Respond(http.StatusOK, resource.Map{"message": "Guest data deleted successfully"},
		guestsPath(propertyID), "Guest data deleted successfully")
}
