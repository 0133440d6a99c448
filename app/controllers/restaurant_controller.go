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

// RestaurantController manages the restaurant menu of a property.
type RestaurantController struct {
	svc     *services.MenuItemService
	present *resources.Presenter
}

func NewRestaurantController(svc *services.MenuItemService, present *resources.Presenter) *RestaurantController {
	return &RestaurantController{svc: svc, present: present}
}

func menuPath(propertyID uint) string {
	return ctx.URLWithQuery("/restaurants", "property_id", propertyID)
}

func menuEditPath(id uint) string { return fmt.Sprintf("/restaurants/%d/edit", id) }

func (rc *RestaurantController) Index(c *ctx.Context) {
	f := repositories.MenuFilter{
		PropertyID:  uint(max(c.QueryInt("property_id", 0), 0)),
		CategoryIDs: c.QueryUints("categories"),
		Search:      c.Query("search"),
		Page:        c.QueryInt("page", 1),
	}

	idx, err := rc.svc.Index(c.Context(), c.UserID(), f)
	if err != nil {
		renderError(c, err, "/restaurants")
		return
	}

	categories := f.CategoryIDs
	if categories == nil {
		categories = []uint{}
	}
	c.Page("Restaurants/Index", resource.Map{
		"properties":       resource.Collection(rc.present.PropertyOption, idx.Properties),
		"selectedProperty": resource.Optional(rc.present.PropertyOption, idx.Selected),
		"menuItems":        resource.Paginated(rc.present.MenuItem, idx.Items, idx.Pagination),
		"categories":       resource.Collection(rc.present.Category, idx.Categories),
		"filters": resource.Map{
			"property_id": f.PropertyID,
			"categories":  categories,
			"search":      f.Search,
		},
	})
}

func (rc *RestaurantController) Create(c *ctx.Context) {
	props, cats, err := rc.svc.FormData(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/restaurants")
		return
	}
	c.Page("Restaurants/Create", resource.Map{
		"properties": resource.Collection(rc.present.PropertyOption, props),
		"categories": resource.Collection(rc.present.Category, cats),
	})
}

func (rc *RestaurantController) Store(c *ctx.Context) {
	var req requests.StoreMenuItem
	files, ok := bindForm(c, &req, "/restaurants/create", singleImage("image", false))
	if !ok {
		return
	}

	item, err := rc.svc.Create(c.Context(), c.UserID(), req.Input(first(files)))
	if err != nil {
		renderError(c, err, "/restaurants/create")
		return
	}
	c.Respond(http.StatusCreated, resource.Map{
		"message":  "Menu item created successfully",
		"menuItem": rc.present.MenuItem(item),
	}, menuPath(item.PropertyID), "Menu item created successfully")
}

func (rc *RestaurantController) Edit(c *ctx.Context) {
	item, err := rc.svc.Find(c.Context(), c.UserID(), c.ParamUint("menuItem"))
	if err != nil {
		renderError(c, err, "/restaurants")
		return
	}
	props, cats, err := rc.svc.FormData(c.Context(), c.UserID())
	if err != nil {
		renderError(c, err, "/restaurants")
		return
	}
	c.Page("Restaurants/Edit", resource.Map{
		"menuItem":   rc.present.MenuItem(item),
		"properties": resource.Collection(rc.present.PropertyOption, props),
		"categories": resource.Collection(rc.present.Category, cats),
	})
}

// Update replaces the item fields, its tags and, when a file is sent, its
// image.
func (rc *RestaurantController) Update(c *ctx.Context) {
	id := c.ParamUint("menuItem")
	var req requests.StoreMenuItem
	files, ok := bindForm(c, &req, menuEditPath(id), singleImage("image", false))
	if !ok {
		return
	}

	item, err := rc.svc.Update(c.Context(), c.UserID(), id, req.Patch(first(files)))
	if err != nil {
		renderError(c, err, menuEditPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message":  "Menu item updated successfully",
		"menuItem": rc.present.MenuItem(item),
	}, menuPath(item.PropertyID), "Menu item updated successfully")
}

func (rc *RestaurantController) UpdateImage(c *ctx.Context) {
	id := c.ParamUint("menuItem")
	var req struct{}
	files, ok := bindForm(c, &req, menuEditPath(id), singleImage("image", true))
	if !ok {
		return
	}

	item, err := rc.svc.ReplaceImage(c.Context(), c.UserID(), id, files[0])
	if err != nil {
		renderError(c, err, menuEditPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message":  "Menu item image updated successfully",
		"menuItem": rc.present.MenuItem(item),
	}, c.Back(menuPath(item.PropertyID)), "Menu item image updated successfully")
}

// SyncCategories replaces the tag set with categories[].
func (rc *RestaurantController) SyncCategories(c *ctx.Context) {
	id := c.ParamUint("menuItem")
	var req requests.SyncCategories
	if _, ok := bindForm(c, &req, menuEditPath(id)); !ok {
		return
	}

	item, err := rc.svc.SyncCategories(c.Context(), c.UserID(), id, req.Categories)
	if err != nil {
		renderError(c, err, menuEditPath(id))
		return
	}
	c.Respond(http.StatusOK, resource.Map{
		"message":  "Menu categories updated successfully",
		"menuItem": rc.present.MenuItem(item),
	}, c.Back(menuPath(item.PropertyID)), "Menu categories updated successfully")
}

func (rc *RestaurantController) Destroy(c *ctx.Context) {
	propertyID, err := rc.svc.Delete(c.Context(), c.UserID(), c.ParamUint("menuItem"))
	if err != nil {
		renderError(c, err, "/restaurants")
		return
	}
	c.Respond(http.StatusOK, resource.Map{"message": "Menu item deleted successfully"},
		menuPath(propertyID), "Menu item deleted successfully")
}
