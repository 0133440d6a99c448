package requests

import (
	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/upload"
)

// StoreMenuItem is the create form, also used by the full update (PUT).
type StoreMenuItem struct {
	PropertyID  string  `form:"property_id" validate:"required,integer"`
	Name        string  `form:"name"        validate:"required,max=255"`
	Description *string `form:"description" validate:"nullable"`
	Price       string  `form:"price"       validate:"required,numeric,min=0,max=99999999.99"`
	Status      string  `form:"status"      validate:"required,in=enabled,disabled"`
	Categories  []uint  `form:"categories"`
}

func (r StoreMenuItem) Input(image *upload.File) services.MenuItemInput {
	price := float(&r.Price)
	in := services.MenuItemInput{
		PropertyID:  id(r.PropertyID),
		Name:        r.Name,
		Description: text(r.Description),
		Status:      models.MenuStatus(r.Status),
		CategoryIDs: r.Categories,
		Image:       image,
	}
	if price != nil {
		in.Price = *price
	}
	return in
}

// Patch turns the full form into an update. Categories missing from the
// form clear the item's tags, as an HTML form omits an empty list.
func (r StoreMenuItem) Patch(image *upload.File) services.MenuItemPatch {
	in := r.Input(image)
	tags := in.CategoryIDs
	if tags == nil {
		tags = []uint{}
	}
	return services.MenuItemPatch{
		PropertyID:  &in.PropertyID,
		Name:        &in.Name,
		Description: patchOf(r.Description, text),
		Price:       &in.Price,
		Status:      &in.Status,
		CategoryIDs: &tags,
		Image:       image,
	}
}

// SyncCategories is the tag replacement form.
type SyncCategories struct {
	Categories []uint `form:"categories"`
}
