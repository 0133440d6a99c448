package requests

import (
	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/services"
)

// StoreProperty is the create form. Images arrive as images[].
type StoreProperty struct {
	Name          string  `form:"name"           validate:"required,max=255"`
	Description   *string `form:"description"    validate:"nullable,max=255"`
	Phone         *string `form:"phone"          validate:"nullable,max=255"`
	Address       *string `form:"address"        validate:"nullable"`
	City          *string `form:"city"           validate:"nullable,max=255"`
	State         *string `form:"state"          validate:"nullable,max=255"`
	Zip           *string `form:"zip"            validate:"nullable,max=255"`
	Country       *string `form:"country"        validate:"nullable,max=255"`
	Latitude      *string `form:"latitude"       validate:"nullable,numeric,between=-90,90"`
	Longitude     *string `form:"longitude"      validate:"nullable,numeric,between=-180,180"`
	StarRating    *string `form:"star_rating"    validate:"nullable,integer,min=1,max=5"`
	TotalRooms    *string `form:"total_rooms"    validate:"nullable,integer,min=1"`
	HotelCategory *string `form:"hotel_category" validate:"nullable,in=budget,mid-range,luxury"`
}

func (r StoreProperty) Input() services.PropertyInput {
	return services.PropertyInput{
		Name:          r.Name,
		Description:   text(r.Description),
		Phone:         text(r.Phone),
		Address:       text(r.Address),
		City:          text(r.City),
		State:         text(r.State),
		Zip:           text(r.Zip),
		Country:       text(r.Country),
		Latitude:      float(r.Latitude),
		Longitude:     float(r.Longitude),
		StarRating:    integer(r.StarRating),
		TotalRooms:    integer(r.TotalRooms),
		HotelCategory: typed[models.HotelCategory](r.HotelCategory),
	}
}

// UpdateProperty is the partial update form: only the fields sent change.
type UpdateProperty struct {
	Name          *string `form:"name"           validate:"sometimes,required,max=255"`
	Description   *string `form:"description"    validate:"sometimes,nullable,max=255"`
	Phone         *string `form:"phone"          validate:"sometimes,nullable,max=255"`
	Address       *string `form:"address"        validate:"sometimes,nullable"`
	City          *string `form:"city"           validate:"sometimes,nullable,max=255"`
	State         *string `form:"state"          validate:"sometimes,nullable,max=255"`
	Zip           *string `form:"zip"            validate:"sometimes,nullable,max=255"`
	Country       *string `form:"country"        validate:"sometimes,nullable,max=255"`
	Latitude      *string `form:"latitude"       validate:"sometimes,nullable,numeric,between=-90,90"`
	Longitude     *string `form:"longitude"      validate:"sometimes,nullable,numeric,between=-180,180"`
	StarRating    *string `form:"star_rating"    validate:"sometimes,nullable,integer,min=1,max=5"`
	TotalRooms    *string `form:"total_rooms"    validate:"sometimes,nullable,integer,min=1"`
	HotelCategory *string `form:"hotel_category" validate:"sometimes,nullable,in=budget,mid-range,luxury"`
}

func (r UpdateProperty) Patch() services.PropertyPatch {
	return services.PropertyPatch{
		Name:          text(r.Name),
		Description:   patchOf(r.Description, text),
		Phone:         patchOf(r.Phone, text),
		Address:       patchOf(r.Address, text),
		City:          patchOf(r.City, text),
		State:         patchOf(r.State, text),
		Zip:           patchOf(r.Zip, text),
		Country:       patchOf(r.Country, text),
		Latitude:      patchOf(r.Latitude, float),
		Longitude:     patchOf(r.Longitude, float),
		StarRating:    patchOf(r.StarRating, integer),
		TotalRooms:    patchOf(r.TotalRooms, integer),
		HotelCategory: patchOf(r.HotelCategory, typed[models.HotelCategory]),
	}
}

// UpdatePropertyImages is the image diff form. New files arrive as
// new_images[].
type UpdatePropertyImages struct {
	ImagesToDelete []uint `form:"images_to_delete"`
}
