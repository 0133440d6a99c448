package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ImageType tags what a property photo shows.
type ImageType string

const (
	ImageExterior ImageType = "exterior"
	ImageInterior ImageType = "interior"
	ImageRoom     ImageType = "room"
	ImageFacility ImageType = "facility"
)

// PropertyImage is one photo attached to a property. Image is the
// store-relative blob path.
type PropertyImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Image      string    `gorm:"size:255;not null" json:"image"`
	Caption    *string   `gorm:"size:255" json:"caption"`
	Type       ImageType `gorm:"size:20;not null;default:interior" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Property *Property `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Validate checks the domain invariants of a property image.
func (i PropertyImage) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.PropertyID, validation.Required),
		validation.Field(&i.Image, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&i.Caption, validation.RuneLength(0, 255)),
		validation.Field(&i.Type, validation.In(ImageExterior, ImageInterior, ImageRoom, ImageFacility)),
	)
}
