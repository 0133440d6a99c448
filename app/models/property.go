package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// HotelCategory classifies a property by price segment.
type HotelCategory string

const (
	HotelBudget   HotelCategory = "budget"
	HotelMidRange HotelCategory = "mid-range"
	HotelLuxury   HotelCategory = "luxury"
)

// HotelCategories lists every accepted HotelCategory.
var HotelCategories = []interface{}{HotelBudget, HotelMidRange, HotelLuxury}

// Property is a hotel owned by one user. UserID never changes after creation.
type Property struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   *string        `gorm:"size:255" json:"description"`
	Phone         *string        `gorm:"size:255" json:"phone"`
	Address       *string        `gorm:"type:text" json:"address"`
	City          *string        `gorm:"size:255" json:"city"`
	State         *string        `gorm:"size:255" json:"state"`
	Zip           *string        `gorm:"size:255" json:"zip"`
	Country       *string        `gorm:"size:255" json:"country"`
	Latitude      *float64       `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude     *float64       `gorm:"type:decimal(10,7)" json:"longitude"`
	StarRating    *int           `json:"star_rating"`
	TotalRooms    *int           `json:"total_rooms"`
	HotelCategory *HotelCategory `gorm:"size:20" json:"hotel_category"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	User   *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Images []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
}

// Validate checks the domain invariants of a property.
func (p Property) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UserID, validation.Required),
		validation.Field(&p.Name, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&p.Description, validation.RuneLength(0, 255)),
		validation.Field(&p.Phone, validation.RuneLength(0, 255)),
		validation.Field(&p.City, validation.RuneLength(0, 255)),
		validation.Field(&p.State, validation.RuneLength(0, 255)),
		validation.Field(&p.Zip, validation.RuneLength(0, 255)),
		validation.Field(&p.Country, validation.RuneLength(0, 255)),
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&p.StarRating, validation.Min(1), validation.Max(5)),
		validation.Field(&p.TotalRooms, validation.Min(1)),
		validation.Field(&p.HotelCategory, validation.In(HotelCategories...)),
	)
}
