package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// GuestStatus tracks whether a guest is in the room.
type GuestStatus string

const (
	GuestCheckedIn  GuestStatus = "checked_in"
	GuestCheckedOut GuestStatus = "checked_out"
)

// GuestRecord is the in-room TV greeting for one guest.
type GuestRecord struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	PropertyID   uint        `gorm:"not null;index" json:"property_id"`
	GuestName    string      `gorm:"size:255;not null" json:"guest_name"`
	AreaName     string      `gorm:"size:255;not null" json:"area_name"`
	RoomNumber   *string     `gorm:"size:255" json:"room_number"`
	BirthDate    *time.Time  `gorm:"type:date" json:"birth_date"`
	Image        *string     `gorm:"size:255" json:"image"`
	CheckInDate  *time.Time  `gorm:"type:date" json:"check_in_date"`
	CheckOutDate *time.Time  `gorm:"type:date" json:"check_out_date"`
	Status       GuestStatus `gorm:"size:20;not null;default:checked_in" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Property *Property `gorm:"constraint:OnDelete:CASCADE" json:"property,omitempty"`
}

func (GuestRecord) TableName() string { return "tv_managers" }

// Validate checks the domain invariants of a guest record.
func (g GuestRecord) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.PropertyID, validation.Required),
		validation.Field(&g.GuestName, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&g.AreaName, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&g.RoomNumber, validation.RuneLength(0, 255)),
		validation.Field(&g.Image, validation.RuneLength(0, 255)),
		validation.Field(&g.CheckOutDate, validation.By(notBefore(g.CheckInDate))),
		validation.Field(&g.Status, validation.Required, validation.In(GuestCheckedIn, GuestCheckedOut)),
	)
}

func notBefore(start *time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		end, _ := value.(*time.Time)
		if start == nil || end == nil || !end.Before(*start) {
			return nil
		}
		return errors.New("must not be before the check-in date")
	}
}
