package requests

import (
	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/upload"
)

// StoreGuest is the create form of a guest record.
type StoreGuest struct {
	PropertyID   string  `form:"property_id"    validate:"required,integer"`
	AreaName     string  `form:"area_name"      validate:"required,max=255"`
	GuestName    string  `form:"guest_name"     validate:"required,max=255"`
	RoomNumber   *string `form:"room_number"    validate:"nullable,max=255"`
	BirthDate    *string `form:"birth_date"     validate:"nullable,date"`
	CheckInDate  *string `form:"check_in_date"  validate:"nullable,date"`
	CheckOutDate *string `form:"check_out_date" validate:"nullable,date,after_or_equal=check_in_date"`
	Status       *string `form:"status"         validate:"nullable,in=checked_in,checked_out"`
}

func (r StoreGuest) Input(image *upload.File) services.GuestInput {
	in := services.GuestInput{
		PropertyID:   id(r.PropertyID),
		GuestName:    r.GuestName,
		AreaName:     r.AreaName,
		RoomNumber:   text(r.RoomNumber),
		BirthDate:    date(r.BirthDate),
		CheckInDate:  date(r.CheckInDate),
		CheckOutDate: date(r.CheckOutDate),
		Image:        image,
	}
	if st := typed[models.GuestStatus](r.Status); st != nil {
		in.Status = *st
	}
	return in
}

// UpdateGuest is the edit form. The required fields must always be sent;
// the optional ones change only when present.
type UpdateGuest struct {
	PropertyID   string  `form:"property_id"    validate:"required,integer"`
	AreaName     string  `form:"area_name"      validate:"required,max=255"`
	GuestName    string  `form:"guest_name"     validate:"required,max=255"`
	RoomNumber   *string `form:"room_number"    validate:"sometimes,nullable,max=255"`
	BirthDate    *string `form:"birth_date"     validate:"sometimes,nullable,date"`
	CheckInDate  *string `form:"check_in_date"  validate:"sometimes,nullable,date"`
	CheckOutDate *string `form:"check_out_date" validate:"sometimes,nullable,date,after_or_equal=check_in_date"`
	Status       *string `form:"status"         validate:"sometimes,nullable,in=checked_in,checked_out"`
}

func (r UpdateGuest) Patch() services.GuestPatch {
	pid := id(r.PropertyID)
	return services.GuestPatch{
		PropertyID:   &pid,
		GuestName:    &r.GuestName,
		AreaName:     &r.AreaName,
		RoomNumber:   patchOf(r.RoomNumber, text),
		BirthDate:    patchOf(r.BirthDate, date),
		CheckInDate:  patchOf(r.CheckInDate, date),
		CheckOutDate: patchOf(r.CheckOutDate, date),
		Status:       typed[models.GuestStatus](r.Status),
	}
}
