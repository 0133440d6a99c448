// Package resources defines the JSON shape of every model exposed by the
// back office. Blob paths are paired with a public URL from the disk.
package resources

import (
	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/resource"
	"github.com/staydesk/staydesk/pkg/storage"
)

// Presenter turns models into resource maps.
type Presenter struct {
	disk storage.Disk
}

func NewPresenter(disk storage.Disk) *Presenter {
	return &Presenter{disk: disk}
}

func (p *Presenter) url(path *string) interface{} {
	if path == nil || *path == "" {
		return nil
	}
	return p.disk.URL(*path)
}

// Property is the full property shape, with images when loaded.
func (p *Presenter) Property(m models.Property) resource.Map {
	out := resource.Map{
		"id":             m.ID,
		"user_id":        m.UserID,
		"name":           m.Name,
		"description":    m.Description,
		"phone":          m.Phone,
		"address":        m.Address,
		"city":           m.City,
		"state":          m.State,
		"zip":            m.Zip,
		"country":        m.Country,
		"latitude":       m.Latitude,
		"longitude":      m.Longitude,
		"star_rating":    m.StarRating,
		"total_rooms":    m.TotalRooms,
		"hotel_category": m.HotelCategory,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
	}
	if m.Images != nil {
		out["images"] = resource.Collection(p.PropertyImage, m.Images)
	}
	return out
}

// PropertyOption is the {id, name, hotel_category} shape of pickers.
func (p *Presenter) PropertyOption(m models.Property) resource.Map {
	return resource.Map{
		"id":             m.ID,
		"name":           m.Name,
		"hotel_category": m.HotelCategory,
	}
}

func (p *Presenter) PropertyImage(m models.PropertyImage) resource.Map {
	return resource.Map{
		"id":          m.ID,
		"property_id": m.PropertyID,
		"image":       m.Image,
		"url":         p.url(&m.Image),
		"caption":     m.Caption,
		"type":        m.Type,
	}
}

func (p *Presenter) Category(m models.Category) resource.Map {
	return resource.Map{"id": m.ID, "name": m.Name}
}

func (p *Presenter) MenuItem(m models.MenuItem) resource.Map {
	cats := m.Categories
	if cats == nil {
		cats = []models.Category{}
	}
	return resource.Map{
		"id":          m.ID,
		"property_id": m.PropertyID,
		"name":        m.Name,
		"description": m.Description,
		"image":       m.Image,
		"image_url":   p.url(m.Image),
		"price":       m.Price,
		"status":      m.Status,
		"categories":  resource.Collection(p.Category, cats),
		"created_at":  m.CreatedAt,
		"updated_at":  m.UpdatedAt,
	}
}

func (p *Presenter) GuestRecord(m models.GuestRecord) resource.Map {
	return resource.Map{
		"id":             m.ID,
		"property_id":    m.PropertyID,
		"guest_name":     m.GuestName,
		"area_name":      m.AreaName,
		"room_number":    m.RoomNumber,
		"birth_date":     day(m.BirthDate),
		"image":          m.Image,
		"image_url":      p.url(m.Image),
		"check_in_date":  day(m.CheckInDate),
		"check_out_date": day(m.CheckOutDate),
		"status":         m.Status,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
	}
}
