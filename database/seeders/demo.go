package seeders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/auth"
	"github.com/staydesk/staydesk/pkg/database"
)

func init() {
	Register("demo_owner", SeedDemo)
}

// SeedDemo creates a demo owner with one hotel, a short menu and two
// guests. It does nothing when the owner already has a property.
func SeedDemo(ctx context.Context, db *gorm.DB) error {
	hash, err := auth.HashPassword(config.Get("DEMO_PASSWORD", "password"))
	if err != nil {
		return err
	}

	user := models.User{
		Name:     "Demo Owner",
		Email:    config.Get("DEMO_EMAIL", "owner@staydesk.test"),
		Password: hash,
	}
	if err := repositories.NewUserRepository(db).FirstOrCreate(ctx, &user); err != nil {
		return err
	}

	properties := repositories.NewPropertyRepository(db)
	owned, err := properties.OptionsByOwner(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(owned) > 0 {
		return nil
	}

	categories := repositories.NewCategoryRepository(db)
	items := repositories.NewMenuItemRepository(db)
	guests := repositories.NewGuestRecordRepository(db)

	return database.NewTransactor(db).Transaction(ctx, func(ctx context.Context) error {
		stars, rooms := 4, 120
		luxury := models.HotelLuxury
		hotel := models.Property{
			UserID:        user.ID,
			Name:          "Grand Harbour Hotel",
			Description:   ptr("Seafront hotel with a rooftop restaurant"),
			City:          ptr("Lisbon"),
			Country:       ptr("Portugal"),
			Latitude:      ptr(38.7077),
			Longitude:     ptr(-9.1365),
			StarRating:    &stars,
			TotalRooms:    &rooms,
			HotelCategory: &luxury,
		}
		if err := properties.Create(ctx, &hotel); err != nil {
			return err
		}

		all, err := categories.All(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]uint, len(all))
		for _, c := range all {
			byName[c.Name] = c.ID
		}

		menu := []struct {
			item models.MenuItem
			tags []string
		}{
			{models.MenuItem{Name: "Grilled Sea Bass", Price: 24.50}, []string{"Main Course", "Seafood", "Grill"}},
			{models.MenuItem{Name: "Tomato Soup", Price: 7}, []string{"Soup", "Vegetarian"}},
			{models.MenuItem{Name: "Pastel de Nata", Price: 3.20}, []string{"Dessert"}},
		}
		for _, m := range menu {
			item := m.item
			item.PropertyID = hotel.ID
			item.Status = models.MenuEnabled
			if err := items.Create(ctx, &item); err != nil {
				return err
			}
			var ids []uint
			for _, name := range m.tags {
				if id, ok := byName[name]; ok {
					ids = append(ids, id)
				}
			}
			if err := items.AttachTags(ctx, item.ID, ids); err != nil {
				return err
			}
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		checkout := today.AddDate(0, 0, 3)
		for _, g := range []models.GuestRecord{
			{GuestName: "Ana Sousa", AreaName: "Tower A", RoomNumber: ptr("1204")},
			{GuestName: "Marco Rossi", AreaName: "Garden Wing", RoomNumber: ptr("G12")},
		} {
			g := g
			g.PropertyID = hotel.ID
			g.CheckInDate = &today
			g.CheckOutDate = &checkout
			g.Status = models.GuestCheckedIn
			if err := guests.Create(ctx, &g); err != nil {
				return err
			}
		}
		return nil
	})
}

func ptr[T any](v T) *T { return &v }
