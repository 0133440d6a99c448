package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/policies"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/collection"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/storage"
	"github.com/staydesk/staydesk/pkg/upload"
)

// PropertyInput holds the fields of a new property.
type PropertyInput struct {
	Name          string
	Description   *string
	Phone         *string
	Address       *string
	City          *string
	State         *string
	Zip           *string
	Country       *string
	Latitude      *float64
	Longitude     *float64
	StarRating    *int
	TotalRooms    *int
	HotelCategory *models.HotelCategory
}

// PropertyPatch holds the fields of a partial property update.
type PropertyPatch struct {
	Name          *string
	Description   Patch[string]
	Phone         Patch[string]
	Address       Patch[string]
	City          Patch[string]
	State         Patch[string]
	Zip           Patch[string]
	Country       Patch[string]
	Latitude      Patch[float64]
	Longitude     Patch[float64]
	StarRating    Patch[int]
	TotalRooms    Patch[int]
	HotelCategory Patch[models.HotelCategory]
}

// PropertyService manages properties and their images.
type PropertyService struct {
	tx         database.Transactor
	properties *repositories.PropertyRepository
	images     *repositories.PropertyImageRepository
	menu       *repositories.MenuItemRepository
	guests     *repositories.GuestRecordRepository
	media      media
}

func NewPropertyService(db *gorm.DB, disk storage.Disk) *PropertyService {
	tx := database.NewTransactor(db)
	return &PropertyService{
		tx:         tx,
		properties: repositories.NewPropertyRepository(db),
		images:     repositories.NewPropertyImageRepository(db),
		menu:       repositories.NewMenuItemRepository(db),
		guests:     repositories.NewGuestRecordRepository(db),
		media:      newMedia(disk, tx),
	}
}

// List returns the actor's properties with their images.
func (s *PropertyService) List(ctx context.Context, actorID uint) ([]models.Property, error) {
	return s.properties.ListByOwner(ctx, actorID)
}

// Options returns id, name and hotel category of the actor's properties.
func (s *PropertyService) Options(ctx context.Context, actorID uint) ([]models.Property, error) {
	return s.properties.OptionsByOwner(ctx, actorID)
}

// Show returns one owned property with its images.
func (s *PropertyService) Show(ctx context.Context, actorID, id uint) (models.Property, error) {
	p, err := s.properties.FindWithImages(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	if err := policies.Authorize(actorID, p.UserID); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

// owned loads a property and checks that actorID owns it.
func (s *PropertyService) owned(ctx context.Context, actorID, id uint) (models.Property, error) {
	p, err := s.properties.Find(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	if err := policies.Authorize(actorID, p.UserID); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

// Create stores the images, then inserts the property and its image rows in
// one transaction. Stored blobs are removed if the transaction fails.
func (s *PropertyService) Create(ctx context.Context, actorID uint, in PropertyInput, images []upload.File) (models.Property, error) {
	if actorID == 0 {
		return models.Property{}, ErrForbidden
	}

	p := models.Property{
		UserID:        actorID,
		Name:          in.Name,
		Description:   in.Description,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		Zip:           in.Zip,
		Country:       in.Country,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		StarRating:    in.StarRating,
		TotalRooms:    in.TotalRooms,
		HotelCategory: in.HotelCategory,
	}
	if err := fromModel(p.Validate()); err != nil {
		return models.Property{}, err
	}

	o := owner{entity: "property", userID: actorID}
	keys, err := s.media.store(ctx, o, PropertyImagesDir, images)
	if err != nil {
		return models.Property{}, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.properties.Create(ctx, &p); err != nil {
			return err
		}
		p.Images = newImages(p.ID, keys)
		return s.images.CreateMany(ctx, p.Images)
	})
	if err != nil {
		s.media.compensate(ctx, o, keys)
		return models.Property{}, err
	}

	metrics.ObserveAttachments("property", "added", len(keys))
	return p, nil
}

func newImages(propertyID uint, keys []string) []models.PropertyImage {
	out := make([]models.PropertyImage, len(keys))
	for i, key := range keys {
		out[i] = models.PropertyImage{PropertyID: propertyID, Image: key, Type: models.ImageInterior}
	}
	return out
}

// Update applies the fields present in patch. The owner never changes.
func (s *PropertyService) Update(ctx context.Context, actorID, id uint, patch PropertyPatch) (models.Property, error) {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return models.Property{}, err
	}

	setIfPresent(&p.Name, patch.Name)
	patch.Description.apply(&p.Description)
	patch.Phone.apply(&p.Phone)
	patch.Address.apply(&p.Address)
	patch.City.apply(&p.City)
	patch.State.apply(&p.State)
	patch.Zip.apply(&p.Zip)
	patch.Country.apply(&p.Country)
	patch.Latitude.apply(&p.Latitude)
	patch.Longitude.apply(&p.Longitude)
	patch.StarRating.apply(&p.StarRating)
	patch.TotalRooms.apply(&p.TotalRooms)
	patch.HotelCategory.apply(&p.HotelCategory)

	if err := fromModel(p.Validate()); err != nil {
		return models.Property{}, err
	}
	if err := s.properties.Save(ctx, &p); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

// ReplaceImages deletes the images in toDelete that belong to the property,
// then adds toAdd. Ids of other properties are ignored. The halves are
// independent: a failed delete still attempts the adds. The counts are
// always returned, with the errors of the failed halves joined.
func (s *PropertyService) ReplaceImages(ctx context.Context, actorID, id uint, toDelete []uint, toAdd []upload.File) (ImageDiff, error) {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return ImageDiff{}, err
	}

	o := owner{entity: "property", entityID: p.ID, userID: actorID}
	log := logger.WithCtx(ctx).With("property_id", p.ID, "user_id", actorID)

	var diff ImageDiff
	var errs []error

	doomed, err := s.images.FindOwnedBy(ctx, p.ID, collection.Unique(toDelete))
	if err != nil {
		errs = append(errs, err)
	}
	for _, img := range doomed {
		if err := s.media.remove(ctx, o, img.Image); err != nil {
			log.Error("property image delete failed", errorAttrs(err)...)
			errs = append(errs, err)
			break
		}
		if err := s.images.Delete(ctx, img.ID); err != nil {
			log.Error("property image row delete failed", "image_id", img.ID, "error", err)
			errs = append(errs, err)
			break
		}
		diff.Deleted++
	}

	if len(toAdd) > 0 {
		keys, err := s.media.store(ctx, o, PropertyImagesDir, toAdd)
		if err != nil {
			log.Error("property image upload failed", errorAttrs(err)...)
			errs = append(errs, err)
		} else {
			rows := newImages(p.ID, keys)
			err = s.tx.Transaction(ctx, func(ctx context.Context) error {
				return s.images.CreateMany(ctx, rows)
			})
			if err != nil {
				s.media.compensate(ctx, o, keys)
				log.Error("property image insert failed", "error", err)
				errs = append(errs, err)
			} else {
				diff.Added = len(rows)
			}
		}
	}

	metrics.ObserveAttachments("property", "added", diff.Added)
	metrics.ObserveAttachments("property", "deleted", diff.Deleted)
	return diff, errors.Join(errs...)
}

// DeleteImage removes one property image, blob first.
func (s *PropertyService) DeleteImage(ctx context.Context, actorID, imageID uint) error {
	img, err := s.images.Find(ctx, imageID)
	if err != nil {
		return err
	}
	if img.Property == nil {
		return ErrNotFound
	}
	if err := policies.Authorize(actorID, img.Property.UserID); err != nil {
		return err
	}

	o := owner{entity: "property", entityID: img.PropertyID, userID: actorID}
	if err := s.media.remove(ctx, o, img.Image); err != nil {
		return err
	}
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return err
	}
	metrics.ObserveAttachments("property", "deleted", 1)
	return nil
}

// Delete removes the property with its images, menu items and guest
// records. The blobs are deleted once the rows are gone; every delete is
// attempted and failures are logged and queued for purge.
func (s *PropertyService) Delete(ctx context.Context, actorID, id uint) error {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return err
	}

	images, err := s.images.ListByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	items, err := s.menu.ListByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	guests, err := s.guests.ListByProperty(ctx, p.ID)
	if err != nil {
		return err
	}

	blobs := blobsOf(owner{entity: "property", entityID: p.ID, userID: actorID},
		collection.Pluck(images, func(i models.PropertyImage) string { return i.Image })...)
	for _, item := range items {
		if item.Image != nil {
			blobs = append(blobs, blobsOf(owner{entity: "menu_item", entityID: item.ID, userID: actorID}, *item.Image)...)
		}
	}
	for _, g := range guests {
		if g.Image != nil {
			blobs = append(blobs, blobsOf(owner{entity: "guest_record", entityID: g.ID, userID: actorID}, *g.Image)...)
		}
	}
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.menu.DetachTagsByProperty(ctx, p.ID); err != nil {
			return err
		}
		if err := s.menu.DeleteByProperty(ctx, p.ID); err != nil {
			return err
		}
		if err := s.guests.DeleteByProperty(ctx, p.ID); err != nil {
			return err
		}
		if err := s.images.DeleteByProperty(ctx, p.ID); err != nil {
			return err
		}
		return s.properties.Delete(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	s.media.removeAll(ctx, blobs)
	metrics.ObserveAttachments("property", "deleted", len(images))
	return nil
}
