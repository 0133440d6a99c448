package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/policies"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/orm"
	"github.com/staydesk/staydesk/pkg/storage"
	"github.com/staydesk/staydesk/pkg/upload"
)

// GuestInput holds the fields of a new guest record.
type GuestInput struct {
	PropertyID   uint
	GuestName    string
	AreaName     string
	RoomNumber   *string
	BirthDate    *time.Time
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	Status       models.GuestStatus // defaults to checked_in
	Image        *upload.File
}

// GuestPatch holds the fields of a guest record update.
type GuestPatch struct {
	PropertyID   *uint
	GuestName    *string
	AreaName     *string
	RoomNumber   Patch[string]
	BirthDate    Patch[time.Time]
	CheckInDate  Patch[time.Time]
	CheckOutDate Patch[time.Time]
	Status       *models.GuestStatus
}

// GuestIndex is the data of the TV manager list screen.
type GuestIndex struct {
	Properties []models.Property
	Selected   *models.Property
	Guests     []models.GuestRecord
	Pagination orm.Pagination
}

// GuestRecordService manages the in-room guest records.
type GuestRecordService struct {
	tx         database.Transactor
	properties *repositories.PropertyRepository
	guests     *repositories.GuestRecordRepository
	media      media
}

func NewGuestRecordService(db *gorm.DB, disk storage.Disk) *GuestRecordService {
	tx := database.NewTransactor(db)
	return &GuestRecordService{
		tx:         tx,
		properties: repositories.NewPropertyRepository(db),
		guests:     repositories.NewGuestRecordRepository(db),
		media:      newMedia(disk, tx),
	}
}

// Index lists the guests of the selected property.
func (s *GuestRecordService) Index(ctx context.Context, actorID uint, f repositories.GuestFilter) (GuestIndex, error) {
	var out GuestIndex
	var err error

	if out.Properties, err = s.properties.OptionsByOwner(ctx, actorID); err != nil {
		return out, err
	}

	out.Guests = []models.GuestRecord{}
	out.Pagination = orm.Pagination{CurrentPage: 1, PerPage: orm.PageSize, LastPage: 1}
	for i := range out.Properties {
		if f.PropertyID != 0 && out.Properties[i].ID == f.PropertyID {
			out.Selected = &out.Properties[i]
		}
	}
	if out.Selected == nil {
		return out, nil
	}

	out.Guests, out.Pagination, err = s.guests.Page(ctx, f)
	return out, err
}

// Properties returns the property picker of the create and edit screens.
func (s *GuestRecordService) Properties(ctx context.Context, actorID uint) ([]models.Property, error) {
	return s.properties.OptionsByOwner(ctx, actorID)
}

// Find returns one guest record of a property the actor owns.
func (s *GuestRecordService) Find(ctx context.Context, actorID, id uint) (models.GuestRecord, error) {
	g, err := s.guests.Find(ctx, id)
	if err != nil {
		return models.GuestRecord{}, err
	}
	if g.Property == nil {
		return models.GuestRecord{}, ErrNotFound
	}
	if err := policies.Authorize(actorID, g.Property.UserID); err != nil {
		return models.GuestRecord{}, err
	}
	return g, nil
}

// Create stores the photo, then inserts the record.
func (s *GuestRecordService) Create(ctx context.Context, actorID uint, in GuestInput) (models.GuestRecord, error) {
	if _, err := ownedProperty(ctx, s.properties, actorID, in.PropertyID); err != nil {
		return models.GuestRecord{}, err
	}

	g := models.GuestRecord{
		PropertyID:   in.PropertyID,
		GuestName:    in.GuestName,
		AreaName:     in.AreaName,
		RoomNumber:   in.RoomNumber,
		BirthDate:    in.BirthDate,
		CheckInDate:  in.CheckInDate,
		CheckOutDate: in.CheckOutDate,
		Status:       in.Status,
	}
	if g.Status == "" {
		g.Status = models.GuestCheckedIn
	}
	if err := fromModel(g.Validate()); err != nil {
		return models.GuestRecord{}, err
	}

	o := owner{entity: "guest_record", userID: actorID}
	var keys []string
	if in.Image != nil {
		var err error
		if keys, err = s.media.store(ctx, o, GuestImagesDir, []upload.File{*in.Image}); err != nil {
			return models.GuestRecord{}, err
		}
		g.Image = &keys[0]
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.guests.Create(ctx, &g)
	})
	if err != nil {
		s.media.compensate(ctx, o, keys)
		return models.GuestRecord{}, err
	}

	metrics.ObserveAttachments("guest_record", "added", len(keys))
	return g, nil
}

// Update applies the fields present in patch. Moving the record to another
// property requires owning that property too.
func (s *GuestRecordService) Update(ctx context.Context, actorID, id uint, patch GuestPatch) (models.GuestRecord, error) {
	g, err := s.Find(ctx, actorID, id)
	if err != nil {
		return models.GuestRecord{}, err
	}
	g.Property = nil

	if patch.PropertyID != nil && *patch.PropertyID != g.PropertyID {
		if _, err := ownedProperty(ctx, s.properties, actorID, *patch.PropertyID); err != nil {
			return models.GuestRecord{}, err
		}
		g.PropertyID = *patch.PropertyID
	}
	setIfPresent(&g.GuestName, patch.GuestName)
	setIfPresent(&g.AreaName, patch.AreaName)
	patch.RoomNumber.apply(&g.RoomNumber)
	patch.BirthDate.apply(&g.BirthDate)
	patch.CheckInDate.apply(&g.CheckInDate)
	patch.CheckOutDate.apply(&g.CheckOutDate)
	setIfPresent(&g.Status, patch.Status)

	if err := fromModel(g.Validate()); err != nil {
		return models.GuestRecord{}, err
	}
	if err := s.guests.Save(ctx, &g); err != nil {
		return models.GuestRecord{}, err
	}
	return g, nil
}

// ReplaceImage swaps the guest photo. The previous blob is deleted after the
// new path is committed.
func (s *GuestRecordService) ReplaceImage(ctx context.Context, actorID, id uint, file upload.File) (models.GuestRecord, error) {
	g, err := s.Find(ctx, actorID, id)
	if err != nil {
		return models.GuestRecord{}, err
	}
	g.Property = nil

	o := owner{entity: "guest_record", entityID: g.ID, userID: actorID}
	_, err = s.media.replace(ctx, o, GuestImagesDir, file, g.Image, func(ctx context.Context, key string) error {
		g.Image = &key
		return s.guests.Save(ctx, &g)
	})
	if err != nil {
		return models.GuestRecord{}, err
	}
	metrics.ObserveAttachments("guest_record", "added", 1)
	return g, nil
}

// Delete removes the record, then its photo. Returns the record's property id.
func (s *GuestRecordService) Delete(ctx context.Context, actorID, id uint) (uint, error) {
	g, err := s.Find(ctx, actorID, id)
	if err != nil {
		return 0, err
	}

	if err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.guests.Delete(ctx, g.ID)
	}); err != nil {
		return 0, err
	}
	if g.Image != nil {
		s.media.removeAll(ctx, blobsOf(owner{entity: "guest_record", entityID: g.ID, userID: actorID}, *g.Image))
		metrics.ObserveAttachments("guest_record", "deleted", 1)
	}
	return g.PropertyID, nil
}
