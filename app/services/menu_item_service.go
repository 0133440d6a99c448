package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/policies"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/collection"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/orm"
	"github.com/staydesk/staydesk/pkg/storage"
	"github.com/staydesk/staydesk/pkg/upload"
)

// MenuItemInput holds the fields of a new menu item.
type MenuItemInput struct {
	PropertyID  uint
	Name        string
	Description *string
	Price       float64
	Status      models.MenuStatus // defaults to enabled
	CategoryIDs []uint
	Image       *upload.File
}

// MenuItemPatch holds the fields of a menu item update. A nil CategoryIDs
// leaves the tags alone; a non-nil empty slice clears them.
type MenuItemPatch struct {
	PropertyID  *uint
	Name        *string
	Description Patch[string]
	Price       *float64
	Status      *models.MenuStatus
	CategoryIDs *[]uint
	Image       *upload.File
}

// MenuIndex is the data of the restaurant list screen. Items stays empty
// until an owned property is selected.
type MenuIndex struct {
	Properties []models.Property
	Selected   *models.Property
	Items      []models.MenuItem
	Pagination orm.Pagination
	Categories []models.Category
}

// MenuItemService manages restaurant menu items, their image and tags.
type MenuItemService struct {
	tx         database.Transactor
	properties *repositories.PropertyRepository
	items      *repositories.MenuItemRepository
	categories *repositories.CategoryRepository
	media      media
}

func NewMenuItemService(db *gorm.DB, disk storage.Disk) *MenuItemService {
	tx := database.NewTransactor(db)
	return &MenuItemService{
		tx:         tx,
		properties: repositories.NewPropertyRepository(db),
		items:      repositories.NewMenuItemRepository(db),
		categories: repositories.NewCategoryRepository(db),
		media:      newMedia(disk, tx),
	}
}

// Index lists the menu of the selected property. A property the actor does
// not own selects nothing.
func (s *MenuItemService) Index(ctx context.Context, actorID uint, f repositories.MenuFilter) (MenuIndex, error) {
	var out MenuIndex
	var err error

	if out.Properties, err = s.properties.OptionsByOwner(ctx, actorID); err != nil {
		return out, err
	}
	if out.Categories, err = s.categories.All(ctx); err != nil {
		return out, err
	}

	out.Items = []models.MenuItem{}
	out.Pagination = orm.Pagination{CurrentPage: 1, PerPage: orm.PageSize, LastPage: 1}
	for i := range out.Properties {
		if f.PropertyID != 0 && out.Properties[i].ID == f.PropertyID {
			out.Selected = &out.Properties[i]
		}
	}
	if out.Selected == nil {
		return out, nil
	}

	out.Items, out.Pagination, err = s.items.Page(ctx, f)
	return out, err
}

// FormData returns the pickers of the create and edit screens.
func (s *MenuItemService) FormData(ctx context.Context, actorID uint) ([]models.Property, []models.Category, error) {
	props, err := s.properties.OptionsByOwner(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	cats, err := s.categories.All(ctx)
	return props, cats, err
}

// Find returns one menu item of a property the actor owns.
func (s *MenuItemService) Find(ctx context.Context, actorID, id uint) (models.MenuItem, error) {
	item, err := s.items.Find(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	if item.Property == nil {
		return models.MenuItem{}, ErrNotFound
	}
	if err := policies.Authorize(actorID, item.Property.UserID); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// Create stores the image, then inserts the item and its tags in one
// transaction.
func (s *MenuItemService) Create(ctx context.Context, actorID uint, in MenuItemInput) (models.MenuItem, error) {
	if _, err := ownedProperty(ctx, s.properties, actorID, in.PropertyID); err != nil {
		return models.MenuItem{}, err
	}

	item := models.MenuItem{
		PropertyID:  in.PropertyID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Status:      in.Status,
	}
	if item.Status == "" {
		item.Status = models.MenuEnabled
	}
	if err := fromModel(item.Validate()); err != nil {
		return models.MenuItem{}, err
	}
	tags, err := s.checkCategories(ctx, in.CategoryIDs)
	if err != nil {
		return models.MenuItem{}, err
	}

	o := owner{entity: "menu_item", userID: actorID}
	var keys []string
	if in.Image != nil {
		if keys, err = s.media.store(ctx, o, MenuImagesDir, []upload.File{*in.Image}); err != nil {
			return models.MenuItem{}, err
		}
		item.Image = &keys[0]
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.items.Create(ctx, &item); err != nil {
			return err
		}
		return s.items.AttachTags(ctx, item.ID, tags)
	})
	if err != nil {
		s.media.compensate(ctx, o, keys)
		return models.MenuItem{}, err
	}

	metrics.ObserveAttachments("menu_item", "added", len(keys))
	return s.items.Find(ctx, item.ID)
}

// Update applies the fields present in patch. Moving the item to another
// property requires owning that property too. A new image replaces the old
// one after the row is committed.
func (s *MenuItemService) Update(ctx context.Context, actorID, id uint, patch MenuItemPatch) (models.MenuItem, error) {
	item, err := s.Find(ctx, actorID, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	item.Property = nil

	if patch.PropertyID != nil && *patch.PropertyID != item.PropertyID {
		if _, err := ownedProperty(ctx, s.properties, actorID, *patch.PropertyID); err != nil {
			return models.MenuItem{}, err
		}
		item.PropertyID = *patch.PropertyID
	}
	setIfPresent(&item.Name, patch.Name)
	patch.Description.apply(&item.Description)
	setIfPresent(&item.Price, patch.Price)
	setIfPresent(&item.Status, patch.Status)

	if err := fromModel(item.Validate()); err != nil {
		return models.MenuItem{}, err
	}
	var tags []uint
	if patch.CategoryIDs != nil {
		if tags, err = s.checkCategories(ctx, *patch.CategoryIDs); err != nil {
			return models.MenuItem{}, err
		}
	}

	save := func(ctx context.Context) error {
		if err := s.items.Save(ctx, &item); err != nil {
			return err
		}
		if patch.CategoryIDs == nil {
			return nil
		}
		return s.syncTags(ctx, item.ID, tags)
	}

	if patch.Image == nil {
		if err := s.tx.Transaction(ctx, save); err != nil {
			return models.MenuItem{}, err
		}
		return s.items.Find(ctx, item.ID)
	}

	previous := item.Image
	o := owner{entity: "menu_item", entityID: item.ID, userID: actorID}
	_, err = s.media.replace(ctx, o, MenuImagesDir, *patch.Image, previous, func(ctx context.Context, key string) error {
		item.Image = &key
		return save(ctx)
	})
	if err != nil {
		return models.MenuItem{}, err
	}
	metrics.ObserveAttachments("menu_item", "added", 1)
	return s.items.Find(ctx, item.ID)
}

// ReplaceImage swaps the item's image.
func (s *MenuItemService) ReplaceImage(ctx context.Context, actorID, id uint, file upload.File) (models.MenuItem, error) {
	return s.Update(ctx, actorID, id, MenuItemPatch{Image: &file})
}

// SyncCategories makes the item's tags exactly categoryIDs.
func (s *MenuItemService) SyncCategories(ctx context.Context, actorID, id uint, categoryIDs []uint) (models.MenuItem, error) {
	if categoryIDs == nil {
		categoryIDs = []uint{}
	}
	return s.Update(ctx, actorID, id, MenuItemPatch{CategoryIDs: &categoryIDs})
}

// Delete removes the item and its tags, then its image. A failed blob delete
// is logged and queued for purge. Returns the item's property id.
func (s *MenuItemService) Delete(ctx context.Context, actorID, id uint) (uint, error) {
	item, err := s.Find(ctx, actorID, id)
	if err != nil {
		return 0, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.items.DetachTags(ctx, item.ID, nil); err != nil {
			return err
		}
		return s.items.Delete(ctx, item.ID)
	})
	if err != nil {
		return 0, err
	}
	if item.Image != nil {
		s.media.removeAll(ctx, blobsOf(owner{entity: "menu_item", entityID: item.ID, userID: actorID}, *item.Image))
		metrics.ObserveAttachments("menu_item", "deleted", 1)
	}
	return item.PropertyID, nil
}

// syncTags detaches the tags missing from want and attaches the new ones.
// Unchanged associations are not touched.
func (s *MenuItemService) syncTags(ctx context.Context, itemID uint, want []uint) error {
	current, err := s.items.TagIDs(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.items.DetachTags(ctx, itemID, collection.Diff(current, want)); err != nil {
		return err
	}
	return s.items.AttachTags(ctx, itemID, collection.Diff(want, current))
}

// checkCategories deduplicates ids and rejects unknown ones.
func (s *MenuItemService) checkCategories(ctx context.Context, ids []uint) ([]uint, error) {
	ids = collection.Unique(ids)
	if len(ids) == 0 {
		return []uint{}, nil
	}
	found, err := s.categories.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if missing := collection.Diff(ids, found); len(missing) > 0 {
		return nil, invalid("categories", "The selected categories is invalid.")
	}
	return ids, nil
}

// ownedProperty resolves a property_id field. Unknown and foreign ids both
// fail as unauthorized so neither reveals whether the property exists.
func ownedProperty(ctx context.Context, repo *repositories.PropertyRepository, actorID, propertyID uint) (models.Property, error) {
	if propertyID == 0 {
		return models.Property{}, invalid("property_id", "The property id field is required.")
	}
	p, err := repo.Find(ctx, propertyID)
	if err != nil {
		return models.Property{}, err
	}
	if err := policies.Authorize(actorID, p.UserID); err != nil {
		return models.Property{}, err
	}
	return p, nil
}
