package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/orm"
)

// MenuFilter narrows a menu list to one property.
type MenuFilter struct {
	PropertyID  uint
	CategoryIDs []uint // any of
	Search      string // name or description
	Page        int
}

// MenuItemRepository handles database operations for MenuItem and its tags.
type MenuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

// Page returns one page of the property's menu ordered by name, with tags.
func (r *MenuItemRepository) Page(ctx context.Context, f MenuFilter) ([]models.MenuItem, orm.Pagination, error) {
	q := database.Conn(ctx, r.db).Model(&models.MenuItem{}).
		Where("property_id = ?", f.PropertyID)
	q = orm.Search(q, f.Search, "name", "description")
	if len(f.CategoryIDs) > 0 {
		q = q.Where("id IN (?)", database.Conn(ctx, r.db).
			Model(&models.MenuItemCategory{}).
			Select("restaurant_menu_item_id").
			Where("restaurant_category_id IN ?", f.CategoryIDs))
	}
	q = q.Order("name").Order("id")

	var items []models.MenuItem
	page, err := orm.Paginate(q, f.Page, orm.PageSize, &items)
	if err != nil {
		return nil, orm.Pagination{}, wrap("page menu items", err)
	}
	if err := r.LoadCategories(ctx, items); err != nil {
		return nil, orm.Pagination{}, err
	}
	return items, page, nil
}

// Find loads a menu item with its property and tags.
func (r *MenuItemRepository) Find(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	if err := database.Conn(ctx, r.db).Preload("Property").First(&item, id).Error; err != nil {
		return item, wrap("find menu item", err)
	}
	items := []models.MenuItem{item}
	if err := r.LoadCategories(ctx, items); err != nil {
		return item, err
	}
	return items[0], nil
}

// ListByProperty returns every menu item of a property, without tags.
func (r *MenuItemRepository) ListByProperty(ctx context.Context, propertyID uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Order("id").Find(&out).Error
	return out, wrap("list menu items", err)
}

// Create inserts item without touching associations.
func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return wrap("create menu item", database.Conn(ctx, r.db).Omit(clause.Associations).Create(item).Error)
}

// Save writes every column of item.
func (r *MenuItemRepository) Save(ctx context.Context, item *models.MenuItem) error {
	return wrap("save menu item", database.Conn(ctx, r.db).Omit(clause.Associations).Save(item).Error)
}

// Delete removes the menu item row.
func (r *MenuItemRepository) Delete(ctx context.Context, id uint) error {
	return wrap("delete menu item", database.Conn(ctx, r.db).Delete(&models.MenuItem{}, id).Error)
}

// DeleteByProperty removes every menu item row of a property.
func (r *MenuItemRepository) DeleteByProperty(ctx context.Context, propertyID uint) error {
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Delete(&models.MenuItem{}).Error
	return wrap("delete menu items", err)
}

// ─── Tags ─────────────────────────────────────────────────────────────────────

// TagIDs returns the category ids attached to a menu item.
func (r *MenuItemRepository) TagIDs(ctx context.Context, itemID uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).Model(&models.MenuItemCategory{}).
		Where("restaurant_menu_item_id = ?", itemID).
		Order("restaurant_category_id").
		Pluck("restaurant_category_id", &ids).Error
	return ids, wrap("list menu item tags", err)
}

// AttachTags adds associations; ids already attached are left alone.
func (r *MenuItemRepository) AttachTags(ctx context.Context, itemID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]models.MenuItemCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		rows[i] = models.MenuItemCategory{MenuItemID: itemID, CategoryID: id}
	}
	err := database.Conn(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	return wrap("attach menu item tags", err)
}

// DetachTags removes the given associations. A nil categoryIDs removes all.
func (r *MenuItemRepository) DetachTags(ctx context.Context, itemID uint, categoryIDs []uint) error {
	q := database.Conn(ctx, r.db).Where("restaurant_menu_item_id = ?", itemID)
	if categoryIDs != nil {
		if len(categoryIDs) == 0 {
			return nil
		}
		q = q.Where("restaurant_category_id IN ?", categoryIDs)
	}
	return wrap("detach menu item tags", q.Delete(&models.MenuItemCategory{}).Error)
}

// DetachTagsByProperty removes the associations of every menu item of a property.
func (r *MenuItemRepository) DetachTagsByProperty(ctx context.Context, propertyID uint) error {
	err := database.Conn(ctx, r.db).
		Where("restaurant_menu_item_id IN (?)", database.Conn(ctx, r.db).
			Model(&models.MenuItem{}).Select("id").Where("property_id = ?", propertyID)).
		Delete(&models.MenuItemCategory{}).Error
	return wrap("detach property menu tags", err)
}

// LoadCategories fills Categories on each item, ordered by category name.
func (r *MenuItemRepository) LoadCategories(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
		items[i].Categories = []models.Category{}
	}

	type row struct {
		MenuItemID uint
		models.Category
	}
	var rows []row
	err := database.Conn(ctx, r.db).
		Table("restaurant_categories").
		Select("restaurant_category_menu_items.restaurant_menu_item_id AS menu_item_id, restaurant_categories.*").
		Joins("JOIN restaurant_category_menu_items ON restaurant_category_menu_items.restaurant_category_id = restaurant_categories.id").
		Where("restaurant_category_menu_items.restaurant_menu_item_id IN ?", ids).
		Order("restaurant_categories.name").
		Scan(&rows).Error
	if err != nil {
		return wrap("load menu item categories", err)
	}

	index := make(map[uint]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}
	for _, rw := range rows {
		if i, ok := index[rw.MenuItemID]; ok {
			items[i].Categories = append(items[i].Categories, rw.Category)
		}
	}
	return nil
}
