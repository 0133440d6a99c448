package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/orm"
)

// GuestFilter narrows a guest list to one property.
type GuestFilter struct {
	PropertyID uint
	Search     string // guest_name or area_name
	Page       int
}

// GuestRecordRepository handles database operations for GuestRecord.
type GuestRecordRepository struct {
	db *gorm.DB
}

func NewGuestRecordRepository(db *gorm.DB) *GuestRecordRepository {
	return &GuestRecordRepository{db: db}
}

// Page returns one page of the property's guests ordered by guest name.
func (r *GuestRecordRepository) Page(ctx context.Context, f GuestFilter) ([]models.GuestRecord, orm.Pagination, error) {
	q := database.Conn(ctx, r.db).Model(&models.GuestRecord{}).
		Where("property_id = ?", f.PropertyID)
	q = orm.Search(q, f.Search, "guest_name", "area_name")
	q = q.Order("guest_name").Order("id")

	var out []models.GuestRecord
	page, err := orm.Paginate(q, f.Page, orm.PageSize, &out)
	return out, page, wrap("page guest records", err)
}

// Find loads a guest record with its property.
func (r *GuestRecordRepository) Find(ctx context.Context, id uint) (models.GuestRecord, error) {
	var g models.GuestRecord
	err := database.Conn(ctx, r.db).Preload("Property").First(&g, id).Error
	return g, wrap("find guest record", err)
}

// ListByProperty returns every guest record of a property.
func (r *GuestRecordRepository) ListByProperty(ctx context.Context, propertyID uint) ([]models.GuestRecord, error) {
	var out []models.GuestRecord
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Order("id").Find(&out).Error
	return out, wrap("list guest records", err)
}

// Create inserts g without touching associations.
func (r *GuestRecordRepository) Create(ctx context.Context, g *models.GuestRecord) error {
	return wrap("create guest record", database.Conn(ctx, r.db).Omit(clause.Associations).Create(g).Error)
}

// Save writes every column of g.
func (r *GuestRecordRepository) Save(ctx context.Context, g *models.GuestRecord) error {
	return wrap("save guest record", database.Conn(ctx, r.db).Omit(clause.Associations).Save(g).Error)
}

// Delete removes the guest record row.
func (r *GuestRecordRepository) Delete(ctx context.Context, id uint) error {
	return wrap("delete guest record", database.Conn(ctx, r.db).Delete(&models.GuestRecord{}, id).Error)
}

// DeleteByProperty removes every guest record of a property.
func (r *GuestRecordRepository) DeleteByProperty(ctx context.Context, propertyID uint) error {
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Delete(&models.GuestRecord{}).Error
	return wrap("delete guest records", err)
}
