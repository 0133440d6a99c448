package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
)

// PropertyRepository handles database operations for Property.
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// ListByOwner returns the owner's properties with their images, newest first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Property, error) {
	var out []models.Property
	err := database.Conn(ctx, r.db).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, wrap("list properties", err)
}

// OptionsByOwner returns id, name and hotel_category of the owner's
// properties ordered by name, for pickers and the user-properties endpoint.
func (r *PropertyRepository) OptionsByOwner(ctx context.Context, userID uint) ([]models.Property, error) {
	var out []models.Property
	err := database.Conn(ctx, r.db).
		Select("id", "user_id", "name", "hotel_category").
		Where("user_id = ?", userID).
		Order("name").Order("id").
		Find(&out).Error
	return out, wrap("list property options", err)
}

// Find loads a property by id.
func (r *PropertyRepository) Find(ctx context.Context, id uint) (models.Property, error) {
	var p models.Property
	err := database.Conn(ctx, r.db).First(&p, id).Error
	return p, wrap("find property", err)
}

// FindWithImages loads a property and its images.
func (r *PropertyRepository) FindWithImages(ctx context.Context, id uint) (models.Property, error) {
	var p models.Property
	err := database.Conn(ctx, r.db).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&p, id).Error
	return p, wrap("find property", err)
}

// Create inserts p without touching associations.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	return wrap("create property", database.Conn(ctx, r.db).Omit(clause.Associations).Create(p).Error)
}

// Save writes every column of p.
func (r *PropertyRepository) Save(ctx context.Context, p *models.Property) error {
	return wrap("save property", database.Conn(ctx, r.db).Omit(clause.Associations).Save(p).Error)
}

// Delete removes the property row.
func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	return wrap("delete property", database.Conn(ctx, r.db).Delete(&models.Property{}, id).Error)
}
