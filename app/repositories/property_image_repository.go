package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
)

// PropertyImageRepository handles database operations for PropertyImage.
type PropertyImageRepository struct {
	db *gorm.DB
}

func NewPropertyImageRepository(db *gorm.DB) *PropertyImageRepository {
	return &PropertyImageRepository{db: db}
}

// Find loads one image with its property.
func (r *PropertyImageRepository) Find(ctx context.Context, id uint) (models.PropertyImage, error) {
	var img models.PropertyImage
	err := database.Conn(ctx, r.db).Preload("Property").First(&img, id).Error
	return img, wrap("find property image", err)
}

// ListByProperty returns the images of a property in upload order.
func (r *PropertyImageRepository) ListByProperty(ctx context.Context, propertyID uint) ([]models.PropertyImage, error) {
	var out []models.PropertyImage
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Order("id").Find(&out).Error
	return out, wrap("list property images", err)
}

// FindOwnedBy returns the images among ids that belong to propertyID.
// Other ids are silently left out.
func (r *PropertyImageRepository) FindOwnedBy(ctx context.Context, propertyID uint, ids []uint) ([]models.PropertyImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.PropertyImage
	err := database.Conn(ctx, r.db).
		Where("property_id = ? AND id IN ?", propertyID, ids).
		Order("id").
		Find(&out).Error
	return out, wrap("find property images", err)
}

// CreateMany inserts images in one statement.
func (r *PropertyImageRepository) CreateMany(ctx context.Context, images []models.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	return wrap("create property images", database.Conn(ctx, r.db).Omit("Property").Create(&images).Error)
}

// Delete removes one image row.
func (r *PropertyImageRepository) Delete(ctx context.Context, id uint) error {
	return wrap("delete property image", database.Conn(ctx, r.db).Delete(&models.PropertyImage{}, id).Error)
}

// DeleteByProperty removes every image row of a property.
func (r *PropertyImageRepository) DeleteByProperty(ctx context.Context, propertyID uint) error {
	err := database.Conn(ctx, r.db).Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error
	return wrap("delete property images", err)
}
