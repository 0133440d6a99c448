package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/cache"
	"github.com/staydesk/staydesk/pkg/database"
)

// CategoriesCacheKey holds the ordered category list. Seeders forget it.
const CategoriesCacheKey = "staydesk:categories:all"

const categoriesTTL = time.Hour

// CategoryRepository reads the restaurant category list.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns every category ordered by name. The list is cached.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := cache.Remember(ctx, CategoriesCacheKey, categoriesTTL, &out, func() ([]models.Category, error) {
		var rows []models.Category
		err := database.Conn(ctx, r.db).Order("name").Find(&rows).Error
		return rows, err
	})
	return out, wrap("list categories", err)
}

// ExistingIDs returns the subset of ids that name a category.
func (r *CategoryRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := database.Conn(ctx, r.db).Model(&models.Category{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, wrap("check categories", err)
}

// Seed inserts every missing name and drops the cached list.
func (r *CategoryRepository) Seed(ctx context.Context, names []string) error {
	conn := database.Conn(ctx, r.db)
	for _, name := range names {
		c := models.Category{Name: name}
		if err := conn.Where(models.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
			return wrap("seed category", err)
		}
	}
	_ = cache.Forget(ctx, CategoriesCacheKey)
	return nil
}
