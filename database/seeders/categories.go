package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/repositories"
)

func init() {
	Register("restaurant_categories", SeedCategories)
}

// SeedCategories inserts the default restaurant categories. Running it
// twice adds nothing.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	return repositories.NewCategoryRepository(db).Seed(ctx, models.DefaultCategories)
}
