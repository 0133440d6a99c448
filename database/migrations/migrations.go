// Package migrations holds the schema history of the back office. Each
// migration registers itself from init(); cmd/staydesk imports the package
// for that side effect.
package migrations

import (
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/migration"
	"github.com/staydesk/staydesk/pkg/queue"
)

func init() {
	migration.Register("20250101000000_create_users_table", &table{model: &models.User{}, name: "users"})
	migration.Register("20250101000001_create_properties_table", &table{model: &models.Property{}, name: "properties"})
	migration.Register("20250101000002_create_property_images_table", &table{model: &models.PropertyImage{}, name: "property_images"})
	migration.Register("20250101000003_create_restaurant_categories_table", &table{model: &models.Category{}, name: "restaurant_categories"})
	migration.Register("20250101000004_create_restaurant_menu_items_table", &table{model: &models.MenuItem{}, name: "restaurant_menu_items"})
	migration.Register("20250101000005_create_restaurant_category_menu_items_table", &table{model: &models.MenuItemCategory{}, name: "restaurant_category_menu_items"})
	migration.Register("20250101000006_create_tv_managers_table", &table{model: &models.GuestRecord{}, name: "tv_managers"})
	migration.Register("20250101000007_create_failed_jobs_table", &table{model: &queue.FailedJob{}, name: "failed_jobs"})
}

// table creates one model's table on Up and drops it on Down. Tables it
// references must already exist from earlier migrations.
type table struct {
	model interface{}
	name  string
}

func (t *table) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(t.model)
}

func (t *table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(t.name)
}
