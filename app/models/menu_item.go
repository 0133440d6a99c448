package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// MenuStatus controls whether a menu item is offered.
type MenuStatus string

const (
	MenuEnabled  MenuStatus = "enabled"
	MenuDisabled MenuStatus = "disabled"
)

// MenuItem is a dish on a property's restaurant menu.
type MenuItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PropertyID  uint       `gorm:"not null;index" json:"property_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	Image       *string    `gorm:"size:255" json:"image"`
	Price       float64    `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Status      MenuStatus `gorm:"size:20;not null;default:enabled" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Property   *Property  `gorm:"constraint:OnDelete:CASCADE" json:"property,omitempty"`
	Categories []Category `gorm:"-" json:"categories"`
}

// TableName keeps the table name of the original schema.
func (MenuItem) TableName() string { return "restaurant_menu_items" }

// Validate checks the domain invariants of a menu item.
func (m MenuItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PropertyID, validation.Required),
		validation.Field(&m.Name, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&m.Image, validation.RuneLength(0, 255)),
		validation.Field(&m.Price, validation.Min(0.0), validation.Max(99999999.99)),
		validation.Field(&m.Status, validation.Required, validation.In(MenuEnabled, MenuDisabled)),
	)
}

// MenuItemCategory is one tag association. The composite primary key makes
// a duplicate assignment impossible.
type MenuItemCategory struct {
	MenuItemID uint      `gorm:"column:restaurant_menu_item_id;primaryKey;autoIncrement:false"`
	CategoryID uint      `gorm:"column:restaurant_category_id;primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (MenuItemCategory) TableName() string { return "restaurant_category_menu_items" }
