package models

import "time"

// Category is a restaurant menu tag such as "Dessert".
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "restaurant_categories" }

// DefaultCategories is the seeded tag list.
var DefaultCategories = []string{
	"Main Course", "Appetizer", "Dessert", "Beverage", "Snack",
	"Breakfast", "Lunch", "Dinner", "Salad", "Soup",
	"Side Dish", "Kids Menu", "Vegetarian", "Vegan", "Seafood",
	"Grill", "Pasta", "Pizza", "Asian", "Western", "Other",
}
