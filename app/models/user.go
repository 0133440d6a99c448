package models

import "gorm.io/gorm"

// User is a property owner who signs in to the back office.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised

	Properties []Property `gorm:"foreignKey:UserID" json:"properties,omitempty"`
}
