package model

import "time"

// Category is a user defined grouping label for entries.
// Names are unique per owner.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_categories_user_name"`
	Image     string    `json:"image" gorm:"size:1024"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_categories_user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Entries []Entry `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
