package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single financial transaction. Negative values are expenses.
type Entry struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Date        Date            `json:"date" gorm:"type:date;not null;index"`
	Value       decimal.Decimal `json:"value" gorm:"type:decimal(20,2);not null"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
