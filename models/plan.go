// models/plan.go
package models

import "time"

// Plan is an investment product: pay Price once, receive DailyEarning every
// day for Validity days. Purchases snapshot Price and DailyEarning onto the
// investment row, so editing or deleting a plan never touches money already
// committed.
type Plan struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;not null"`
	Price        float64   `json:"price" gorm:"not null"`
	DailyEarning float64   `json:"daily_earning" gorm:"not null"`
	Validity     int       `json:"validity" gorm:"not null"` // days
	Description  string    `json:"description"`
	Features     []string  `json:"features" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
}
