package store

import "time"

// Birthday is the persisted shape of a birthday record. The id is assigned at
// creation and immutable; gift suggestions are computed once at creation and
// never rewritten. There is no update operation.
type Birthday struct {
	ID              string    `gorm:"primarykey"`
	Name            string    `gorm:"not null"`
	Date            time.Time `gorm:"not null"`
	Relation        string
	Interests       []string `gorm:"serializer:json"`
	Email           string
	Notified        bool `gorm:"default:false"`
	GiftSuggestions string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
