package models

// Category classifies work/material components and bookkeeping entries
// for the EÜR statement. (name, type) pairs are unique.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex:idx_category_name_type" json:"name"`
	Type string `gorm:"not null;uniqueIndex:idx_category_name_type" json:"type"`
}
