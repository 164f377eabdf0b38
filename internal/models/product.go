package models

import "time"

// ProductType distinguishes stock cards from made-to-order work.
type ProductType string

const (
	ProductReadymade    ProductType = "READYMADE"
	ProductPersonalized ProductType = "PERSONALIZED"
)

// Product is a named, priced template used to pre-fill invoice line items.
// It carries no derived state and outlives any invoice referencing it.
type Product struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null;index" json:"name"`
	Type        ProductType `gorm:"size:20;not null;default:'READYMADE'" json:"type"`
	Price       float64     `gorm:"not null" json:"price"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}
