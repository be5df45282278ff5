package domain

// MaxNameLength is the character limit of the size:255 name columns
const MaxNameLength = 255

// Vegetable Model
type Vegetable struct {
	ID         uint    `gorm:"primaryKey" json:"id"`          // Primary key
	Name       string  `gorm:"size:255;not null" json:"name"` // Vegetable name
	Quantity   int     `gorm:"not null" json:"quantity"`      // Units in stock
	Price      float64 `gorm:"not null" json:"price"`         // Unit price
	TotalValue float64 `gorm:"not null" json:"total_value"`   // Quantity * Price, kept in sync on every write
}

// ComputeTotalValue returns quantity * price as stored in TotalValue
func ComputeTotalValue(quantity int, price float64) float64 {
	return float64(quantity) * price
}
