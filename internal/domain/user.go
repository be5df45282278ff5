package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey"`                    // Primary key
	Name     string `gorm:"size:255;uniqueIndex;not null"` // Unique username
	Password string `gorm:"size:255;not null"`             // Hashed password
}
