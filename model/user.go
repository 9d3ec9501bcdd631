package model

import (
	"time"
)

// User represents a registered user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string    `gorm:"not null;size:40" json:"name"`

	// Relationships
	Todos           []TodoItem       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RevokedSessions []RevokedSession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
