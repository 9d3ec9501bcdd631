package model

import (
	"time"
)

// MaxTodoTextLength is the widest text the todo_list column accepts.
const MaxTodoTextLength = 250

// TodoItem represents a single to-do entry owned by a user.
type TodoItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"not null;size:250" json:"text"`
	Complete  bool      `gorm:"not null;default:false" json:"complete"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for TodoItem
func (TodoItem) TableName() string {
	return "todo_list"
}
