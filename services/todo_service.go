package services

import (
	"context"
	"errors"

	"github.com/rjoshi/todo-manager/model"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound = errors.New("todo item not found")
	ErrNotOwner     = errors.New("todo item belongs to another user")
	ErrTextTooLong  = errors.New("todo text exceeds maximum length")
)

// TodoService persists todo items scoped to their owning user
type TodoService struct {
	db *gorm.DB
}

// NewTodoService creates a new todo service
func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

// Add creates a new incomplete item owned by userID.
// Text longer than the column width is rejected with ErrTextTooLong
// instead of being silently truncated at the storage boundary.
func (s *TodoService) Add(ctx context.Context, userID uint, text string) (*model.TodoItem, error) {
	if len(text) > model.MaxTodoTextLength {
		return nil, ErrTextTooLong
	}

	item := model.TodoItem{
		UserID:   userID,
		Text:     text,
		Complete: false,
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

// ListIncomplete returns the user's unfinished items in insertion order
func (s *TodoService) ListIncomplete(ctx context.Context, userID uint) ([]model.TodoItem, error) {
	return s.list(ctx, userID, false)
}

// ListCompleted returns the user's finished items in insertion order
func (s *TodoService) ListCompleted(ctx context.Context, userID uint) ([]model.TodoItem, error) {
	return s.list(ctx, userID, true)
}

func (s *TodoService) list(ctx context.Context, userID uint, complete bool) ([]model.TodoItem, error) {
	items := []model.TodoItem{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND complete = ?", userID, complete).
		Order("id ASC").
		Find(&items).
		Error
	return items, err
}

// Complete marks an item as done. The caller must own the item:
// ErrNotOwner is returned otherwise and the item is left untouched.
// Completing an already completed item is a no-op, not an error.
func (s *TodoService) Complete(ctx context.Context, callerID, itemID uint) error {
	return s.setComplete(ctx, callerID, itemID, true)
}

// Reopen flips a completed item back to incomplete, with the same
// ownership semantics as Complete.
func (s *TodoService) Reopen(ctx context.Context, callerID, itemID uint) error {
	return s.setComplete(ctx, callerID, itemID, false)
}

func (s *TodoService) setComplete(ctx context.Context, callerID, itemID uint, complete bool) error {
	var item model.TodoItem
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	if item.UserID != callerID {
		return ErrNotOwner
	}

	if item.Complete == complete {
		return nil
	}

	return s.db.WithContext(ctx).
		Model(&model.TodoItem{}).
		Where("id = ?", itemID).
		Update("complete", complete).
		Error
}
