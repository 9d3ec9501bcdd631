package todo

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/model"
	"github.com/rjoshi/todo-manager/services"
	"github.com/rjoshi/todo-manager/utils/middleware"
	"github.com/rjoshi/todo-manager/utils/response"
	"github.com/rjoshi/todo-manager/utils/validation"
	"gorm.io/gorm"
)

// TodoHandler handles todo list requests
type TodoHandler struct {
	todos     *services.TodoService
	validator *validation.Validator
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{
		todos:     services.NewTodoService(db),
		validator: validation.NewValidator(),
	}
}

// CreateRequest represents a new todo submission
type CreateRequest struct {
	Text string `json:"text" validate:"required,max=250"`
}

// CompleteRequest is the body form of the completion endpoint,
// kept for cross-origin clients that post an item ID
type CompleteRequest struct {
	ItemID uint `json:"item_id" validate:"required"`
}

// ListResponse groups the current user's items by completion state
type ListResponse struct {
	Incomplete []model.TodoItem `json:"incomplete"`
	Completed  []model.TodoItem `json:"completed"`
}

// List returns the current user's items, incomplete and completed
func (h *TodoHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	incomplete, err := h.todos.ListIncomplete(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load todo list")
	}

	completed, err := h.todos.ListCompleted(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load todo list")
	}

	return response.Success(c, ListResponse{
		Incomplete: incomplete,
		Completed:  completed,
	})
}

// Create appends a new item to the current user's list
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item, err := h.todos.Add(c.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrTextTooLong) {
			return response.BadRequest(c, "Todo text is too long")
		}
		return response.InternalServerError(c, "Failed to create todo")
	}

	return response.Created(c, item)
}

// Complete marks the item in the path as done
func (h *TodoHandler) Complete(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	return h.setComplete(c, uint(itemID), true)
}

// Reopen flips the item in the path back to incomplete
func (h *TodoHandler) Reopen(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	return h.setComplete(c, uint(itemID), false)
}

// CompleteByBody marks an item as done from a JSON body {item_id}.
// This is the cross-origin form of the completion endpoint.
func (h *TodoHandler) CompleteByBody(c *fiber.Ctx) error {
	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	return h.setComplete(c, req.ItemID, true)
}

func (h *TodoHandler) setComplete(c *fiber.Ctx, itemID uint, complete bool) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var err error
	if complete {
		err = h.todos.Complete(c.Context(), userID, itemID)
	} else {
		err = h.todos.Reopen(c.Context(), userID, itemID)
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrTodoNotFound):
			return response.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "Item belongs to another user")
		default:
			return response.InternalServerError(c, "An error occurred")
		}
	}

	return response.SuccessWithMessage(c, "Item updated", fiber.Map{
		"item_id":  itemID,
		"complete": complete,
	})
}
