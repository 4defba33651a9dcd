package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/strathausen/pleeboo/internal/errors"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

type ItemHandler struct {
	boards *services.BoardService
}

func NewItemHandler(boards *services.BoardService) *ItemHandler {
	return &ItemHandler{boards: boards}
}

// AddItem appends an item to a section.
func (h *ItemHandler) AddItem(c *gin.Context) {
	type AddItemRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Needed      int    `json:"needed"`
		ItemType    string `json:"item_type"`
		Unit        string `json:"unit"`
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.boards.AddItem(c.Param("id"), services.AddItemInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Needed:      req.Needed,
		ItemType:    models.ItemType(req.ItemType),
		Unit:        req.Unit,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSectionNotFound):
			apierrors.NotFound(c, "Section not found")
		case errors.Is(err, services.ErrTitleRequired),
			errors.Is(err, services.ErrInvalidNeeded),
			errors.Is(err, services.ErrInvalidItemType):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create item")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem applies a partial update to an item.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	type UpdateItemRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
		Needed      *int    `json:"needed"`
		ItemType    *string `json:"item_type"`
		Unit        *string `json:"unit"`
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	upd := repository.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Needed:      req.Needed,
		Unit:        req.Unit,
	}
	if req.ItemType != nil {
		itemType := models.ItemType(*req.ItemType)
		upd.ItemType = &itemType
	}

	item, err := h.boards.UpdateItem(c.Param("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			apierrors.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrEmptyUpdate),
			errors.Is(err, services.ErrTitleEmpty),
			errors.Is(err, services.ErrInvalidNeeded),
			errors.Is(err, services.ErrInvalidItemType):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem deletes an item, cascading to its volunteers.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.boards.DeleteItem(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			apierrors.NotFound(c, "Item not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// UpsertVolunteer writes the full field-set of a volunteer slot. Writing a
// blank name clears the slot; the response then carries a null volunteer.
func (h *ItemHandler) UpsertVolunteer(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid slot")
		return
	}

	type UpsertVolunteerRequest struct {
		Name     string   `json:"name"`
		Details  string   `json:"details"`
		Quantity *float64 `json:"quantity"`
	}

	var req UpsertVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	volunteer, err := h.boards.UpsertVolunteer(c.Param("id"), slot, repository.VolunteerFields{
		Name:     req.Name,
		Details:  req.Details,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			apierrors.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrSlotOutOfRange):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to save volunteer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"volunteer": volunteer})
}
