package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/strathausen/pleeboo/internal/errors"
	"github.com/strathausen/pleeboo/internal/middleware"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

type SectionHandler struct {
	boards *services.BoardService
}

func NewSectionHandler(boards *services.BoardService) *SectionHandler {
	return &SectionHandler{boards: boards}
}

// AddSection appends a section to the board. Inserts always append: the new
// sort order is max(existing)+1.
func (h *SectionHandler) AddSection(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	type AddSectionRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	var req AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	section, err := h.boards.AddSection(boardID, services.AddSectionInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBoardNotFound):
			apierrors.NotFound(c, "Board not found")
		case errors.Is(err, services.ErrTitleRequired):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create section")
		}
		return
	}

	c.JSON(http.StatusCreated, section)
}

// UpdateSection applies a partial update to a section.
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	type UpdateSectionRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	}

	var req UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	section, err := h.boards.UpdateSection(c.Param("id"), repository.SectionUpdate{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSectionNotFound):
			apierrors.NotFound(c, "Section not found")
		case errors.Is(err, services.ErrEmptyUpdate), errors.Is(err, services.ErrTitleEmpty):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update section")
		}
		return
	}

	c.JSON(http.StatusOK, section)
}

// DeleteSection deletes a section, cascading to its items and volunteers.
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	if err := h.boards.DeleteSection(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrSectionNotFound) {
			apierrors.NotFound(c, "Section not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Section deleted"})
}

// ReorderSections rewrites the board's section order to the given id
// sequence. Ids not belonging to the board are ignored.
func (h *SectionHandler) ReorderSections(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	type ReorderRequest struct {
		SectionIDs []string `json:"section_ids" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.boards.ReorderSections(boardID, req.SectionIDs); err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, "Board not found")
			return
		}
		apierrors.InternalError(c, "Failed to reorder sections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sections reordered"})
}
