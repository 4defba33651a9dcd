package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strathausen/pleeboo/internal/dto"
	apierrors "github.com/strathausen/pleeboo/internal/errors"
	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/middleware"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

type BoardHandler struct {
	boards *services.BoardService
	access *services.AccessService
}

func NewBoardHandler(boards *services.BoardService, access *services.AccessService) *BoardHandler {
	return &BoardHandler{
		boards: boards,
		access: access,
	}
}

// CreateBoard creates a board and returns it with its freshly minted
// admin/view token pair. No authentication required.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	type CreateBoardRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Prompt      string `json:"prompt"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, tokens, err := h.boards.CreateBoard(services.CreateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Prompt:      req.Prompt,
		SessionID:   middleware.EnsureSessionID(c),
	}, h.access)
	if err != nil {
		if errors.Is(err, services.ErrTitleRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, dto.BoardCreatedDTO{
		Board:  *board,
		Tokens: dto.ToTokenPairDTO(tokens),
	})
}

// GetBoard returns the full board tree. Reads are public.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.boards.GetBoard(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, "Board not found")
			return
		}
		apierrors.InternalError(c, "Failed to load board")
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetAccess reports the caller's access level on a board. Never fails for
// bad tokens; unknown tokens simply yield "none".
func (h *BoardHandler) GetAccess(c *gin.Context) {
	boardID := ids.FromSlug(c.Param("id"))
	level := h.access.Evaluate(boardID, middleware.TokenFromRequest(c), middleware.SessionID(c))
	c.JSON(http.StatusOK, dto.AccessDTO{Level: level})
}

// GetTokens re-surfaces the current token pair to an admin, so share links
// can be shown again without rotating them.
func (h *BoardHandler) GetTokens(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	tokens, err := h.access.CurrentTokens(boardID)
	if err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, "Board not found")
			return
		}
		apierrors.InternalError(c, "Failed to load tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenPairDTO(tokens))
}

// RegenerateTokens mints a fresh token pair, invalidating all previously
// issued tokens of the board.
func (h *BoardHandler) RegenerateTokens(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	admin, view, err := h.access.RegenerateTokens(boardID)
	if err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, "Board not found")
			return
		}
		apierrors.InternalError(c, "Failed to regenerate tokens")
		return
	}

	c.JSON(http.StatusOK, dto.TokenPairDTO{
		AdminToken: admin.ID,
		ViewToken:  view.ID,
	})
}

// UpdateBoard applies a partial update to the board.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	type UpdateBoardRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Prompt      *string `json:"prompt"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boards.UpdateBoard(boardID, repository.BoardUpdate{
		Title:       req.Title,
		Description: req.Description,
		Prompt:      req.Prompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBoardNotFound):
			apierrors.NotFound(c, "Board not found")
		case errors.Is(err, services.ErrEmptyUpdate), errors.Is(err, services.ErrTitleEmpty):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update board")
		}
		return
	}

	c.JSON(http.StatusOK, board)
}

// DeleteBoard deletes the board, cascading to sections, items, volunteers,
// and access tokens.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	if err := h.boards.DeleteBoard(boardID); err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, "Board not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}
