package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strathausen/pleeboo/internal/dto"
	apierrors "github.com/strathausen/pleeboo/internal/errors"
	"github.com/strathausen/pleeboo/internal/middleware"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/services"
)

type SuggestionHandler struct {
	suggestions *services.SuggestionService
}

func NewSuggestionHandler(suggestions *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// GenerateSuggestions populates an empty board from its title, description
// and prompt. A board that already has sections gets a no-op response; a
// failed or empty generation is a soft failure, never a partial insert.
func (h *SuggestionHandler) GenerateSuggestions(c *gin.Context) {
	boardID := c.GetString(middleware.ContextKeyBoardID)

	result, err := h.suggestions.Apply(c.Request.Context(), boardID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBoardNotFound):
			apierrors.NotFound(c, "Board not found")
		case errors.Is(err, services.ErrSuggestionsNotConfigured):
			apierrors.ServiceUnavailable(c, "Suggestions are not configured")
		case errors.Is(err, services.ErrNoSuggestions):
			c.JSON(http.StatusOK, dto.SuggestionsDTO{
				Success:  false,
				Reason:   "no suggestions",
				Sections: []models.Section{},
			})
		default:
			apierrors.InternalError(c, "Failed to generate suggestions")
		}
		return
	}

	if !result.Applied {
		c.JSON(http.StatusOK, dto.SuggestionsDTO{
			Success:  false,
			Reason:   result.Reason,
			Sections: []models.Section{},
		})
		return
	}

	c.JSON(http.StatusOK, dto.SuggestionsDTO{
		Success:  true,
		Sections: result.Sections,
	})
}
