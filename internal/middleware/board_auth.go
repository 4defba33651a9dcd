package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/strathausen/pleeboo/internal/database"
	apierrors "github.com/strathausen/pleeboo/internal/errors"
	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

const (
	// ContextKeyBoardID is where board-scoped middleware stores the
	// resolved owning board id.
	ContextKeyBoardID = "board_id"

	// SessionKeyID is the session key holding the anonymous session id
	// recorded as a board's creator.
	SessionKeyID = "board_session"
)

// TokenFromRequest extracts the capability token from the query string or
// the X-Board-Token header.
func TokenFromRequest(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.GetHeader("X-Board-Token")
}

// SessionID returns the caller's anonymous session id, or "" when the
// session middleware is absent or no id has been recorded.
func SessionID(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	session := sessions.Default(c)
	if v, ok := session.Get(SessionKeyID).(string); ok {
		return v
	}
	return ""
}

// EnsureSessionID returns the caller's session id, minting and saving one
// if the session exists but carries none yet.
func EnsureSessionID(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	session := sessions.Default(c)
	if v, ok := session.Get(SessionKeyID).(string); ok && v != "" {
		return v
	}
	sid := ids.NewToken()
	session.Set(SessionKeyID, sid)
	if err := session.Save(); err != nil {
		return ""
	}
	return sid
}

// RequireBoardAdmin gates board-scoped mutations: the :id route parameter
// (slug prefixes allowed) must be covered by an admin token or the owning
// session.
func RequireBoardAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID := ids.FromSlug(c.Param("id"))
		access := services.NewAccessService(repository.NewBoardRepository(database.GetDB()))

		if err := access.ValidateAdminAccess(boardID, TokenFromRequest(c), SessionID(c)); err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyBoardID, boardID)
		c.Next()
	}
}

// RequireSectionAdmin resolves the :id section to its owning board, then
// applies the same admin gate as RequireBoardAdmin.
func RequireSectionAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		repo := repository.NewBoardRepository(database.GetDB())
		boards := services.NewBoardService(repo)
		access := services.NewAccessService(repo)

		boardID, err := boards.OwningBoardIDForSection(c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrSectionNotFound) {
				apierrors.NotFound(c, "Section not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if err := access.ValidateAdminAccess(boardID, TokenFromRequest(c), SessionID(c)); err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyBoardID, boardID)
		c.Next()
	}
}

// RequireItemAdmin gates item mutations on the owning board's admin token.
func RequireItemAdmin() gin.HandlerFunc {
	return RequireItemAccess(false)
}

// RequireItemAccess resolves the :id item to its owning board and applies
// the admin gate. When allowOpen is true the token check is skipped
// entirely, so anyone holding the board link can pledge.
func RequireItemAccess(allowOpen bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		repo := repository.NewBoardRepository(database.GetDB())
		boards := services.NewBoardService(repo)
		access := services.NewAccessService(repo)

		boardID, err := boards.OwningBoardIDForItem(c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrItemNotFound) || errors.Is(err, services.ErrSectionNotFound) {
				apierrors.NotFound(c, "Item not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if !allowOpen {
			if err := access.ValidateAdminAccess(boardID, TokenFromRequest(c), SessionID(c)); err != nil {
				if errors.Is(err, services.ErrUnauthorized) {
					apierrors.Unauthorized(c, "")
				} else {
					apierrors.InternalError(c, "")
				}
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyBoardID, boardID)
		c.Next()
	}
}
