package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"gorm.io/gorm"
)

// AccessLevel is the caller's capability on a board.
type AccessLevel string

const (
	AccessAdmin AccessLevel = "admin"
	AccessView  AccessLevel = "view"
	AccessNone  AccessLevel = "none"
)

var (
	ErrUnauthorized = errors.New("missing, invalid, or expired admin token")
)

// AccessService evaluates capability tokens. Boards are unauthenticated by
// default; possession of the opaque admin token string is the only gate on
// mutation, with the board's owning session as an optional second path.
type AccessService struct {
	repo repository.BoardRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(repo repository.BoardRepository) *AccessService {
	return &AccessService{repo: repo}
}

// MintTokenPair creates the admin/view token pair for a board. Rows are
// returned unpersisted so board creation can insert them in its own
// transaction.
func (s *AccessService) MintTokenPair(boardID string) []models.AccessToken {
	return []models.AccessToken{
		{ID: ids.NewToken(), BoardID: boardID, Type: models.TokenTypeAdmin},
		{ID: ids.NewToken(), BoardID: boardID, Type: models.TokenTypeView},
	}
}

// ValidateAdminToken fails with ErrUnauthorized unless token is the current
// unexpired admin token of exactly this board.
func (s *AccessService) ValidateAdminToken(boardID, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	row, err := s.repo.FindToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if row.BoardID != boardID || row.Type != models.TokenTypeAdmin || row.Expired(time.Now()) {
		return ErrUnauthorized
	}
	return nil
}

// ValidateAdminAccess is ValidateAdminToken plus the owning-session check:
// the session that created a board holds implicit admin on it.
func (s *AccessService) ValidateAdminAccess(boardID, token, sessionID string) error {
	if sessionID != "" {
		board, err := s.repo.FindBoard(boardID)
		if err == nil && board.CreatedBy != "" && board.CreatedBy == sessionID {
			return nil
		}
	}
	return s.ValidateAdminToken(boardID, token)
}

// Evaluate is the read-only variant clients use to learn their access
// level. It never fails; unknown tokens simply yield AccessNone.
func (s *AccessService) Evaluate(boardID, token, sessionID string) AccessLevel {
	if sessionID != "" {
		board, err := s.repo.FindBoard(boardID)
		if err == nil && board.CreatedBy != "" && board.CreatedBy == sessionID {
			return AccessAdmin
		}
	}

	if token == "" {
		return AccessNone
	}

	row, err := s.repo.FindToken(token)
	if err != nil || row.BoardID != boardID || row.Expired(time.Now()) {
		return AccessNone
	}

	switch row.Type {
	case models.TokenTypeAdmin:
		return AccessAdmin
	case models.TokenTypeView:
		return AccessView
	}
	return AccessNone
}

// CurrentTokens returns a board's token pair so an admin can re-surface
// share links without rotating them.
func (s *AccessService) CurrentTokens(boardID string) ([]models.AccessToken, error) {
	if _, err := s.repo.FindBoard(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	tokens, err := s.repo.TokensForBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// RegenerateTokens mints a fresh token pair for a board and atomically
// replaces the old rows, invalidating every previously issued token.
func (s *AccessService) RegenerateTokens(boardID string) (admin, view *models.AccessToken, err error) {
	if _, err := s.repo.FindBoard(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBoardNotFound
		}
		return nil, nil, fmt.Errorf("failed to find board: %w", err)
	}

	tokens := s.MintTokenPair(boardID)
	if err := s.repo.ReplaceTokens(boardID, tokens); err != nil {
		return nil, nil, fmt.Errorf("failed to replace tokens: %w", err)
	}
	return &tokens[0], &tokens[1], nil
}
