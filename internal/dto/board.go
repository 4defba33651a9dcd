package dto

import (
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/services"
)

// TokenPairDTO carries a board's freshly minted capability tokens. Token
// values appear in API responses only at mint time.
type TokenPairDTO struct {
	AdminToken string `json:"admin_token"`
	ViewToken  string `json:"view_token"`
}

// BoardCreatedDTO is the response to board creation.
type BoardCreatedDTO struct {
	Board  models.Board `json:"board"`
	Tokens TokenPairDTO `json:"tokens"`
}

// AccessDTO reports the caller's access level on a board.
type AccessDTO struct {
	Level services.AccessLevel `json:"level"`
}

// SuggestionsDTO is the response of the suggestion batch-applier. Success
// is false both for already-populated boards and failed generations.
type SuggestionsDTO struct {
	Success  bool             `json:"success"`
	Reason   string           `json:"reason,omitempty"`
	Sections []models.Section `json:"sections"`
}

// ToTokenPairDTO picks the admin and view values out of minted token rows.
func ToTokenPairDTO(tokens []models.AccessToken) TokenPairDTO {
	var pair TokenPairDTO
	for _, t := range tokens {
		switch t.Type {
		case models.TokenTypeAdmin:
			pair.AdminToken = t.ID
		case models.TokenTypeView:
			pair.ViewToken = t.ID
		}
	}
	return pair
}
