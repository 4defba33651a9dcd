package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/strathausen/pleeboo/internal/dto"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

type BoardHandlerTestSuite struct {
	handlerTestSuite
}

func (s *BoardHandlerTestSuite) TestCreateBoard_Success() {
	w := s.request(http.MethodPost, "/api/boards", "", gin.H{
		"title":       "Summer Picnic",
		"description": "Annual company picnic",
		"prompt":      "outdoor food and games",
	})
	s.Equal(http.StatusCreated, w.Code)

	var resp dto.BoardCreatedDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(strings.HasPrefix(resp.Board.ID, "brd_"))
	s.Equal("Summer Picnic", resp.Board.Title)
	s.Equal("Annual company picnic", resp.Board.Description)

	// Both tokens are minted with the board, and they differ.
	s.Len(resp.Tokens.AdminToken, 48)
	s.Len(resp.Tokens.ViewToken, 48)
	s.NotEqual(resp.Tokens.AdminToken, resp.Tokens.ViewToken)
	s.Equal(int64(2), s.count(&models.AccessToken{}, "board_id = ?", resp.Board.ID))
}

func (s *BoardHandlerTestSuite) TestCreateBoard_MissingTitle() {
	w := s.request(http.MethodPost, "/api/boards", "", gin.H{"description": "no title"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(int64(0), s.count(&models.Board{}, "1 = 1"))
}

func (s *BoardHandlerTestSuite) TestGetBoard_FullTree() {
	board, _ := s.createTestBoard("Potluck")
	food := s.createTestSection(board.ID, "Food")
	s.createTestSection(board.ID, "Drinks")
	salad := s.createTestItem(food.ID, "Salad")
	s.createTestItem(food.ID, "Bread")
	s.createTestVolunteer(salad.ID, 2, "Charlie")
	s.createTestVolunteer(salad.ID, 0, "Ana")

	w := s.request(http.MethodGet, "/api/boards/"+board.ID, "", nil)
	s.Equal(http.StatusOK, w.Code)

	var got models.Board
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().Len(got.Sections, 2)
	s.Equal("Food", got.Sections[0].Title)
	s.Equal("Drinks", got.Sections[1].Title)

	// Items keep insertion order, volunteers come back slot-ascending.
	s.Require().Len(got.Sections[0].Items, 2)
	s.Equal("Salad", got.Sections[0].Items[0].Title)
	s.Equal("Bread", got.Sections[0].Items[1].Title)
	volunteers := got.Sections[0].Items[0].Volunteers
	s.Require().Len(volunteers, 2)
	s.Equal(0, volunteers[0].Slot)
	s.Equal("Ana", volunteers[0].Name)
	s.Equal(2, volunteers[1].Slot)
	s.Equal("Charlie", volunteers[1].Name)

	s.Empty(got.Sections[1].Items)
}

func (s *BoardHandlerTestSuite) TestGetBoard_SlugPrefix() {
	board, _ := s.createTestBoard("Summer Picnic")

	w := s.request(http.MethodGet, "/api/boards/summer-picnic-"+board.ID, "", nil)
	s.Equal(http.StatusOK, w.Code)

	var got models.Board
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(board.ID, got.ID)
}

func (s *BoardHandlerTestSuite) TestGetBoard_NotFound() {
	w := s.request(http.MethodGet, "/api/boards/brd_000000000000000000000000", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BoardHandlerTestSuite) TestGetAccess_Levels() {
	board, tokens := s.createTestBoard("Potluck")
	_, otherTokens := s.createTestBoard("Other Board")

	cases := []struct {
		name  string
		token string
		want  services.AccessLevel
	}{
		{"admin token", tokens.AdminToken, services.AccessAdmin},
		{"view token", tokens.ViewToken, services.AccessView},
		{"no token", "", services.AccessNone},
		{"garbage token", "not-a-real-token", services.AccessNone},
		{"token of another board", otherTokens.AdminToken, services.AccessNone},
	}
	for _, tc := range cases {
		w := s.request(http.MethodGet, "/api/boards/"+board.ID+"/access", tc.token, nil)
		s.Equal(http.StatusOK, w.Code, tc.name)

		var resp dto.AccessDTO
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), tc.name)
		s.Equal(tc.want, resp.Level, tc.name)
	}
}

func (s *BoardHandlerTestSuite) TestGetAccess_ExpiredToken() {
	board, _ := s.createTestBoard("Potluck")
	expired := time.Now().Add(-time.Hour)
	token := models.AccessToken{
		ID:        "expiredexpiredexpiredexpiredexpiredexpired123456",
		BoardID:   board.ID,
		Type:      models.TokenTypeAdmin,
		ExpiresAt: &expired,
	}
	s.Require().NoError(s.db.Create(&token).Error)

	w := s.request(http.MethodGet, "/api/boards/"+board.ID+"/access", token.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	var resp dto.AccessDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(services.AccessNone, resp.Level)

	// And the expired token cannot mutate either.
	w = s.request(http.MethodPatch, "/api/boards/"+board.ID, token.ID, gin.H{"title": "Hacked"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_Success() {
	board, tokens := s.createTestBoard("Potluck")

	// The token may also travel in the query string.
	w := s.request(http.MethodPatch, "/api/boards/"+board.ID+"?token="+tokens.AdminToken, "", gin.H{
		"title": "Winter Potluck",
	})
	s.Equal(http.StatusOK, w.Code)

	var got models.Board
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("Winter Potluck", got.Title)

	fresh, err := s.repo.FindBoard(board.ID)
	s.Require().NoError(err)
	s.Equal("Winter Potluck", fresh.Title)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_PartialKeepsOtherFields() {
	board, tokens := s.createTestBoard("Potluck")
	desc := "bring a dish"
	_, err := s.boards.UpdateBoard(board.ID, repository.BoardUpdate{Description: &desc})
	s.Require().NoError(err)

	w := s.request(http.MethodPatch, "/api/boards/"+board.ID, tokens.AdminToken, gin.H{"title": "New Title"})
	s.Equal(http.StatusOK, w.Code)

	fresh, err := s.repo.FindBoard(board.ID)
	s.Require().NoError(err)
	s.Equal("New Title", fresh.Title)
	s.Equal("bring a dish", fresh.Description)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_ViewTokenRejected() {
	board, tokens := s.createTestBoard("Potluck")

	w := s.request(http.MethodPatch, "/api/boards/"+board.ID, tokens.ViewToken, gin.H{"title": "Nope"})
	s.Equal(http.StatusUnauthorized, w.Code)

	fresh, err := s.repo.FindBoard(board.ID)
	s.Require().NoError(err)
	s.Equal("Potluck", fresh.Title)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_NoToken() {
	board, _ := s.createTestBoard("Potluck")

	w := s.request(http.MethodPatch, "/api/boards/"+board.ID, "", gin.H{"title": "Nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_EmptyUpdate() {
	board, tokens := s.createTestBoard("Potluck")

	w := s.request(http.MethodPatch, "/api/boards/"+board.ID, tokens.AdminToken, gin.H{})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_BlankTitle() {
	board, tokens := s.createTestBoard("Potluck")

	w := s.request(http.MethodPatch, "/api/boards/"+board.ID, tokens.AdminToken, gin.H{"title": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BoardHandlerTestSuite) TestUpdateBoard_UnknownBoard() {
	_, tokens := s.createTestBoard("Potluck")

	w := s.request(http.MethodPatch, "/api/boards/brd_000000000000000000000000", tokens.AdminToken, gin.H{"title": "X"})
	s.Equal(http.StatusUnauthorized, w.Code, "a token never covers a different board id")
}

func (s *BoardHandlerTestSuite) TestGetTokens_AdminOnly() {
	board, tokens := s.createTestBoard("Potluck")

	w := s.request(http.MethodGet, "/api/boards/"+board.ID+"/tokens", tokens.AdminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	var pair dto.TokenPairDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pair))
	s.Equal(tokens.AdminToken, pair.AdminToken)
	s.Equal(tokens.ViewToken, pair.ViewToken)

	// Viewers never see token values after mint time.
	w = s.request(http.MethodGet, "/api/boards/"+board.ID+"/tokens", tokens.ViewToken, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BoardHandlerTestSuite) TestRegenerateTokens_InvalidatesOldPair() {
	board, old := s.createTestBoard("Potluck")

	w := s.request(http.MethodPost, "/api/boards/"+board.ID+"/tokens", old.AdminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	var fresh dto.TokenPairDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fresh))
	s.NotEqual(old.AdminToken, fresh.AdminToken)
	s.NotEqual(old.ViewToken, fresh.ViewToken)

	// Exactly one pair remains.
	s.Equal(int64(2), s.count(&models.AccessToken{}, "board_id = ?", board.ID))

	// The old admin token is dead, the new one works.
	w = s.request(http.MethodPatch, "/api/boards/"+board.ID, old.AdminToken, gin.H{"title": "X"})
	s.Equal(http.StatusUnauthorized, w.Code)
	w = s.request(http.MethodPatch, "/api/boards/"+board.ID, fresh.AdminToken, gin.H{"title": "Renamed"})
	s.Equal(http.StatusOK, w.Code)

	// The old view token no longer grants anything.
	w = s.request(http.MethodGet, "/api/boards/"+board.ID+"/access", old.ViewToken, nil)
	var access dto.AccessDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &access))
	s.Equal(services.AccessNone, access.Level)
}

func (s *BoardHandlerTestSuite) TestDeleteBoard_Cascades() {
	board, tokens := s.createTestBoard("Potluck")
	section := s.createTestSection(board.ID, "Food")
	item := s.createTestItem(section.ID, "Salad")
	s.createTestVolunteer(item.ID, 0, "Ana")

	w := s.request(http.MethodDelete, "/api/boards/"+board.ID, tokens.AdminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	s.Equal(int64(0), s.count(&models.Board{}, "id = ?", board.ID))
	s.Equal(int64(0), s.count(&models.Section{}, "board_id = ?", board.ID))
	s.Equal(int64(0), s.count(&models.Item{}, "section_id = ?", section.ID))
	s.Equal(int64(0), s.count(&models.Volunteer{}, "item_id = ?", item.ID))
	s.Equal(int64(0), s.count(&models.AccessToken{}, "board_id = ?", board.ID))

	w = s.request(http.MethodGet, "/api/boards/"+board.ID, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BoardHandlerTestSuite) TestDeleteBoard_DoesNotTouchOtherBoards() {
	victim, victimTokens := s.createTestBoard("Victim")
	bystander, _ := s.createTestBoard("Bystander")
	s.createTestSection(bystander.ID, "Keep Me")

	w := s.request(http.MethodDelete, "/api/boards/"+victim.ID, victimTokens.AdminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	s.Equal(int64(1), s.count(&models.Section{}, "board_id = ?", bystander.ID))
	s.Equal(int64(2), s.count(&models.AccessToken{}, "board_id = ?", bystander.ID))
}

func TestBoardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BoardHandlerTestSuite))
}
