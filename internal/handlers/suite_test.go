package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/strathausen/pleeboo/internal/database"
	"github.com/strathausen/pleeboo/internal/dto"
	"github.com/strathausen/pleeboo/internal/middleware"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// handlerTestSuite is the shared harness for the handler suites: in-memory
// SQLite, the full route table, and fixture helpers.
type handlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	repo   repository.BoardRepository
	boards *services.BoardService
	access *services.AccessService
	router *gin.Engine
}

// SetupTest runs before each test
func (s *handlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	// Run migrations
	err = s.db.AutoMigrate(
		&models.Board{},
		&models.Section{},
		&models.Item{},
		&models.Volunteer{},
		&models.AccessToken{},
	)
	s.Require().NoError(err)

	// Set the test DB as the default database (the auth middleware reads it)
	database.SetDB(s.db)

	s.repo = repository.NewBoardRepository(s.db)
	s.boards = services.NewBoardService(s.repo)
	s.access = services.NewAccessService(s.repo)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	s.router = s.newRouter(false, nil)
}

// TearDownTest runs after each test
func (s *handlerTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

// newRouter builds the production route table without the session and CORS
// layers. Tests that need open pledging or a suggestion generator swap
// s.router for a custom one.
func (s *handlerTestSuite) newRouter(allowOpenPledges bool, generator services.SuggestionGenerator) *gin.Engine {
	boardHandler := NewBoardHandler(s.boards, s.access)
	sectionHandler := NewSectionHandler(s.boards)
	itemHandler := NewItemHandler(s.boards)
	suggestionHandler := NewSuggestionHandler(services.NewSuggestionService(s.repo, generator))

	r := gin.New()
	api := r.Group("/api")

	boards := api.Group("/boards")
	boards.POST("", boardHandler.CreateBoard)
	boards.GET("/:id", boardHandler.GetBoard)
	boards.GET("/:id/access", boardHandler.GetAccess)
	boards.GET("/:id/tokens", middleware.RequireBoardAdmin(), boardHandler.GetTokens)
	boards.POST("/:id/tokens", middleware.RequireBoardAdmin(), boardHandler.RegenerateTokens)
	boards.PATCH("/:id", middleware.RequireBoardAdmin(), boardHandler.UpdateBoard)
	boards.DELETE("/:id", middleware.RequireBoardAdmin(), boardHandler.DeleteBoard)
	boards.POST("/:id/sections", middleware.RequireBoardAdmin(), sectionHandler.AddSection)
	boards.PUT("/:id/sections/order", middleware.RequireBoardAdmin(), sectionHandler.ReorderSections)
	boards.POST("/:id/suggestions", middleware.RequireBoardAdmin(), suggestionHandler.GenerateSuggestions)

	sections := api.Group("/sections")
	sections.PATCH("/:id", middleware.RequireSectionAdmin(), sectionHandler.UpdateSection)
	sections.DELETE("/:id", middleware.RequireSectionAdmin(), sectionHandler.DeleteSection)
	sections.POST("/:id/items", middleware.RequireSectionAdmin(), itemHandler.AddItem)

	items := api.Group("/items")
	items.PATCH("/:id", middleware.RequireItemAdmin(), itemHandler.UpdateItem)
	items.DELETE("/:id", middleware.RequireItemAdmin(), itemHandler.DeleteItem)
	items.PUT("/:id/volunteers/:slot", middleware.RequireItemAccess(allowOpenPledges), itemHandler.UpsertVolunteer)

	return r
}

// request performs an HTTP request against the suite router. The token, if
// any, travels in the X-Board-Token header; body is marshaled to JSON.
func (s *handlerTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Board-Token", token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// Helper functions to create test data

func (s *handlerTestSuite) createTestBoard(title string) (*models.Board, dto.TokenPairDTO) {
	board, tokens, err := s.boards.CreateBoard(services.CreateBoardInput{Title: title}, s.access)
	s.Require().NoError(err)
	return board, dto.ToTokenPairDTO(tokens)
}

func (s *handlerTestSuite) createTestSection(boardID, title string) *models.Section {
	section, err := s.boards.AddSection(boardID, services.AddSectionInput{Title: title})
	s.Require().NoError(err)
	return section
}

func (s *handlerTestSuite) createTestItem(sectionID, title string) *models.Item {
	item, err := s.boards.AddItem(sectionID, services.AddItemInput{Title: title, Needed: 3})
	s.Require().NoError(err)
	return item
}

func (s *handlerTestSuite) createTestVolunteer(itemID string, slot int, name string) *models.Volunteer {
	volunteer, err := s.boards.UpsertVolunteer(itemID, slot, repository.VolunteerFields{Name: name})
	s.Require().NoError(err)
	s.Require().NotNil(volunteer)
	return volunteer
}

func (s *handlerTestSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
