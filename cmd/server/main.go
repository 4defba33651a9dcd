package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/strathausen/pleeboo/internal/config"
	"github.com/strathausen/pleeboo/internal/database"
	"github.com/strathausen/pleeboo/internal/handlers"
	"github.com/strathausen/pleeboo/internal/icons"
	"github.com/strathausen/pleeboo/internal/middleware"
	"github.com/strathausen/pleeboo/internal/repository"
	"github.com/strathausen/pleeboo/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Boards are shared by link across origins
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Board-Token")
	r.Use(cors.New(corsConfig))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days; the session is the only owner record
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("pleeboo_session", store))

	// Initialize repository and services
	repo := repository.NewBoardRepository(database.GetDB())
	boardService := services.NewBoardService(repo)
	accessService := services.NewAccessService(repo)

	var generator services.SuggestionGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}
	suggestionService := services.NewSuggestionService(repo, generator)

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(boardService, accessService)
	sectionHandler := handlers.NewSectionHandler(boardService)
	itemHandler := handlers.NewItemHandler(boardService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Pleeboo API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/icons", func(c *gin.Context) {
			c.JSON(200, gin.H{"icons": icons.All(), "default": icons.Default})
		})

		boards := api.Group("/boards")
		{
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
		}

		sections := api.Group("/sections")
		{
			sections.PATCH("/:id", middleware.RequireSectionAdmin(), sectionHandler.UpdateSection)
			sections.DELETE("/:id", middleware.RequireSectionAdmin(), sectionHandler.DeleteSection)
			sections.POST("/:id/items", middleware.RequireSectionAdmin(), itemHandler.AddItem)
		}

		items := api.Group("/items")
		{
			items.PATCH("/:id", middleware.RequireItemAdmin(), itemHandler.UpdateItem)
			items.DELETE("/:id", middleware.RequireItemAdmin(), itemHandler.DeleteItem)
			items.PUT("/:id/volunteers/:slot", middleware.RequireItemAccess(cfg.AllowOpenPledges), itemHandler.UpsertVolunteer)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
