package main

import (
	"log"

	"github.com/vishal1145/one-cap-game-sub001/internal/config"
	"github.com/vishal1145/one-cap-game-sub001/internal/database"
	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/handlers"
	"github.com/vishal1145/one-cap-game-sub001/internal/middleware"
	"github.com/vishal1145/one-cap-game-sub001/internal/services"
	"github.com/vishal1145/one-cap-game-sub001/internal/store"
	"github.com/vishal1145/one-cap-game-sub001/internal/ws"

	_ "github.com/vishal1145/one-cap-game-sub001/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           One Cap Game API
// @version         1.0
// @description     Backend for the truth/lie statement game: content CRUD and live multiplayer sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()
	gameStore := store.NewGormStore(db)
	coordinator := game.NewCoordinator(gameStore, hub)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	contentService := services.NewContentService(db)

	authHandler := handlers.NewAuthHandler(authService)
	roundHandler := handlers.NewRoundHandler(contentService)
	sessionHandler := handlers.NewSessionHandler(contentService, coordinator)
	playHandler := handlers.NewPlayHandler(contentService, authService, coordinator)
	wsHandler := handlers.NewWSHandler(hub, authService, coordinator)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Play-Token"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/session/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		rounds := api.Group("/rounds")
		rounds.Use(middleware.JWTAuth(authService))
		{
			rounds.POST("", roundHandler.CreateRound)
			rounds.GET("", roundHandler.ListRounds)
			rounds.GET("/:id", roundHandler.GetRound)
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(authService))
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("", sessionHandler.ListSessions)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/start", sessionHandler.StartRound)
			sessions.POST("/:id/close", sessionHandler.CloseGuessing)
			sessions.POST("/:id/reveal", sessionHandler.RevealResults)
			sessions.POST("/:id/next", sessionHandler.NextRound)
			sessions.POST("/:id/end", sessionHandler.EndSession)
			sessions.GET("/:id/leaderboard", sessionHandler.GetLeaderboard)
		}

		play := api.Group("/play")
		{
			play.POST("/guest", playHandler.Guest)
			play.GET("/state", playHandler.GetState)
			play.POST("/join", middleware.PlayerAuth(authService), playHandler.Join)
			play.POST("/guess", middleware.PlayerAuth(authService), playHandler.Guess)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
