package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"spinbazar-backend/internal/config"
	"spinbazar-backend/internal/handlers"
	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	jwtService := services.NewJWTService(cfg)
	tokenService := services.NewTokenService(jwtService, store)

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SiteEmail != "" {
		mailer = services.NewSMTPMailer(cfg)
	}

	authService := services.NewAuthService(store, tokenService, mailer)
	walletService := services.NewWalletService(store)

	authHandler := handlers.NewAuthHandler(authService, tokenService)
	betHandler := handlers.NewBetHandler(walletService)
	bonusHandler := handlers.NewBonusHandler(walletService)
	paymentsHandler := handlers.NewPaymentsHandler(walletService)
	userHandler := handlers.NewUserHandler(authService, store)
	historyHandler := handlers.NewHistoryHandler(walletService)
	adminHandler := handlers.NewAdminHandler(store)
	wsHandler := handlers.NewWebSocketHandler(store)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/", func(c *gin.Context) {
		c.String(200, "Api running")
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	authGate := middleware.Auth(tokenService, store)

	bet := router.Group("/bet", authGate)
	{
		bet.POST("/placebet",
			middleware.RateLimit(store, "bet", services.DefaultRateLimitBets, time.Minute),
			betHandler.PlaceBet)
		bet.POST("/winbet", betHandler.WinBet)
	}

	router.POST("/bonus/claimdaily", authGate, bonusHandler.ClaimDaily)

	payments := router.Group("/payments", authGate)
	{
		payments.POST("/deposit", paymentsHandler.Deposit)
		payments.POST("/withdraw", paymentsHandler.Withdraw)
	}

	user := router.Group("/user", authGate)
	{
		user.GET("/account", userHandler.Account)
		user.PUT("/changepassword", userHandler.ChangePassword)
		user.PUT("/changeemail", userHandler.ChangeEmail)
		user.PUT("/deactivate", userHandler.Deactivate)
		user.GET("/event", userHandler.Event)
		user.GET("/ws", wsHandler.HandleWebSocket)
	}

	router.GET("/data/userdata", authGate, userHandler.UserData)

	history := router.Group("/history", authGate)
	{
		history.POST("/addhistory", historyHandler.AddHistory)
		history.GET("/gethistory", historyHandler.GetHistory)
	}

	admin := router.Group("/admin", authGate, middleware.Admin())
	{
		admin.GET("/getusers", adminHandler.GetUsers)
		admin.PUT("/suspenduser/:id", adminHandler.SuspendUser)
		admin.PUT("/activateuser/:id", adminHandler.ActivateUser)
		admin.PUT("/edituser/:id", adminHandler.EditUser)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
