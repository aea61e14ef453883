package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitlink/internal/config"
	"splitlink/internal/handler"
	"splitlink/internal/invite"
	"splitlink/internal/middleware"
	"splitlink/internal/service"
	"splitlink/internal/storage/sqlite"
	"splitlink/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.Setup()
	cfg := config.Load()

	if cfg.InviteSecret == "" {
		slog.Warn("INVITE_SECRET is not set; invite signing and verification will fail until it is configured")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	codec := invite.NewCodec([]byte(cfg.InviteSecret))
	invites := service.NewInviteService(store, codec, cfg.BaseURL)
	expenses := service.NewExpenseService(store)

	inviteHandler := handler.NewInviteHandler(invites)
	expenseHandler := handler.NewExpenseHandler(expenses)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logging(), middleware.CORS(), middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/invites", inviteHandler.Create)
		v1.GET("/invites/verify", inviteHandler.Verify)
		v1.POST("/invites/accept", inviteHandler.Accept)

		v1.GET("/expenses", expenseHandler.List)
		v1.GET("/expenses/:id", expenseHandler.Get)
		v1.DELETE("/expenses/:id", expenseHandler.Delete)
		v1.PUT("/expenses/:id/claims", expenseHandler.Claim)
		v1.GET("/expenses/:id/settlement", expenseHandler.Settlement)
	}

	slog.Info("Server starting", "address", cfg.ServerPort, "base_url", cfg.BaseURL)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
