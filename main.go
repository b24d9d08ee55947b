package main

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/handlers"
	"food-marketplace-api/mailer"
	"food-marketplace-api/middleware"
	"food-marketplace-api/pkg/logger"
	"food-marketplace-api/report"
	"food-marketplace-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	gin.SetMode(cfg.GinMode)

	config.InitDB(cfg.DBPath)

	handlers.Mail = mailer.NewSMTP(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
	)

	// Monthly report job: owned here, started once, stopped on exit.
	handlers.Reports = report.NewScheduler(config.DB, handlers.Mail, cfg.Reports.Schedule)
	if err := handlers.Reports.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start report scheduler")
	}
	defer handlers.Reports.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Marketplace API",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupRoutes(r)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
