// syndicare/cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/internal/nlu"
	"github.com/khalidesskali/syndicare/internal/routes"
	"github.com/khalidesskali/syndicare/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on the environment")
	}

	config.LoadJWTKey()
	config.ConnectDB()
	config.ConnectRedis()
	config.InitGoogleServices()

	if err := models.AutoMigrate(config.DB); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	if nluURL := os.Getenv("NLU_URL"); nluURL != "" {
		handlers.IntentClassifier = nlu.NewClient(nluURL)
		slog.Info("Intent classifier configured", "url", nluURL)
	} else {
		slog.Warn("NLU_URL is not set, the chatbot endpoint is disabled")
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
