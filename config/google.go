// FILE: config/google.go
package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	GeminiClient *genai.GenerativeModel
)

// InitGoogleServices initializes the Gemini client used by the chatbot as a
// small-talk fallback. The feature is optional: when no API key is configured
// the chatbot simply answers with its static fallback message.
func InitGoogleServices() {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY is not set, chatbot fallback replies are disabled")
		return
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		slog.Error("Unable to create Gemini client", "error", err)
		return
	}
	GeminiClient = client.GenerativeModel("gemini-1.5-flash")
	slog.Info("Gemini API client initialized")
}
