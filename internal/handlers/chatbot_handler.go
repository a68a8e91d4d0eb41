// syndicare/internal/handlers/chatbot_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/internal/nlu"
	"github.com/khalidesskali/syndicare/models"
)

// IntentClassifier is the external NLU service used by the chatbot. Set at
// startup; when nil the chatbot endpoint is unavailable.
var IntentClassifier *nlu.Client

// minIntentConfidence is the threshold below which a classified intent is
// treated as unrecognized.
const minIntentConfidence = 0.6

type ChatMessageInput struct {
	Message string `json:"message" binding:"required"`
}

// ChatbotMessageHandler routes a natural-language message: recognized account
// intents get a deterministic answer computed from the database, everything
// else falls back to the classifier's reply, then to Gemini small talk.
// POST /api/chatbot/message
func ChatbotMessageHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input ChatMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message is required"})
		return
	}

	if IntentClassifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "The assistant is not available right now"})
		return
	}

	sessionID := fmt.Sprintf("user-%d", userID)
	verdict, err := IntentClassifier.Classify(c.Request.Context(), input.Message, sessionID)
	if err != nil {
		slog.Error("NLU classification failed", "error", err, "user_id", userID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"reply": "Sorry, I'm having trouble understanding you right now. Please try again later."},
		})
		return
	}

	reply, handled := routeIntent(verdict, userID)
	if !handled {
		reply = fallbackReply(c, verdict, input.Message)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply":      reply,
			"intent":     verdict.Intent,
			"confidence": verdict.Confidence,
		},
	})
}

// routeIntent maps recognized intents to deterministic handlers reading the
// resident's own account data.
func routeIntent(verdict *nlu.Response, userID uint) (string, bool) {
	if verdict.Confidence < minIntentConfidence {
		return "", false
	}

	switch verdict.Intent {
	case "resident.charges.list", "ViewCharges":
		return explainCharges(userID), true
	case "resident.charges.by_status":
		return unpaidChargesSummary(userID), true
	default:
		return "", false
	}
}

func fallbackReply(c *gin.Context, verdict *nlu.Response, message string) string {
	if verdict.Reply != "" {
		return verdict.Reply
	}
	if config.GeminiClient != nil {
		resp, err := config.GeminiClient.GenerateContent(c.Request.Context(), genai.Text(message))
		if err == nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if text, ok := part.(genai.Text); ok {
					return string(text)
				}
			}
		}
		if err != nil {
			slog.Warn("Gemini fallback failed", "error", err)
		}
	}
	return "I'm not sure I can help with that yet. You can ask me about your charges."
}

// explainCharges summarizes all charges of the resident's apartment.
func explainCharges(userID uint) string {
	var charges []models.Charge
	err := config.DB.
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Where("apartments.resident_id = ?", userID).
		Find(&charges).Error
	if err != nil {
		slog.Error("Chatbot charge lookup failed", "error", err, "user_id", userID)
		return "Sorry, I couldn't retrieve your charges."
	}

	if len(charges) == 0 {
		return "You currently have no charges."
	}

	var total, paidTotal float64
	for _, charge := range charges {
		total += charge.Amount
		paidTotal += charge.PaidAmount
	}
	return fmt.Sprintf("You have %d charge(s). Total amount: %.2f MAD. Already paid: %.2f MAD.",
		len(charges), total, paidTotal)
}

// unpaidChargesSummary summarizes what the resident still owes, flagging
// overdue charges.
func unpaidChargesSummary(userID uint) string {
	var charges []models.Charge
	err := config.DB.
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Where("apartments.resident_id = ? AND charges.status <> ?", userID, models.ChargeStatusPaid).
		Find(&charges).Error
	if err != nil {
		slog.Error("Chatbot charge lookup failed", "error", err, "user_id", userID)
		return "Sorry, I couldn't retrieve your charges."
	}

	if len(charges) == 0 {
		return "You have no unpaid charges. You're all caught up!"
	}

	var remaining float64
	overdueCount := 0
	for _, charge := range charges {
		remaining += charge.RemainingAmount()
		if charge.IsOverdue() {
			overdueCount++
		}
	}

	reply := fmt.Sprintf("You have %d unpaid charge(s). Remaining to pay: %.2f MAD.", len(charges), remaining)
	if overdueCount > 0 {
		reply += fmt.Sprintf(" Warning: %d charge(s) are overdue!", overdueCount)
	}
	return reply
}
