// syndicare/internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/internal/middleware"
	"github.com/khalidesskali/syndicare/models"
)

// RegisterAPIRoutes registers all authenticated API routes.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- CHARGES (syndic) ---
		charges := apiGroup.Group("/charges")
		{
			charges.GET("", middleware.RequireRole(models.RoleSyndic), handlers.ListChargesHandler)
			charges.POST("", middleware.RequireRole(models.RoleSyndic), handlers.CreateChargeHandler)
			charges.GET("/statistics", middleware.RequireRole(models.RoleSyndic), handlers.ChargeStatisticsHandler)
			charges.GET("/export", middleware.RequireRole(models.RoleSyndic), handlers.ExportChargesHandler)
			charges.POST("/bulk-create", middleware.RequireRole(models.RoleSyndic), handlers.BulkCreateChargesHandler)
			charges.GET("/:id", middleware.RequireRole(models.RoleSyndic), handlers.GetChargeHandler)
			charges.PUT("/:id", middleware.RequireRole(models.RoleSyndic), handlers.UpdateChargeHandler)
			charges.DELETE("/:id", middleware.RequireRole(models.RoleSyndic), handlers.DeleteChargeHandler)

			// Residents declare payments against their own charges.
			charges.POST("/:id/payments", middleware.RequireRole(models.RoleResident), handlers.SubmitPaymentHandler)
		}

		// --- PAYMENTS (syndic) ---
		payments := apiGroup.Group("/payments")
		payments.Use(middleware.RequireRole(models.RoleSyndic))
		{
			payments.GET("", handlers.ListSyndicPaymentsHandler)
			payments.POST("/:id/confirm", handlers.ConfirmPaymentHandler)
			payments.POST("/:id/reject", handlers.RejectPaymentHandler)
		}

		// --- RECLAMATIONS (syndic) ---
		reclamations := apiGroup.Group("/reclamations")
		reclamations.Use(middleware.RequireRole(models.RoleSyndic))
		{
			reclamations.GET("", handlers.ListReclamationsHandler)
			reclamations.GET("/statistics", handlers.ReclamationStatisticsHandler)
			reclamations.GET("/:id", handlers.GetReclamationHandler)
			reclamations.POST("/:id/change-status", handlers.ChangeReclamationStatusHandler)
			reclamations.POST("/:id/respond", handlers.RespondReclamationHandler)
			reclamations.GET("/:id/history", handlers.ReclamationHistoryHandler)
		}

		// --- RESIDENT SELF-SERVICE ---
		resident := apiGroup.Group("/resident")
		resident.Use(middleware.RequireRole(models.RoleResident))
		{
			resident.GET("/charges", handlers.ListResidentChargesHandler)
			resident.GET("/payments", handlers.ListResidentPaymentsHandler)
			resident.GET("/payments/:id/receipt", handlers.PaymentReceiptHandler)
			resident.GET("/reclamations", handlers.ListResidentReclamationsHandler)
			resident.POST("/reclamations", handlers.CreateReclamationHandler)
			resident.GET("/reclamations/:id", handlers.GetResidentReclamationHandler)
		}

		// --- CHATBOT ---
		chatbot := apiGroup.Group("/chatbot")
		chatbot.Use(middleware.RequireRole(models.RoleResident))
		{
			chatbot.POST("/message", handlers.ChatbotMessageHandler)
		}
	}
}
