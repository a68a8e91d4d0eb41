// syndicare/internal/handlers/resident_reclamation_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

type CreateReclamationInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Priority string `json:"priority"`
}

var validPriorities = map[string]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
	models.PriorityUrgent: true,
}

// CreateReclamationHandler lets a resident open a complaint. The apartment
// and its syndic are resolved from the resident's current assignment and
// frozen on the reclamation; later moves do not reroute it.
// POST /api/resident/reclamations
func CreateReclamationHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input CreateReclamationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title and content are required"})
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriorities[priority] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown priority"})
		return
	}

	var apartment models.Apartment
	err := config.DB.Preload("Building").Where("resident_id = ?", userID).First(&apartment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You must be assigned to an apartment to create a reclamation"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}
	if apartment.Building.SyndicID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No syndic assigned to this building. Please contact support"})
		return
	}

	reclamation := models.Reclamation{
		ResidentID:  userID,
		SyndicID:    apartment.Building.SyndicID,
		ApartmentID: apartment.ID,
		Title:       input.Title,
		Content:     input.Content,
		Status:      models.ReclamationStatusPending,
		Priority:    priority,
	}
	if err := config.DB.Create(&reclamation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reclamation"})
		return
	}

	slog.Info("Reclamation created", "reclamation_id", reclamation.ID, "resident_id", userID, "syndic_id", reclamation.SyndicID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Reclamation created successfully",
		"data":    reclamation,
	})
}

// ListResidentReclamationsHandler returns the reclamations of the current
// resident.
// GET /api/resident/reclamations?status=&priority=
func ListResidentReclamationsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.Reclamation{}).
		Where("resident_id = ?", userID).
		Preload("Resident").Preload("Apartment").Preload("Apartment.Building")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var reclamations []models.Reclamation
	if err := query.Order("created_at DESC").Find(&reclamations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reclamations"})
		return
	}

	response := make([]ReclamationResponse, 0, len(reclamations))
	for i := range reclamations {
		response = append(response, reclamationToResponse(&reclamations[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(response), "data": response})
}

// GetResidentReclamationHandler returns one of the resident's own
// reclamations.
// GET /api/resident/reclamations/:id
func GetResidentReclamationHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var reclamation models.Reclamation
	err := config.DB.Preload("Resident").Preload("Apartment").Preload("Apartment.Building").
		Where("id = ? AND resident_id = ?", c.Param("id"), userID).
		First(&reclamation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reclamation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reclamationToResponse(&reclamation)})
}
