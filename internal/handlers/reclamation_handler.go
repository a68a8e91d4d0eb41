// syndicare/internal/handlers/reclamation_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

type ChangeStatusInput struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type RespondInput struct {
	Response string `json:"response"`
}

// ReclamationResponse is the projection of a reclamation in API payloads.
type ReclamationResponse struct {
	ID              uint       `json:"id"`
	ResidentEmail   string     `json:"resident_email"`
	ApartmentNumber string     `json:"apartment_number"`
	BuildingName    string     `json:"building_name"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Response        *string    `json:"response"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ClosedAt        *time.Time `json:"closed_at"`
}

func reclamationToResponse(r *models.Reclamation) ReclamationResponse {
	return ReclamationResponse{
		ID:              r.ID,
		ResidentEmail:   r.Resident.Email,
		ApartmentNumber: r.Apartment.Number,
		BuildingName:    r.Apartment.Building.Name,
		Title:           r.Title,
		Content:         r.Content,
		Status:          r.Status,
		Priority:        r.Priority,
		Response:        r.Response,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		ClosedAt:        r.ClosedAt,
	}
}

// ListReclamationsHandler returns the reclamations addressed to the current
// syndic.
// GET /api/reclamations?status=&priority=&building_id=&search=
func ListReclamationsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.Reclamation{}).
		Where("reclamations.syndic_id = ?", userID).
		Preload("Resident").Preload("Apartment").Preload("Apartment.Building")

	if status := c.Query("status"); status != "" {
		query = query.Where("reclamations.status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("reclamations.priority = ?", priority)
	}
	if buildingID := c.Query("building_id"); buildingID != "" {
		query = query.Joins("JOIN apartments ON apartments.id = reclamations.apartment_id").
			Where("apartments.building_id = ?", buildingID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(reclamations.title) LIKE ? OR LOWER(reclamations.content) LIKE ?", pattern, pattern)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reclamations"})
		return
	}

	var reclamations []models.Reclamation
	err := query.Select("reclamations.*").
		Scopes(Paginate(c)).
		Order("reclamations.created_at DESC").
		Find(&reclamations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reclamations"})
		return
	}

	response := make([]ReclamationResponse, 0, len(reclamations))
	for i := range reclamations {
		response = append(response, reclamationToResponse(&reclamations[i]))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, response, totalRows))
}

// GetReclamationHandler returns one reclamation of the current syndic.
// GET /api/reclamations/:id
func GetReclamationHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	reclamation, ok := loadSyndicReclamation(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reclamationToResponse(reclamation)})
}

// ChangeReclamationStatusHandler applies a guarded status transition and
// records it in the audit history.
// POST /api/reclamations/:id/change-status
func ChangeReclamationStatusHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	reclamation, ok := loadSyndicReclamation(c, userID)
	if !ok {
		return
	}

	var input ChangeStatusInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status is required"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return ChangeReclamationStatus(tx, reclamation, input.Status, userID, input.Comment)
	})
	if err != nil {
		var tErr *InvalidTransitionError
		switch {
		case errors.As(err, &tErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": tErr.Error()})
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Reclamation was modified concurrently, please retry"})
		default:
			slog.Error("Failed to change reclamation status", "reclamation_id", reclamation.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated successfully",
		"data":    reclamationToResponse(reclamation),
	})
}

// RespondReclamationHandler stores the syndic's response and moves the
// reclamation to IN_PROGRESS. If the reclamation already left PENDING the
// transition attempt is treated as satisfied, not as an error.
// POST /api/reclamations/:id/respond
func RespondReclamationHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	reclamation, ok := loadSyndicReclamation(c, userID)
	if !ok {
		return
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Response == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Response is required"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(reclamation).Update("response", input.Response).Error; err != nil {
			return err
		}
		reclamation.Response = &input.Response

		err := ChangeReclamationStatus(tx, reclamation, models.ReclamationStatusInProgress, userID, "Response sent to resident")
		var tErr *InvalidTransitionError
		if errors.As(err, &tErr) {
			// Already in progress or beyond; the response still counts.
			return nil
		}
		return err
	})
	if err != nil {
		slog.Error("Failed to respond to reclamation", "reclamation_id", reclamation.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Response sent successfully",
		"data":    reclamationToResponse(reclamation),
	})
}

// ReclamationHistoryHandler returns the audit trail of a reclamation, oldest
// first.
// GET /api/reclamations/:id/history
func ReclamationHistoryHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	reclamation, ok := loadSyndicReclamation(c, userID)
	if !ok {
		return
	}

	var history []models.ReclamationStatusHistory
	err := config.DB.Preload("ChangedBy").
		Where("reclamation_id = ?", reclamation.ID).
		Order("changed_at").
		Find(&history).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	data := make([]gin.H, 0, len(history))
	for _, h := range history {
		var changedBy *string
		if h.ChangedBy != nil {
			email := h.ChangedBy.Email
			changedBy = &email
		}
		data = append(data, gin.H{
			"old_status": h.OldStatus,
			"new_status": h.NewStatus,
			"comment":    h.Comment,
			"changed_at": h.ChangedAt,
			"changed_by": changedBy,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// ReclamationStatisticsHandler aggregates the syndic's reclamations by status
// and priority.
// GET /api/reclamations/statistics
func ReclamationStatisticsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	countWhere := func(condition string, args ...interface{}) (int64, error) {
		var count int64
		err := config.DB.Model(&models.Reclamation{}).
			Where("syndic_id = ?", userID).
			Where(condition, args...).
			Count(&count).Error
		return count, err
	}

	var total int64
	if err := config.DB.Model(&models.Reclamation{}).Where("syndic_id = ?", userID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	byStatus := gin.H{}
	for key, status := range map[string]string{
		"pending":     models.ReclamationStatusPending,
		"in_progress": models.ReclamationStatusInProgress,
		"resolved":    models.ReclamationStatusResolved,
		"rejected":    models.ReclamationStatusRejected,
	} {
		count, err := countWhere("status = ?", status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
		byStatus[key] = count
	}

	byPriority := gin.H{}
	for key, priority := range map[string]string{
		"urgent": models.PriorityUrgent,
		"high":   models.PriorityHigh,
		"medium": models.PriorityMedium,
		"low":    models.PriorityLow,
	} {
		count, err := countWhere("priority = ?", priority)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
		byPriority[key] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":       total,
			"by_status":   byStatus,
			"by_priority": byPriority,
		},
	})
}

// loadSyndicReclamation fetches the reclamation from the :id path parameter
// and checks that it is addressed to the current syndic.
func loadSyndicReclamation(c *gin.Context, syndicID uint) (*models.Reclamation, bool) {
	var reclamation models.Reclamation
	err := config.DB.Preload("Resident").Preload("Apartment").Preload("Apartment.Building").
		First(&reclamation, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reclamation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	if reclamation.SyndicID != syndicID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "This reclamation is not addressed to you"})
		return nil, false
	}
	return &reclamation, true
}
