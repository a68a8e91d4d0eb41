// syndicare/internal/handlers/charge_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

type CreateChargeInput struct {
	ApartmentID uint    `json:"apartment_id" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	DueDate     string  `json:"due_date" binding:"required"`
}

type UpdateChargeInput struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	DueDate     *string  `json:"due_date"`
}

type BulkCreateChargesInput struct {
	BuildingID    uint   `json:"building_id" binding:"required"`
	Description   string `json:"description" binding:"required"`
	DueDate       string `json:"due_date" binding:"required"`
	AmountFormula string `json:"amount_formula"`
}

// ChargeResponse is the projection of a charge in API payloads. IsOverdue is
// derived from the due date at read time and never persisted.
type ChargeResponse struct {
	ID              uint       `json:"id"`
	ApartmentID     uint       `json:"apartment_id"`
	ApartmentNumber string     `json:"apartment_number"`
	BuildingName    string     `json:"building_name"`
	Description     string     `json:"description"`
	Amount          float64    `json:"amount"`
	DueDate         string     `json:"due_date"`
	Status          string     `json:"status"`
	PaidAmount      float64    `json:"paid_amount"`
	RemainingAmount float64    `json:"remaining_amount"`
	PaidDate        *time.Time `json:"paid_date"`
	IsOverdue       bool       `json:"is_overdue"`
	CreatedAt       time.Time  `json:"created_at"`
}

func chargeToResponse(charge *models.Charge) ChargeResponse {
	return ChargeResponse{
		ID:              charge.ID,
		ApartmentID:     charge.ApartmentID,
		ApartmentNumber: charge.Apartment.Number,
		BuildingName:    charge.Apartment.Building.Name,
		Description:     charge.Description,
		Amount:          charge.Amount,
		DueDate:         charge.DueDate.Format("2006-01-02"),
		Status:          charge.Status,
		PaidAmount:      charge.PaidAmount,
		RemainingAmount: charge.RemainingAmount(),
		PaidDate:        charge.PaidDate,
		IsOverdue:       charge.IsOverdue(),
		CreatedAt:       charge.CreatedAt,
	}
}

// syndicChargeQuery scopes charges to the buildings managed by the syndic and
// applies the common building/apartment query filters.
func syndicChargeQuery(c *gin.Context, syndicID uint) *gorm.DB {
	query := config.DB.Model(&models.Charge{}).
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Joins("JOIN buildings ON buildings.id = apartments.building_id").
		Where("buildings.syndic_id = ?", syndicID)

	if buildingID := c.Query("building_id"); buildingID != "" {
		query = query.Where("apartments.building_id = ?", buildingID)
	}
	if apartmentID := c.Query("apartment_id"); apartmentID != "" {
		query = query.Where("charges.apartment_id = ?", apartmentID)
	}
	return query
}

// ListChargesHandler returns the charges of the syndic's buildings with
// filtering and pagination.
// GET /api/charges?status=&building_id=&apartment_id=&overdue=&search=
func ListChargesHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	query := syndicChargeQuery(c, userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("charges.status = ?", status)
	}
	if c.Query("overdue") == "true" {
		query = query.Where("charges.status IN ? AND charges.due_date < ?",
			[]string{models.ChargeStatusUnpaid, models.ChargeStatusPartiallyPaid}, time.Now())
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(charges.description) LIKE ? OR LOWER(apartments.number) LIKE ? OR LOWER(buildings.name) LIKE ?",
			pattern, pattern, pattern)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count charges"})
		return
	}

	var charges []models.Charge
	err := query.Select("charges.*").
		Preload("Apartment").Preload("Apartment.Building").
		Scopes(Paginate(c)).
		Order("charges.created_at DESC").
		Find(&charges).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charges"})
		return
	}

	response := make([]ChargeResponse, 0, len(charges))
	for i := range charges {
		response = append(response, chargeToResponse(&charges[i]))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, response, totalRows))
}

// CreateChargeHandler creates a single charge for an apartment the syndic
// manages.
// POST /api/charges
func CreateChargeHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input CreateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Charge amount must be positive"})
		return
	}
	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	owns, err := syndicOwnsApartment(config.DB, input.ApartmentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !owns {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not manage this apartment"})
		return
	}

	charge := models.Charge{
		ApartmentID: input.ApartmentID,
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     dueDate,
		Status:      models.ChargeStatusUnpaid,
	}
	if err := config.DB.Create(&charge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create charge"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Charge created successfully",
		"data":    charge,
	})
}

// GetChargeHandler returns one charge with its payment list.
// GET /api/charges/:id
func GetChargeHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	charge, ok := loadSyndicCharge(c, userID)
	if !ok {
		return
	}

	var payments []models.ResidentPayment
	if err := config.DB.Preload("Resident").Where("charge_id = ?", charge.ID).Order("created_at").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	paymentsData := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		paymentsData = append(paymentsData, paymentToResponse(&payments[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     chargeToResponse(charge),
		"payments": paymentsData,
	})
}

// UpdateChargeHandler applies administrative edits to a charge. Since the
// amount participates in the status derivation, the charge is recalculated in
// the same transaction when the amount changes.
// PUT /api/charges/:id
func UpdateChargeHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	charge, ok := loadSyndicCharge(c, userID)
	if !ok {
		return
	}

	var input UpdateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Charge amount must be positive"})
			return
		}
		updates["amount"] = *input.Amount
	}
	if input.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *input.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		updates["due_date"] = dueDate
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(charge).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.Amount != nil {
			charge.Amount = *input.Amount
			return RecalculateChargeStatus(tx, charge)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update charge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Charge updated successfully",
		"data":    chargeToResponse(charge),
	})
}

// DeleteChargeHandler removes a charge. A charge with any payment in any
// status is retained for the ledger and cannot be deleted.
// DELETE /api/charges/:id
func DeleteChargeHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	charge, ok := loadSyndicCharge(c, userID)
	if !ok {
		return
	}

	var paymentCount int64
	if err := config.DB.Model(&models.ResidentPayment{}).Where("charge_id = ?", charge.ID).Count(&paymentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if paymentCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot delete a charge with payments"})
		return
	}

	if err := config.DB.Delete(charge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete charge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Charge deleted successfully"})
}

// BulkCreateChargesHandler creates one charge per apartment of a building.
// The amount defaults to each apartment's monthly charge; an optional formula
// can override it, evaluated per apartment with the parameters
// monthly_charge, floor and floors.
// POST /api/charges/bulk-create
func BulkCreateChargesHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input BulkCreateChargesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	var building models.Building
	if err := config.DB.Where("id = ? AND syndic_id = ?", input.BuildingID, userID).First(&building).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not manage this building"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	var formula *govaluate.EvaluableExpression
	if input.AmountFormula != "" {
		formula, err = govaluate.NewEvaluableExpression(input.AmountFormula)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("Invalid amount formula: %v", err)})
			return
		}
	}

	var apartments []models.Apartment
	if err := config.DB.Where("building_id = ?", building.ID).Find(&apartments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch apartments"})
		return
	}

	var charges []models.Charge
	for _, apartment := range apartments {
		amount := apartment.MonthlyCharge
		if formula != nil {
			parameters := map[string]interface{}{
				"monthly_charge": apartment.MonthlyCharge,
				"floor":          float64(apartment.Floor),
				"floors":         float64(building.Floors),
			}
			result, err := formula.Evaluate(parameters)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("Failed to evaluate amount formula: %v", err)})
				return
			}
			value, ok := result.(float64)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount formula did not produce a number"})
				return
			}
			amount = value
		}

		charges = append(charges, models.Charge{
			ApartmentID: apartment.ID,
			Description: input.Description,
			Amount:      amount,
			DueDate:     dueDate,
			Status:      models.ChargeStatusUnpaid,
		})
	}

	if len(charges) > 0 {
		if err := config.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&charges).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create charges"})
			return
		}
	}

	slog.Info("Bulk charges created", "building_id", building.ID, "count", len(charges))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d charges created successfully", len(charges)),
		"data":    gin.H{"created": len(charges)},
	})
}

// ChargeStatisticsHandler aggregates the syndic's charges: counts per status,
// the derived overdue bucket, amount totals and the collection rate.
// GET /api/charges/statistics?building_id=&apartment_id=
func ChargeStatisticsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var totalCharges, paid, partiallyPaid, unpaid, overdue int64
	counts := []struct {
		status string
		dest   *int64
	}{
		{models.ChargeStatusPaid, &paid},
		{models.ChargeStatusPartiallyPaid, &partiallyPaid},
		{models.ChargeStatusUnpaid, &unpaid},
	}

	if err := syndicChargeQuery(c, userID).Count(&totalCharges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	for _, count := range counts {
		if err := syndicChargeQuery(c, userID).Where("charges.status = ?", count.status).Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
	}
	err := syndicChargeQuery(c, userID).
		Where("charges.status IN ? AND charges.due_date < ?",
			[]string{models.ChargeStatusUnpaid, models.ChargeStatusPartiallyPaid}, time.Now()).
		Count(&overdue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	var totals struct {
		TotalAmount float64
		PaidAmount  float64
	}
	err = syndicChargeQuery(c, userID).
		Select("COALESCE(SUM(charges.amount), 0) AS total_amount, COALESCE(SUM(charges.paid_amount), 0) AS paid_amount").
		Scan(&totals).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	var unpaidAmount float64
	err = syndicChargeQuery(c, userID).
		Where("charges.status <> ?", models.ChargeStatusPaid).
		Select("COALESCE(SUM(charges.amount - charges.paid_amount), 0)").
		Scan(&unpaidAmount).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	collectionRate := 0.0
	if totals.TotalAmount > 0 {
		collectionRate = math.Round(totals.PaidAmount/totals.TotalAmount*1000) / 10
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_charges":   totalCharges,
			"paid":            paid,
			"partially_paid":  partiallyPaid,
			"unpaid":          unpaid,
			"overdue":         overdue,
			"total_amount":    totals.TotalAmount,
			"paid_amount":     totals.PaidAmount,
			"unpaid_amount":   unpaidAmount,
			"collection_rate": collectionRate,
		},
	})
}

// ListResidentChargesHandler returns the charges of the current resident's
// apartment(s).
// GET /api/resident/charges?status=
func ListResidentChargesHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.Charge{}).
		Select("charges.*").
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Where("apartments.resident_id = ?", userID).
		Preload("Apartment").Preload("Apartment.Building")

	if status := c.Query("status"); status != "" {
		query = query.Where("charges.status = ?", status)
	}

	var charges []models.Charge
	if err := query.Order("charges.due_date").Find(&charges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charges"})
		return
	}

	response := make([]ChargeResponse, 0, len(charges))
	for i := range charges {
		response = append(response, chargeToResponse(&charges[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(response), "data": response})
}

// loadSyndicCharge fetches the charge from the :id path parameter and checks
// that the current syndic manages its building. Writes the error response
// itself and reports success through the boolean.
func loadSyndicCharge(c *gin.Context, syndicID uint) (*models.Charge, bool) {
	var charge models.Charge
	err := config.DB.Preload("Apartment").Preload("Apartment.Building").First(&charge, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Charge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	if charge.Apartment.Building.SyndicID != syndicID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not manage this charge"})
		return nil, false
	}
	return &charge, true
}

// syndicOwnsApartment reports whether the apartment is part of a building
// managed by the syndic.
func syndicOwnsApartment(tx *gorm.DB, apartmentID, syndicID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Apartment{}).
		Joins("JOIN buildings ON buildings.id = apartments.building_id").
		Where("apartments.id = ? AND buildings.syndic_id = ?", apartmentID, syndicID).
		Count(&count).Error
	return count > 0, err
}
