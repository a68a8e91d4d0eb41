// syndicare/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

type SubmitPaymentInput struct {
	Amount    float64 `json:"amount" binding:"required"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
	Notes     string  `json:"notes"`
}

type RejectPaymentInput struct {
	Reason string `json:"reason"`
}

// PaymentResponse is the projection of a resident payment in API payloads.
type PaymentResponse struct {
	ID          uint       `json:"id"`
	ChargeID    uint       `json:"charge_id"`
	Resident    string     `json:"resident"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	Notes       string     `json:"notes"`
}

func paymentToResponse(p *models.ResidentPayment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		ChargeID:    p.ChargeID,
		Resident:    p.Resident.Email,
		Amount:      p.Amount,
		Method:      p.Method,
		Reference:   p.Reference,
		Status:      p.Status,
		SubmittedAt: p.CreatedAt,
		ConfirmedAt: p.ConfirmedAt,
		Notes:       p.Notes,
	}
}

// SubmitPaymentHandler lets a resident declare a payment toward one of the
// charges of their apartment. The payment starts PENDING and only counts
// toward the charge once the syndic confirms it.
// POST /api/charges/:id/payments
func SubmitPaymentHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input SubmitPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment amount must be positive"})
		return
	}

	method := input.Method
	if method == "" {
		method = models.PaymentMethodCash
	}
	if method != models.PaymentMethodCash && method != models.PaymentMethodBankTransfer {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown payment method"})
		return
	}

	var charge models.Charge
	if err := config.DB.Preload("Apartment").First(&charge, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Charge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if charge.Apartment.ResidentID == nil || *charge.Apartment.ResidentID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "This charge does not belong to your apartment"})
		return
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	payment := models.ResidentPayment{
		ChargeID:   charge.ID,
		ResidentID: userID,
		Amount:     input.Amount,
		Method:     method,
		Reference:  reference,
		Status:     models.PaymentStatusPending,
		Notes:      input.Notes,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	slog.Info("Payment submitted", "payment_id", payment.ID, "charge_id", charge.ID, "resident_id", userID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment submitted, waiting for confirmation",
		"data":    payment,
	})
}

// ListSyndicPaymentsHandler returns the payments submitted against charges of
// the buildings the current syndic manages.
// GET /api/payments?status=&building_id=
func ListSyndicPaymentsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.ResidentPayment{}).
		Preload("Resident").
		Joins("JOIN charges ON charges.id = resident_payments.charge_id").
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Joins("JOIN buildings ON buildings.id = apartments.building_id").
		Where("buildings.syndic_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("resident_payments.status = ?", status)
	}
	if buildingID := c.Query("building_id"); buildingID != "" {
		query = query.Where("buildings.id = ?", buildingID)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
		return
	}

	var payments []models.ResidentPayment
	if err := query.Select("resident_payments.*").Scopes(Paginate(c)).Order("resident_payments.created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		response = append(response, paymentToResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, response, totalRows))
}

// ConfirmPaymentHandler confirms a pending payment and recalculates the
// charge inside the same transaction.
// POST /api/payments/:id/confirm
func ConfirmPaymentHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	paymentID := c.Param("id")

	var payment models.ResidentPayment
	var charge models.Charge

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return decidePayment(tx, paymentID, userID, models.PaymentStatusConfirmed, "", &payment, &charge)
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	slog.Info("Payment confirmed", "payment_id", payment.ID, "charge_id", charge.ID, "charge_status", charge.Status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed successfully",
		"data": gin.H{
			"payment_id":         payment.ID,
			"payment_status":     payment.Status,
			"charge_id":          charge.ID,
			"charge_status":      charge.Status,
			"charge_paid_amount": charge.PaidAmount,
		},
	})
}

// RejectPaymentHandler rejects a pending payment. Rejected amounts never
// count toward the charge, so no recalculation is needed.
// POST /api/payments/:id/reject
func RejectPaymentHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	paymentID := c.Param("id")

	var input RejectPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	var payment models.ResidentPayment
	var charge models.Charge

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return decidePayment(tx, paymentID, userID, models.PaymentStatusRejected, input.Reason, &payment, &charge)
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	slog.Info("Payment rejected", "payment_id", payment.ID, "reason", input.Reason)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment rejected",
		"data": gin.H{
			"payment_id":     payment.ID,
			"payment_status": payment.Status,
			"reason":         input.Reason,
		},
	})
}

// decidePayment applies the single legal transition PENDING -> newStatus for
// a payment and, on confirmation, recalculates the owning charge within the
// same transaction. The UPDATE is conditional on the PENDING status, so a
// concurrent second decision matches zero rows and fails with
// ErrInvalidState instead of double-applying.
func decidePayment(tx *gorm.DB, paymentID string, actorID uint, newStatus, reason string, payment *models.ResidentPayment, charge *models.Charge) error {
	if err := tx.First(payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	manages, err := syndicManagesCharge(tx, payment.ChargeID, actorID)
	if err != nil {
		return err
	}
	if !manages {
		return ErrForbidden
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       newStatus,
		"confirmed_at": &now,
	}
	if reason != "" {
		updates["notes"] = reason
	}

	result := tx.Model(&models.ResidentPayment{}).
		Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	payment.Status = newStatus
	payment.ConfirmedAt = &now
	if reason != "" {
		payment.Notes = reason
	}

	if err := tx.First(charge, payment.ChargeID).Error; err != nil {
		return err
	}
	if newStatus == models.PaymentStatusConfirmed {
		return RecalculateChargeStatus(tx, charge)
	}
	return nil
}

// syndicManagesCharge reports whether the charge belongs to an apartment in a
// building managed by the given syndic.
func syndicManagesCharge(tx *gorm.DB, chargeID, syndicID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Charge{}).
		Joins("JOIN apartments ON apartments.id = charges.apartment_id").
		Joins("JOIN buildings ON buildings.id = apartments.building_id").
		Where("charges.id = ? AND buildings.syndic_id = ?", chargeID, syndicID).
		Count(&count).Error
	return count > 0, err
}

func respondPaymentError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not manage this payment's building"})
	case errors.Is(err, ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only pending payments can be confirmed or rejected"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message})
	default:
		slog.Error("Payment operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
	}
}

// ListResidentPaymentsHandler returns the payments submitted by the current
// resident.
// GET /api/resident/payments?status=
func ListResidentPaymentsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.ResidentPayment{}).Where("resident_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.ResidentPayment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(payments), "data": payments})
}

// PaymentReceiptHandler renders a simple receipt for one of the resident's
// own payments, with the amount spelled out in words.
// GET /api/resident/payments/:id/receipt
func PaymentReceiptHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var payment models.ResidentPayment
	err := config.DB.Preload("Charge").Preload("Resident").
		Where("id = ? AND resident_id = ?", c.Param("id"), userID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	dirhams := int(payment.Amount)
	cents := int(math.Round((payment.Amount - float64(dirhams)) * 100))
	amountInWords := num2words.Convert(dirhams) + " dirhams"
	if cents > 0 {
		amountInWords = fmt.Sprintf("%s and %d/100", amountInWords, cents)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"payment_id":      payment.ID,
			"charge":          payment.Charge.Description,
			"resident":        payment.Resident.Email,
			"amount":          payment.Amount,
			"amount_in_words": amountInWords,
			"method":          payment.Method,
			"reference":       payment.Reference,
			"status":          payment.Status,
			"submitted_at":    payment.CreatedAt,
			"confirmed_at":    payment.ConfirmedAt,
		},
	})
}
