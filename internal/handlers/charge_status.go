// syndicare/internal/handlers/charge_status.go
package handlers

import (
	"time"

	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

// RecalculateChargeStatus derives paid_amount and status of a charge from the
// full set of its CONFIRMED payments. Pending and rejected payments never
// count. The function is idempotent: calling it again without an intervening
// payment change writes the same values.
//
// Must run inside the same transaction as the payment status change so the
// derived fields reflect exactly the payment set visible at commit time.
func RecalculateChargeStatus(tx *gorm.DB, charge *models.Charge) error {
	var confirmedTotal float64
	err := tx.Model(&models.ResidentPayment{}).
		Where("charge_id = ? AND status = ?", charge.ID, models.PaymentStatusConfirmed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&confirmedTotal).Error
	if err != nil {
		return err
	}

	charge.PaidAmount = confirmedTotal
	switch {
	case confirmedTotal >= charge.Amount:
		charge.Status = models.ChargeStatusPaid
	case confirmedTotal > 0:
		charge.Status = models.ChargeStatusPartiallyPaid
	default:
		charge.Status = models.ChargeStatusUnpaid
	}

	if charge.Status == models.ChargeStatusPaid {
		if charge.PaidDate == nil {
			now := time.Now()
			charge.PaidDate = &now
		}
	} else {
		charge.PaidDate = nil
	}

	return tx.Model(&models.Charge{}).
		Where("id = ?", charge.ID).
		Updates(map[string]interface{}{
			"paid_amount": charge.PaidAmount,
			"status":      charge.Status,
			"paid_date":   charge.PaidDate,
		}).Error
}
