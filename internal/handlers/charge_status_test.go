// syndicare/internal/handlers/charge_status_test.go
package handlers_test

import (
	"testing"

	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateChargeStatusCountsOnlyConfirmedPayments(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())

	createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusConfirmed)
	createPayment(t, db, charge.ID, w.resident.ID, 100, models.PaymentStatusPending)
	createPayment(t, db, charge.ID, w.resident.ID, 50, models.PaymentStatusRejected)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))

	assert.Equal(t, 400.0, charge.PaidAmount)
	assert.Equal(t, models.ChargeStatusPartiallyPaid, charge.Status)
	assert.Nil(t, charge.PaidDate)

	var stored models.Charge
	require.NoError(t, db.First(&stored, charge.ID).Error)
	assert.Equal(t, 400.0, stored.PaidAmount)
	assert.Equal(t, models.ChargeStatusPartiallyPaid, stored.Status)
}

func TestRecalculateChargeStatusFullySettled(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())

	createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusConfirmed)
	createPayment(t, db, charge.ID, w.resident.ID, 600, models.PaymentStatusConfirmed)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))

	assert.Equal(t, 1000.0, charge.PaidAmount)
	assert.Equal(t, models.ChargeStatusPaid, charge.Status)
	require.NotNil(t, charge.PaidDate)
	assert.Equal(t, 0.0, charge.RemainingAmount())
	assert.False(t, charge.IsOverdue())
}

func TestRecalculateChargeStatusNoConfirmedPayments(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())

	createPayment(t, db, charge.ID, w.resident.ID, 999, models.PaymentStatusPending)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))

	assert.Equal(t, 0.0, charge.PaidAmount)
	assert.Equal(t, models.ChargeStatusUnpaid, charge.Status)
	assert.Nil(t, charge.PaidDate)
}

func TestRecalculateChargeStatusIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	createPayment(t, db, charge.ID, w.resident.ID, 1000, models.PaymentStatusConfirmed)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))
	firstPaidDate := charge.PaidDate
	require.NotNil(t, firstPaidDate)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))

	assert.Equal(t, 1000.0, charge.PaidAmount)
	assert.Equal(t, models.ChargeStatusPaid, charge.Status)
	// The paid date set on the first pass is preserved.
	require.NotNil(t, charge.PaidDate)
	assert.Equal(t, firstPaidDate.Unix(), charge.PaidDate.Unix())
}

func TestRecalculateChargeStatusClearsPaidDateOnRegression(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	payment := createPayment(t, db, charge.ID, w.resident.ID, 1000, models.PaymentStatusConfirmed)

	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))
	require.Equal(t, models.ChargeStatusPaid, charge.Status)

	// Payment turns out to be wrong and is rejected after the fact.
	require.NoError(t, db.Model(&payment).Update("status", models.PaymentStatusRejected).Error)
	require.NoError(t, handlers.RecalculateChargeStatus(db, &charge))

	assert.Equal(t, 0.0, charge.PaidAmount)
	assert.Equal(t, models.ChargeStatusUnpaid, charge.Status)
	assert.Nil(t, charge.PaidDate)
}

func TestChargeIsOverdue(t *testing.T) {
	unpaidPast := models.Charge{Status: models.ChargeStatusUnpaid, DueDate: pastDate()}
	assert.True(t, unpaidPast.IsOverdue())

	unpaidFuture := models.Charge{Status: models.ChargeStatusUnpaid, DueDate: futureDate()}
	assert.False(t, unpaidFuture.IsOverdue())

	// A settled charge is never overdue, however old its due date is.
	paidPast := models.Charge{Status: models.ChargeStatusPaid, DueDate: pastDate()}
	assert.False(t, paidPast.IsOverdue())
}

func TestChargeRemainingAmountNeverNegative(t *testing.T) {
	overpaid := models.Charge{Amount: 100, PaidAmount: 150}
	assert.Equal(t, 0.0, overpaid.RemainingAmount())

	partial := models.Charge{Amount: 100, PaidAmount: 40}
	assert.Equal(t, 60.0, partial.RemainingAmount())
}
