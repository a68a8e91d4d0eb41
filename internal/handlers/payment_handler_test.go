// syndicare/internal/handlers/payment_handler_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/khalidesskali/syndicare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPaymentCreatesPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())

	r := newRouter(w.resident.ID, models.RoleResident)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/charges/%d/payments", charge.ID), map[string]interface{}{
		"amount": 400,
		"method": models.PaymentMethodBankTransfer,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var payments []models.ResidentPayment
	require.NoError(t, db.Where("charge_id = ?", charge.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, 400.0, payments[0].Amount)
	assert.NotEmpty(t, payments[0].Reference)

	// Submitting never touches the charge itself.
	var stored models.Charge
	require.NoError(t, db.First(&stored, charge.ID).Error)
	assert.Equal(t, models.ChargeStatusUnpaid, stored.Status)
	assert.Equal(t, 0.0, stored.PaidAmount)
}

func TestSubmitPaymentRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	r := newRouter(w.resident.ID, models.RoleResident)

	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/charges/%d/payments", charge.ID), map[string]interface{}{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/charges/%d/payments", charge.ID), map[string]interface{}{"amount": 100, "method": "CHECK"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doRequest(t, r, http.MethodPost, "/api/charges/999999/payments", map[string]interface{}{"amount": 100})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSubmitPaymentForeignChargeForbidden(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())

	intruder := models.User{Email: "other@example.com", Password: "x", Role: models.RoleResident}
	require.NoError(t, db.Create(&intruder).Error)

	r := newRouter(intruder.ID, models.RoleResident)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/charges/%d/payments", charge.ID), map[string]interface{}{"amount": 100})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestConfirmPaymentsDrivesChargeToPaid(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	first := createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusPending)
	second := createPayment(t, db, charge.ID, w.resident.ID, 600, models.PaymentStatusPending)

	r := newRouter(w.syndic.ID, models.RoleSyndic)

	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", first.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.ChargeStatusPartiallyPaid, data["charge_status"])
	assert.Equal(t, 400.0, data["charge_paid_amount"])

	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", second.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	data = decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, models.ChargeStatusPaid, data["charge_status"])
	assert.Equal(t, 1000.0, data["charge_paid_amount"])

	var stored models.Charge
	require.NoError(t, db.First(&stored, charge.ID).Error)
	assert.Equal(t, models.ChargeStatusPaid, stored.Status)
	assert.Equal(t, 1000.0, stored.PaidAmount)
	assert.NotNil(t, stored.PaidDate)
}

func TestConfirmPaymentTwiceIsRefused(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	payment := createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusPending)

	r := newRouter(w.syndic.ID, models.RoleSyndic)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", payment.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", payment.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// The double confirmation never double-counts.
	var stored models.Charge
	require.NoError(t, db.First(&stored, charge.ID).Error)
	assert.Equal(t, 400.0, stored.PaidAmount)
}

func TestRejectPaymentLeavesChargeUntouched(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	confirmed := createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusPending)
	doomed := createPayment(t, db, charge.ID, w.resident.ID, 100, models.PaymentStatusPending)

	r := newRouter(w.syndic.ID, models.RoleSyndic)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", confirmed.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/reject", doomed.ID), map[string]interface{}{"reason": "no matching bank transfer"})
	require.Equal(t, http.StatusOK, resp.Code)

	var stored models.Charge
	require.NoError(t, db.First(&stored, charge.ID).Error)
	assert.Equal(t, 400.0, stored.PaidAmount)
	assert.Equal(t, models.ChargeStatusPartiallyPaid, stored.Status)

	var storedPayment models.ResidentPayment
	require.NoError(t, db.First(&storedPayment, doomed.ID).Error)
	assert.Equal(t, models.PaymentStatusRejected, storedPayment.Status)
	assert.Equal(t, "no matching bank transfer", storedPayment.Notes)
}

func TestRejectNonPendingPaymentIsRefused(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	payment := createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusRejected)

	r := newRouter(w.syndic.ID, models.RoleSyndic)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/reject", payment.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDecidePaymentOfForeignBuildingForbidden(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	charge := createCharge(t, db, w.apartment.ID, 1000, futureDate())
	payment := createPayment(t, db, charge.ID, w.resident.ID, 400, models.PaymentStatusPending)

	otherSyndic := models.User{Email: "other-syndic@example.com", Password: "x", Role: models.RoleSyndic}
	require.NoError(t, db.Create(&otherSyndic).Error)

	r := newRouter(otherSyndic.ID, models.RoleSyndic)
	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/payments/%d/confirm", payment.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var stored models.ResidentPayment
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestConfirmMissingPaymentNotFound(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)

	r := newRouter(w.syndic.ID, models.RoleSyndic)
	resp := doRequest(t, r, http.MethodPost, "/api/payments/424242/confirm", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
