// syndicare/internal/handlers/testutil_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/config"
	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	config.DB = db
	return db
}

// world is the minimal seeded environment most tests share: one syndic
// managing one building with one apartment occupied by one resident.
type world struct {
	syndic    models.User
	resident  models.User
	building  models.Building
	apartment models.Apartment
}

func seedWorld(t *testing.T, db *gorm.DB) world {
	syndic := models.User{Email: "syndic@example.com", Password: "x", Role: models.RoleSyndic}
	require.NoError(t, db.Create(&syndic).Error)

	resident := models.User{Email: "resident@example.com", Password: "x", Role: models.RoleResident}
	require.NoError(t, db.Create(&resident).Error)

	building := models.Building{SyndicID: syndic.ID, Name: "Residence Atlas", Address: "12 Rue des Orangers", Floors: 5}
	require.NoError(t, db.Create(&building).Error)

	apartment := models.Apartment{
		BuildingID:    building.ID,
		ResidentID:    &resident.ID,
		Number:        "A1",
		Floor:         1,
		MonthlyCharge: 500,
	}
	require.NoError(t, db.Create(&apartment).Error)

	return world{syndic: syndic, resident: resident, building: building, apartment: apartment}
}

func createCharge(t *testing.T, db *gorm.DB, apartmentID uint, amount float64, dueDate time.Time) models.Charge {
	charge := models.Charge{
		ApartmentID: apartmentID,
		Description: "Monthly charge",
		Amount:      amount,
		DueDate:     dueDate,
		Status:      models.ChargeStatusUnpaid,
	}
	require.NoError(t, db.Create(&charge).Error)
	return charge
}

func createPayment(t *testing.T, db *gorm.DB, chargeID, residentID uint, amount float64, status string) models.ResidentPayment {
	payment := models.ResidentPayment{
		ChargeID:   chargeID,
		ResidentID: residentID,
		Amount:     amount,
		Method:     models.PaymentMethodCash,
		Reference:  "ref",
		Status:     status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func createReclamation(t *testing.T, db *gorm.DB, w world) models.Reclamation {
	reclamation := models.Reclamation{
		ResidentID:  w.resident.ID,
		SyndicID:    w.syndic.ID,
		ApartmentID: w.apartment.ID,
		Title:       "Water leak",
		Content:     "There is a leak in the bathroom ceiling.",
		Status:      models.ReclamationStatusPending,
		Priority:    models.PriorityHigh,
	}
	require.NoError(t, db.Create(&reclamation).Error)
	return reclamation
}

// newRouter builds a router with the handlers under test behind a stub
// identity middleware impersonating the given user.
func newRouter(userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	})

	r.POST("/api/auth/login", handlers.LoginHandler)
	r.GET("/api/charges", handlers.ListChargesHandler)
	r.GET("/api/charges/statistics", handlers.ChargeStatisticsHandler)
	r.POST("/api/charges/bulk-create", handlers.BulkCreateChargesHandler)
	r.DELETE("/api/charges/:id", handlers.DeleteChargeHandler)
	r.POST("/api/charges/:id/payments", handlers.SubmitPaymentHandler)
	r.POST("/api/payments/:id/confirm", handlers.ConfirmPaymentHandler)
	r.POST("/api/payments/:id/reject", handlers.RejectPaymentHandler)
	r.POST("/api/reclamations/:id/change-status", handlers.ChangeReclamationStatusHandler)
	r.POST("/api/reclamations/:id/respond", handlers.RespondReclamationHandler)
	r.GET("/api/reclamations/:id/history", handlers.ReclamationHistoryHandler)
	r.GET("/api/resident/charges", handlers.ListResidentChargesHandler)
	r.POST("/api/resident/reclamations", handlers.CreateReclamationHandler)
	r.POST("/api/chatbot/message", handlers.ChatbotMessageHandler)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func futureDate() time.Time {
	return time.Now().AddDate(0, 0, 10)
}

func pastDate() time.Time {
	return time.Now().AddDate(0, 0, -10)
}
