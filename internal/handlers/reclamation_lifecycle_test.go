// syndicare/internal/handlers/reclamation_lifecycle_test.go
package handlers_test

import (
	"errors"
	"testing"

	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclamationLegalWalkToResolved(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	reclamation := createReclamation(t, db, w)

	require.NoError(t, handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusInProgress, w.syndic.ID, "taking a look"))
	assert.Equal(t, models.ReclamationStatusInProgress, reclamation.Status)
	assert.Nil(t, reclamation.ClosedAt)

	require.NoError(t, handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusResolved, w.syndic.ID, "fixed"))
	assert.Equal(t, models.ReclamationStatusResolved, reclamation.Status)
	require.NotNil(t, reclamation.ClosedAt)

	var history []models.ReclamationStatusHistory
	require.NoError(t, db.Where("reclamation_id = ?", reclamation.ID).Order("changed_at asc").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, models.ReclamationStatusPending, history[0].OldStatus)
	assert.Equal(t, models.ReclamationStatusInProgress, history[0].NewStatus)
	assert.Equal(t, models.ReclamationStatusInProgress, history[1].OldStatus)
	assert.Equal(t, models.ReclamationStatusResolved, history[1].NewStatus)
	require.NotNil(t, history[1].ChangedByID)
	assert.Equal(t, w.syndic.ID, *history[1].ChangedByID)
}

func TestReclamationRejectionIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	reclamation := createReclamation(t, db, w)

	require.NoError(t, handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusRejected, w.syndic.ID, "duplicate"))

	err := handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusInProgress, w.syndic.ID, "")
	var transitionErr *handlers.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.ReclamationStatusRejected, transitionErr.From)
	assert.Equal(t, models.ReclamationStatusInProgress, transitionErr.To)

	// The rejected transition left exactly one audit row; the refused one, none.
	var n int64
	require.NoError(t, db.Model(&models.ReclamationStatusHistory{}).
		Where("reclamation_id = ?", reclamation.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestReclamationSelfTransitionIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	reclamation := createReclamation(t, db, w)

	require.NoError(t, handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusPending, w.syndic.ID, "still pending"))
	assert.Equal(t, models.ReclamationStatusPending, reclamation.Status)

	var n int64
	require.NoError(t, db.Model(&models.ReclamationStatusHistory{}).
		Where("reclamation_id = ?", reclamation.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestReclamationSkippingInProgressIsRefused(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	reclamation := createReclamation(t, db, w)

	err := handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusResolved, w.syndic.ID, "")
	var transitionErr *handlers.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.ReclamationStatusPending, reclamation.Status)
}

func TestReclamationConcurrentMoveLoses(t *testing.T) {
	db := setupTestDB(t)
	w := seedWorld(t, db)
	reclamation := createReclamation(t, db, w)

	// Another actor moved the row after we loaded it.
	stale := reclamation
	require.NoError(t, handlers.ChangeReclamationStatus(db, &reclamation, models.ReclamationStatusRejected, w.syndic.ID, ""))

	err := handlers.ChangeReclamationStatus(db, &stale, models.ReclamationStatusInProgress, w.syndic.ID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, handlers.ErrInvalidState))

	var n int64
	require.NoError(t, db.Model(&models.ReclamationStatusHistory{}).
		Where("reclamation_id = ?", reclamation.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
