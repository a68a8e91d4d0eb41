// syndicare/internal/handlers/reclamation_lifecycle.go
package handlers

import (
	"time"

	"github.com/khalidesskali/syndicare/models"
	"gorm.io/gorm"
)

// validStatusTransitions is the legal state graph for reclamations.
// PENDING is the initial state; RESOLVED and REJECTED are terminal.
var validStatusTransitions = map[string][]string{
	models.ReclamationStatusPending:    {models.ReclamationStatusInProgress, models.ReclamationStatusRejected},
	models.ReclamationStatusInProgress: {models.ReclamationStatusResolved},
	models.ReclamationStatusResolved:   {},
	models.ReclamationStatusRejected:   {},
}

// ChangeReclamationStatus is the single write path for reclamation statuses.
// A request for the current status is a no-op and produces no history row.
// Every applied transition appends exactly one audit entry.
//
// The status update is conditional on the previously observed status, so of
// two concurrent attempts only one can apply; the loser gets ErrInvalidState.
func ChangeReclamationStatus(tx *gorm.DB, reclamation *models.Reclamation, newStatus string, actorID uint, comment string) error {
	oldStatus := reclamation.Status

	if newStatus == oldStatus {
		return nil
	}

	allowed := validStatusTransitions[oldStatus]
	permitted := false
	for _, s := range allowed {
		if s == newStatus {
			permitted = true
			break
		}
	}
	if !permitted {
		return &InvalidTransitionError{From: oldStatus, To: newStatus}
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.ReclamationStatusResolved {
		now := time.Now()
		updates["closed_at"] = &now
		reclamation.ClosedAt = &now
	}

	result := tx.Model(&models.Reclamation{}).
		Where("id = ? AND status = ?", reclamation.ID, oldStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Someone else moved the reclamation first.
		return ErrInvalidState
	}
	reclamation.Status = newStatus

	history := models.ReclamationStatusHistory{
		ReclamationID: reclamation.ID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedByID:   &actorID,
		Comment:       comment,
		ChangedAt:     time.Now(),
	}
	return tx.Create(&history).Error
}
