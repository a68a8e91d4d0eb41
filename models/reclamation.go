// syndicare/models/reclamation.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReclamationStatusPending    = "PENDING"
	ReclamationStatusInProgress = "IN_PROGRESS"
	ReclamationStatusResolved   = "RESOLVED"
	ReclamationStatusRejected   = "REJECTED"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Reclamation is a complaint submitted by a resident to the syndic of their
// building. The syndic and apartment are captured at creation time and never
// change afterwards, even if the resident later moves.
type Reclamation struct {
	gorm.Model
	ResidentID  uint       `json:"resident_id" gorm:"not null;index"`
	Resident    User       `json:"-" gorm:"foreignKey:ResidentID"`
	SyndicID    uint       `json:"syndic_id" gorm:"not null;index"`
	Syndic      User       `json:"-" gorm:"foreignKey:SyndicID"`
	ApartmentID uint       `json:"apartment_id" gorm:"not null;index"`
	Apartment   Apartment  `json:"-" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"not null"`
	Content     string     `json:"content" gorm:"not null"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Priority    string     `json:"priority" gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	Response    *string    `json:"response"`
	ClosedAt    *time.Time `json:"closed_at"`
}

// ReclamationStatusHistory is the append-only audit trail of a reclamation.
// Rows are only ever inserted, one per applied transition, and survive the
// removal of the acting user (ChangedByID becomes NULL).
type ReclamationStatusHistory struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	ReclamationID uint        `json:"reclamation_id" gorm:"not null;index"`
	Reclamation   Reclamation `json:"-" gorm:"foreignKey:ReclamationID;constraint:OnDelete:CASCADE"`
	OldStatus     string      `json:"old_status" gorm:"type:varchar(20);not null"`
	NewStatus     string      `json:"new_status" gorm:"type:varchar(20);not null"`
	ChangedByID   *uint       `json:"changed_by_id"`
	ChangedBy     *User       `json:"-" gorm:"foreignKey:ChangedByID;constraint:OnDelete:SET NULL"`
	Comment       string      `json:"comment"`
	ChangedAt     time.Time   `json:"changed_at" gorm:"not null;index"`
}
