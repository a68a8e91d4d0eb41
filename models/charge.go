// syndicare/models/charge.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Charge statuses. OVERDUE is intentionally absent: it is derived at read
// time from the due date and never stored (see IsOverdue).
const (
	ChargeStatusUnpaid        = "UNPAID"
	ChargeStatusPartiallyPaid = "PARTIALLY_PAID"
	ChargeStatusPaid          = "PAID"
)

// Charge is an obligation owed by the occupant of an apartment. PaidAmount
// and Status are derived from the confirmed payments of the charge and are
// only written by the recalculation helper.
type Charge struct {
	gorm.Model
	ApartmentID uint       `json:"apartment_id" gorm:"not null;index"`
	Apartment   Apartment  `json:"-" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	Description string     `json:"description" gorm:"not null"`
	Amount      float64    `json:"amount" gorm:"type:numeric(12,2);not null"`
	DueDate     time.Time  `json:"due_date" gorm:"not null"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	PaidAmount  float64    `json:"paid_amount" gorm:"type:numeric(12,2);not null;default:0"`
	PaidDate    *time.Time `json:"paid_date"`
}

// IsOverdue reports whether the charge is past due and not settled.
func (c *Charge) IsOverdue() bool {
	if c.Status == ChargeStatusPaid {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return c.DueDate.Before(today)
}

// RemainingAmount is the outstanding part of the charge, never negative.
func (c *Charge) RemainingAmount() float64 {
	remaining := c.Amount - c.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}
