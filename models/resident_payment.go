// syndicare/models/resident_payment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Resident payment lifecycle. A payment is created PENDING and transitions
// exactly once, to CONFIRMED or REJECTED, by the syndic managing the building
// of the charge. It never goes back to PENDING.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusRejected  = "REJECTED"
)

const (
	PaymentMethodCash         = "CASH"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// ResidentPayment is a resident's claim of having paid toward a charge.
// CreatedAt doubles as the submission time; ConfirmedAt is stamped when the
// syndic decides, whether the decision is a confirmation or a rejection.
type ResidentPayment struct {
	gorm.Model
	ChargeID    uint       `json:"charge_id" gorm:"not null;index"`
	Charge      Charge     `json:"-" gorm:"foreignKey:ChargeID;constraint:OnDelete:CASCADE"`
	ResidentID  uint       `json:"resident_id" gorm:"not null;index"`
	Resident    User       `json:"-" gorm:"foreignKey:ResidentID"`
	Amount      float64    `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method      string     `json:"method" gorm:"type:varchar(20);not null"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	Notes       string     `json:"notes"`
}
