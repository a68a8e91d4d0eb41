// syndicare/models/apartment.go
package models

import "gorm.io/gorm"

// Apartment belongs to a building and is occupied by at most one resident.
// MonthlyCharge is the default amount used when charges are generated in bulk
// for the whole building.
type Apartment struct {
	gorm.Model
	BuildingID    uint     `json:"building_id" gorm:"not null;index;uniqueIndex:idx_building_number;constraint:OnDelete:CASCADE"`
	Building      Building `json:"-" gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE"`
	ResidentID    *uint    `json:"resident_id" gorm:"index"`
	Resident      *User    `json:"-" gorm:"foreignKey:ResidentID;constraint:OnDelete:SET NULL"`
	Number        string   `json:"number" gorm:"not null;uniqueIndex:idx_building_number"`
	Floor         int      `json:"floor"`
	MonthlyCharge float64  `json:"monthly_charge" gorm:"type:numeric(12,2);not null"`
}
