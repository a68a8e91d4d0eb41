// syndicare/models/building.go
package models

import "gorm.io/gorm"

// Building is a property managed by exactly one syndic.
type Building struct {
	gorm.Model
	SyndicID uint   `json:"syndic_id" gorm:"not null;index"`
	Syndic   User   `json:"-" gorm:"foreignKey:SyndicID"`
	Name     string `json:"name" gorm:"not null"`
	Address  string `json:"address"`
	Floors   int    `json:"floors" gorm:"default:1"`
}
