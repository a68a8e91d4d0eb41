// syndicare/models/models.go
package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every model in the
// application. Called once at startup and by the test fixtures.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Building{},
		&Apartment{},
		&Charge{},
		&ResidentPayment{},
		&Reclamation{},
		&ReclamationStatusHistory{},
	)
}
