// syndicare/models/user.go
package models

import "gorm.io/gorm"

// User roles. Admins manage syndics, syndics manage buildings and their
// residents, residents interact with their own apartment only.
const (
	RoleAdmin    = "ADMIN"
	RoleSyndic   = "SYNDIC"
	RoleResident = "RESIDENT"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-" gorm:"not null"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" gorm:"type:varchar(10);not null;index"`
}

// UserResponse is the public projection of a user embedded in API payloads.
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
