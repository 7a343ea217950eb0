package users

import (
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the public projection of a user account.
type UserDTO struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Phone     string           `json:"phone,omitempty"`
	Role      enums.MemberRole `json:"role"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromModel converts the persistence model into the public DTO.
func FromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// CreateUserDTO carries the fields needed to insert an account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         enums.MemberRole
}

// ToModel builds the persistence model from the DTO.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Phone:        d.Phone,
		Role:         d.Role,
		IsActive:     true,
	}
}
