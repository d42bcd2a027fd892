package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// User is a staff member. Owners have no outlet binding; cashiers belong to one.
type User struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OutletID     *uuid.UUID      `gorm:"column:outlet_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.StaffRole `gorm:"column:role;not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
