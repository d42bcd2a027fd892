package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/pkg/types"
)

// Customer is shared loyalty state across all outlets. The loyalty point
// balance is only ever mutated inside the order commit transaction, under a
// row lock.
type Customer struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Phone         string         `gorm:"column:phone;uniqueIndex;not null"`
	Address       *types.Address `gorm:"column:address;type:jsonb;serializer:json"`
	LoyaltyPoints int            `gorm:"column:loyalty_points;not null;default:0"`
	IsPaidMember  bool           `gorm:"column:is_paid_member;not null;default:false"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
