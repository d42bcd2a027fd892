package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory groups services on the POS screen (e.g. "Kiloan", "Satuan").
type ServiceCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Services []LaundryService `gorm:"foreignKey:CategoryID"`
}

// LaundryService is a service type within a category (e.g. "Wash & Fold").
type LaundryService struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Packages []ServicePackage `gorm:"foreignKey:ServiceID"`
}

// ServicePackage is the priced, purchasable unit (e.g. "Wash & Fold 1kg").
// Prices are integer rupiah; there is no fractional currency arithmetic.
type ServicePackage struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID        uuid.UUID `gorm:"column:service_id;type:uuid;not null"`
	Name             string    `gorm:"column:name;not null"`
	UnitPriceRupiah  int       `gorm:"column:unit_price_rupiah;not null"`
	Unit             string    `gorm:"column:unit;not null"`
	MinOrderQuantity int       `gorm:"column:min_order_quantity;not null;default:0"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
