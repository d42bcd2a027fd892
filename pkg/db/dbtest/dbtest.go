// Package dbtest opens throwaway in-memory SQLite databases mirroring the
// production schema. The goose migrations target Postgres, so the tables are
// declared here with SQLite-compatible types: uuid and text[] columns become
// TEXT, numeric stays NUMERIC, and id columns default to a generated UUID
// string so code relying on database-side id generation behaves the same.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const uuidDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' ||
	substr(lower(hex(randomblob(2))),2) || '-' || substr('89ab', abs(random()) % 4 + 1, 1) ||
	substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

var schema = []string{
	`CREATE TABLE IF NOT EXISTS outlets (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  outlet_id TEXT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  address TEXT,
  loyalty_points INTEGER NOT NULL DEFAULT 0,
  is_paid_member INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS service_categories (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  name TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS laundry_services (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS service_packages (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  service_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_rupiah INTEGER NOT NULL,
  unit TEXT NOT NULL,
  min_order_quantity INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  invoice_code TEXT NOT NULL UNIQUE,
  idempotency_key TEXT UNIQUE,
  outlet_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  cashier_id TEXT NOT NULL,
  subtotal_rupiah INTEGER NOT NULL,
  delivery_fee_rupiah INTEGER NOT NULL,
  membership_fee_rupiah INTEGER NOT NULL,
  redeem_discount_rupiah INTEGER NOT NULL,
  grand_total_rupiah INTEGER NOT NULL,
  points_redeemed INTEGER NOT NULL,
  points_earned INTEGER NOT NULL,
  membership_granted INTEGER NOT NULL DEFAULT 0,
  delivery_mode TEXT NOT NULL,
  distance_km NUMERIC NOT NULL DEFAULT 0,
  total_weight_kg NUMERIC NOT NULL DEFAULT 0,
  payment_status TEXT NOT NULL,
  payment_method TEXT,
  paid_at DATETIME,
  stage TEXT NOT NULL,
  service_tags TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  order_id TEXT NOT NULL,
  package_id TEXT NOT NULL,
  package_name TEXT NOT NULL,
  unit TEXT NOT NULL,
  unit_price_rupiah INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal_rupiah INTEGER NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_stage_logs (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  order_id TEXT NOT NULL,
  from_stage TEXT NOT NULL,
  to_stage TEXT NOT NULL,
  changed_by TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS business_settings (
  id INTEGER PRIMARY KEY,
  delivery_service_enabled INTEGER NOT NULL DEFAULT 0,
  free_pickup_distance_km NUMERIC NOT NULL DEFAULT 0,
  pickup_fee_rupiah INTEGER NOT NULL DEFAULT 0,
  free_dropoff_distance_km NUMERIC NOT NULL DEFAULT 0,
  dropoff_fee_rupiah INTEGER NOT NULL DEFAULT 0,
  loyalty_scheme TEXT NOT NULL DEFAULT 'disabled',
  rupiah_per_point_earned INTEGER NOT NULL DEFAULT 0,
  kg_per_point NUMERIC NOT NULL DEFAULT 0,
  points_per_kg INTEGER NOT NULL DEFAULT 0,
  points_per_visit INTEGER NOT NULL DEFAULT 0,
  rupiah_per_point_redeemed INTEGER NOT NULL DEFAULT 0,
  min_points_to_redeem INTEGER NOT NULL DEFAULT 0,
  membership_fee_required INTEGER NOT NULL DEFAULT 0,
  membership_fee_rupiah INTEGER NOT NULL DEFAULT 0,
  merchandise_bonus_enabled INTEGER NOT NULL DEFAULT 0,
  merchandise_bonus_points INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY DEFAULT ` + uuidDefault + `,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  published_at DATETIME,
  created_at DATETIME
);`,
}

// Open returns an isolated in-memory database with the full schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
