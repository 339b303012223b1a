package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		name TEXT NOT NULL,
		max_people INTEGER NOT NULL DEFAULT 0,
		bed_count INTEGER NOT NULL DEFAULT 0,
		has_parking BOOLEAN NOT NULL DEFAULT FALSE,
		base_price NUMERIC(14, 2) NOT NULL DEFAULT 0,
		cleaning_fee NUMERIC(14, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS blacklist_entries (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		guest_name TEXT NOT NULL,
		guest_phone TEXT NOT NULL,
		reason TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS blacklist_entries_phone_idx ON blacklist_entries (tenant_id, guest_phone) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS supplies (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		name TEXT NOT NULL,
		cost NUMERIC(14, 2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		unit_id UUID NOT NULL REFERENCES units (id),
		group_id UUID,
		check_in DATE NOT NULL,
		check_out DATE NOT NULL,
		-- the last segment of a split absorbs rounding and can drop below zero
		total_amount NUMERIC(14, 2) NOT NULL,
		deposit_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		cleaning_fee NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (cleaning_fee >= 0),
		amenities_fee NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (amenities_fee >= 0),
		currency TEXT NOT NULL DEFAULT 'ARS',
		payment_status TEXT NOT NULL DEFAULT 'UNPAID',
		status TEXT NOT NULL DEFAULT 'CONFIRMED',
		guest_name TEXT NOT NULL,
		guest_phone TEXT NOT NULL DEFAULT '',
		guest_people_count INTEGER NOT NULL DEFAULT 1,
		beds_required INTEGER NOT NULL DEFAULT 1,
		has_parking BOOLEAN NOT NULL DEFAULT FALSE,
		source TEXT NOT NULL DEFAULT 'DIRECT',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (check_out > check_in)
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_unit_range_idx ON reservations (tenant_id, unit_id, check_in, check_out)`,
	`CREATE INDEX IF NOT EXISTS reservations_group_idx ON reservations (group_id) WHERE group_id IS NOT NULL`,
}

// Migrate creates the tables the reservation engine needs when they are
// missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}

	return nil
}
