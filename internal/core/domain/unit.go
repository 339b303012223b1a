package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is a rentable department.
type Unit struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	MaxPeople   int
	BedCount    int
	HasParking  bool
	BasePrice   decimal.Decimal
	CleaningFee decimal.Decimal
}

type BlacklistEntry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	GuestName  string
	GuestPhone string
	Reason     string
	IsActive   bool
}

// SettingsSnapshot is the tenant configuration read once per command.
type SettingsSnapshot struct {
	AmenitiesFee    decimal.Decimal
	DefaultCurrency Currency
}
