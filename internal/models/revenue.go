package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueSettings is the admin-configured percentage split for inspection fees.
// Exactly one row is active at a time; activating a row deactivates the rest.
type RevenueSettings struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	DealerPct   decimal.Decimal `db:"dealer_pct" json:"dealerPct"`
	PlatformPct decimal.Decimal `db:"platform_pct" json:"platformPct"`
	Active      bool            `db:"active" json:"active"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// RevenueSplit records how one inspection-fee payment was divided between the
// dealer and the platform. DealerAmount + PlatformAmount == Total exactly.
type RevenueSplit struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	InspectionID     uuid.UUID       `db:"inspection_id" json:"inspectionId"`
	TransactionID    uuid.UUID       `db:"transaction_id" json:"transactionId"`
	Total            decimal.Decimal `db:"total" json:"total"`
	DealerAmount     decimal.Decimal `db:"dealer_amount" json:"dealerAmount"`
	DealerPct        decimal.Decimal `db:"dealer_pct" json:"dealerPct"`
	PlatformAmount   decimal.Decimal `db:"platform_amount" json:"platformAmount"`
	PlatformPct      decimal.Decimal `db:"platform_pct" json:"platformPct"`
	SettingsID       uuid.UUID       `db:"settings_id" json:"settingsId"`
	DealerCredited   bool            `db:"dealer_credited" json:"dealerCredited"`
	DealerCreditedAt *time.Time      `db:"dealer_credited_at" json:"dealerCreditedAt,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
}
