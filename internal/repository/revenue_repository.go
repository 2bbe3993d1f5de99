package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/models"
)

var (
	ErrNoActiveSettings = errors.New("no active revenue settings")
	ErrSplitExists      = errors.New("inspection already split")
	ErrAlreadyCredited  = errors.New("dealer already credited for split")
	ErrSplitNotFound    = errors.New("revenue split not found")
	ErrInvalidSplitPct  = errors.New("percentages must sum to 100")
)

// GetActiveSettings reads the single active percentage configuration inside
// the caller's transaction so a concurrent settings change cannot slide in
// under a running split.
func (r *LedgerPGRepository) GetActiveSettings(ctx context.Context, tx pgx.Tx) (*models.RevenueSettings, error) {
	var s models.RevenueSettings
	err := tx.QueryRow(ctx, `
		SELECT id, dealer_pct, platform_pct, active, created_at
		FROM revenue_settings WHERE active = TRUE`).
		Scan(&s.ID, &s.DealerPct, &s.PlatformPct, &s.Active, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNoActiveSettings
	}
	if err != nil {
		r.logger.Error("Failed to read active revenue settings", slog.Any("err", err))
		return nil, err
	}
	return &s, nil
}

// ActivateSettings inserts a new configuration and deactivates every other
// row in the same transaction, keeping exactly one active at all times.
func (r *LedgerPGRepository) ActivateSettings(ctx context.Context, dealerPct, platformPct decimal.Decimal) (*models.RevenueSettings, error) {
	if !dealerPct.Add(platformPct).Equal(decimal.NewFromInt(100)) {
		return nil, ErrInvalidSplitPct
	}
	if dealerPct.IsNegative() || platformPct.IsNegative() {
		return nil, ErrInvalidSplitPct
	}
	var s models.RevenueSettings
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE revenue_settings SET active = FALSE WHERE active = TRUE"); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO revenue_settings (id, dealer_pct, platform_pct, active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, dealer_pct, platform_pct, active, created_at`,
			uuid.New(), dealerPct, platformPct).
			Scan(&s.ID, &s.DealerPct, &s.PlatformPct, &s.Active, &s.CreatedAt)
	})
	if err != nil {
		r.logger.Error("Failed to activate revenue settings", slog.Any("err", err))
		return nil, err
	}
	return &s, nil
}

func (r *LedgerPGRepository) InsertSplit(ctx context.Context, tx pgx.Tx, split *models.RevenueSplit) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO revenue_splits (id, inspection_id, transaction_id, total,
			dealer_amount, dealer_pct, platform_amount, platform_pct, settings_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		split.ID, split.InspectionID, split.TransactionID, split.Total,
		split.DealerAmount, split.DealerPct, split.PlatformAmount, split.PlatformPct, split.SettingsID).
		Scan(&split.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSplitExists
		}
		r.logger.Error("Failed to insert revenue split",
			slog.String("inspection_id", split.InspectionID.String()),
			slog.Any("err", err),
		)
		return err
	}
	return nil
}

// MarkDealerCredited flips the credited flag exactly once; a second call hits
// the guard and reports ErrAlreadyCredited.
func (r *LedgerPGRepository) MarkDealerCredited(ctx context.Context, tx pgx.Tx, splitID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE revenue_splits SET dealer_credited = TRUE, dealer_credited_at = NOW()
		WHERE id = $1 AND dealer_credited = FALSE`, splitID)
	if err != nil {
		r.logger.Error("Failed to mark dealer credited",
			slog.String("split_id", splitID.String()),
			slog.Any("err", err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCredited
	}
	return nil
}

func (r *LedgerPGRepository) GetSplitByInspection(ctx context.Context, inspectionID uuid.UUID) (*models.RevenueSplit, error) {
	var s models.RevenueSplit
	err := r.pool.QueryRow(ctx, `
		SELECT id, inspection_id, transaction_id, total, dealer_amount, dealer_pct,
			platform_amount, platform_pct, settings_id, dealer_credited, dealer_credited_at, created_at
		FROM revenue_splits WHERE inspection_id = $1`, inspectionID).
		Scan(&s.ID, &s.InspectionID, &s.TransactionID, &s.Total, &s.DealerAmount, &s.DealerPct,
			&s.PlatformAmount, &s.PlatformPct, &s.SettingsID, &s.DealerCredited, &s.DealerCreditedAt, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrSplitNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get revenue split",
			slog.String("inspection_id", inspectionID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return &s, nil
}
