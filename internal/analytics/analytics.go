// Package analytics aggregates the transaction log for reporting. Every
// query is read-only and lock-free; it never participates in the write path,
// so "now" is only eventually consistent with in-flight writers.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/models"
)

var (
	ErrInvalidRange = errors.New("date range start must not be after end")
	ErrInvalidLimit = errors.New("limit must be positive")
)

type Reader struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReader(pool *pgxpool.Pool, logger *slog.Logger) *Reader {
	return &Reader{
		pool:   pool,
		logger: logger,
	}
}

type TypeTotal struct {
	Type   models.TransactionType   `json:"type"`
	Status models.TransactionStatus `json:"status"`
	Count  int64                    `json:"count"`
	Total  decimal.Decimal          `json:"total"`
}

type Summary struct {
	WalletID uuid.UUID       `json:"walletId"`
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Totals   []TypeTotal     `json:"totals"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	Net      decimal.Decimal `json:"net"`
}

// Summary aggregates one wallet's ledger rows by type and status, with
// completed inflow/outflow totals for the range.
func (r *Reader) Summary(ctx context.Context, walletID uuid.UUID, from, to time.Time) (*Summary, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT type, status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE (sender_wallet_id = $1 OR recipient_wallet_id = $1)
			AND created_at >= $2 AND created_at < $3
		GROUP BY type, status
		ORDER BY type, status`, walletID, from, to)
	if err != nil {
		r.logger.Error("Summary query failed",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	defer rows.Close()

	s := &Summary{
		WalletID: walletID,
		From:     from,
		To:       to,
		Inflow:   decimal.Zero,
		Outflow:  decimal.Zero,
	}
	for rows.Next() {
		var t TypeTotal
		if err := rows.Scan(&t.Type, &t.Status, &t.Count, &t.Total); err != nil {
			return nil, err
		}
		s.Totals = append(s.Totals, t)
		if t.Status != models.StatusCompleted {
			continue
		}
		switch t.Type {
		case models.TypeDeposit, models.TypeTransferIn, models.TypePayment:
			s.Inflow = s.Inflow.Add(t.Total)
		case models.TypeWithdraw, models.TypeTransferOut, models.TypeCharge:
			s.Outflow = s.Outflow.Add(t.Total)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.Net = s.Inflow.Sub(s.Outflow)
	return s, nil
}

type DailyBucket struct {
	Day    time.Time       `json:"day"`
	Count  int64           `json:"count"`
	Volume decimal.Decimal `json:"volume"`
}

// DailyVolume buckets completed volume per day across all wallets.
func (r *Reader) DailyVolume(ctx context.Context, from, to time.Time) ([]DailyBucket, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day`, models.StatusCompleted, from, to)
	if err != nil {
		r.logger.Error("DailyVolume query failed", slog.Any("err", err))
		return nil, err
	}
	defer rows.Close()

	var out []DailyBucket
	for rows.Next() {
		var b DailyBucket
		if err := rows.Scan(&b.Day, &b.Count, &b.Volume); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type WalletVolume struct {
	WalletID uuid.UUID       `json:"walletId"`
	Volume   decimal.Decimal `json:"volume"`
}

// TopWallets ranks wallets by completed volume touching either leg.
func (r *Reader) TopWallets(ctx context.Context, from, to time.Time, n int) ([]WalletVolume, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT wallet_id, SUM(amount) AS volume FROM (
			SELECT sender_wallet_id AS wallet_id, amount FROM transactions
			WHERE status = $1 AND created_at >= $2 AND created_at < $3 AND sender_wallet_id IS NOT NULL
			UNION ALL
			SELECT recipient_wallet_id AS wallet_id, amount FROM transactions
			WHERE status = $1 AND created_at >= $2 AND created_at < $3 AND recipient_wallet_id IS NOT NULL
		) legs
		GROUP BY wallet_id
		ORDER BY volume DESC
		LIMIT $4`, models.StatusCompleted, from, to, n)
	if err != nil {
		r.logger.Error("TopWallets query failed", slog.Any("err", err))
		return nil, err
	}
	defer rows.Close()

	var out []WalletVolume
	for rows.Next() {
		var wv WalletVolume
		if err := rows.Scan(&wv.WalletID, &wv.Volume); err != nil {
			return nil, err
		}
		out = append(out, wv)
	}
	return out, rows.Err()
}

type SourceTotal struct {
	Source models.TransactionSource `json:"source"`
	Count  int64                    `json:"count"`
	Total  decimal.Decimal          `json:"total"`
}

func (r *Reader) TotalsBySource(ctx context.Context, from, to time.Time) ([]SourceTotal, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT source, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY source
		ORDER BY source`, models.StatusCompleted, from, to)
	if err != nil {
		r.logger.Error("TotalsBySource query failed", slog.Any("err", err))
		return nil, err
	}
	defer rows.Close()

	var out []SourceTotal
	for rows.Next() {
		var st SourceTotal
		if err := rows.Scan(&st.Source, &st.Count, &st.Total); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func checkRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidRange
	}
	return nil
}
