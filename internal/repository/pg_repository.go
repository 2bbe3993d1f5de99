package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/ledger"
	"github.com/motorhaven/wallet-service/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrWalletAlreadyExist  = errors.New("wallet already exists")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDuplicateReference  = errors.New("transaction reference already used")
	ErrTransactionNotFound = errors.New("transaction not found")
)

const txColumns = `id, sender, recipient, sender_wallet_id, recipient_wallet_id,
	amount, type, source, status, tx_ref, correlation_id, narration,
	order_id, booking_id, inspection_id, created_at, updated_at`

type LedgerPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLedgerPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *LedgerPGRepository {
	return &LedgerPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// WithTx runs fn inside one database transaction: the atomic unit of every
// mutating operation. Any error rolls back everything, log rows included.
func (r *LedgerPGRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit transaction", slog.Any("err", err))
		return err
	}
	return nil
}

// GetWalletForUpdate reads a wallet row under an exclusive lock held until the
// enclosing atomic unit ends. It is the only way a balance may be read inside
// a mutating operation.
func (r *LedgerPGRepository) GetWalletForUpdate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.QueryRow(ctx, `
		SELECT id, owner_id, balance, currency, created_at, updated_at
		FROM wallets WHERE id = $1 FOR UPDATE`, walletID).
		Scan(&w.ID, &w.OwnerID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to select wallet for update",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return &w, nil
}

// LockWallets acquires row locks on every wallet in ascending id order, so two
// crossing transfers (A->B and B->A) always lock in the same order and cannot
// deadlock.
func (r *LedgerPGRepository) LockWallets(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) (map[uuid.UUID]*models.Wallet, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	wallets := make(map[uuid.UUID]*models.Wallet, len(ordered))
	for _, id := range ordered {
		w, err := r.GetWalletForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		wallets[id] = w
	}
	return wallets, nil
}

// AppendTransaction inserts one log row. The (type, tx_ref) unique index maps
// to ErrDuplicateReference so callers can fall back to idempotent replay.
func (r *LedgerPGRepository) AppendTransaction(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error {
	if !txn.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (id, sender, recipient, sender_wallet_id, recipient_wallet_id,
			amount, type, source, status, tx_ref, correlation_id, narration,
			order_id, booking_id, inspection_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		txn.ID, txn.Sender, txn.Recipient, txn.SenderWalletID, txn.RecipientWalletID,
		txn.Amount, txn.Type, txn.Source, txn.Status, txn.TxRef, txn.CorrelationID, txn.Narration,
		txn.OrderID, txn.BookingID, txn.InspectionID).
		Scan(&txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		r.logger.Error("Failed to append transaction",
			slog.String("transaction_id", txn.ID.String()),
			slog.String("type", string(txn.Type)),
			slog.Any("err", err),
		)
		return err
	}
	return nil
}

// UpdateTransactionStatus moves a transaction from -> to, validated against
// the state machine and guarded in SQL by the expected current status, so a
// row can never be completed twice even under concurrent retries.
func (r *LedgerPGRepository) UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.TransactionStatus) error {
	if err := ledger.ValidateTransition(from, to); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE transactions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update transaction status",
			slog.String("transaction_id", id.String()),
			slog.String("to", string(to)),
			slog.Any("err", err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		var current models.TransactionStatus
		err := tx.QueryRow(ctx, "SELECT status FROM transactions WHERE id = $1", id).Scan(&current)
		if err == pgx.ErrNoRows {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: row is %s, expected %s", ledger.ErrInvalidTransition, current, from)
	}
	return nil
}

// ApplyBalanceDelta adds delta to the wallet's ledger balance. The condition
// on the UPDATE keeps a debit from ever taking the balance below zero.
func (r *LedgerPGRepository) ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance`, delta, walletID).Scan(&balance)
	if err == pgx.ErrNoRows {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)", walletID).Scan(&exists); err != nil {
			return decimal.Zero, err
		}
		if !exists {
			return decimal.Zero, ErrWalletNotFound
		}
		return decimal.Zero, ErrInsufficientFunds
	}
	if err != nil {
		r.logger.Error("Failed to apply balance delta",
			slog.String("wallet_id", walletID.String()),
			slog.Any("delta", delta),
			slog.Any("err", err),
		)
		return decimal.Zero, err
	}
	return balance, nil
}

// LockedAmount sums the withdraw rows currently held in locked state against
// the wallet; available balance = ledger balance - this sum.
func (r *LedgerPGRepository) LockedAmount(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (decimal.Decimal, error) {
	var locked decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE sender_wallet_id = $1 AND status = $2 AND type = $3`,
		walletID, models.StatusLocked, models.TypeWithdraw).Scan(&locked)
	if err != nil {
		r.logger.Error("Failed to sum locked amount",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return decimal.Zero, err
	}
	return locked, nil
}

func (r *LedgerPGRepository) FindByReference(ctx context.Context, txType models.TransactionType, txRef string) (*models.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+txColumns+` FROM transactions WHERE type = $1 AND tx_ref = $2`, txType, txRef)
	return scanTransaction(row)
}

func (r *LedgerPGRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *LedgerPGRepository) GetTransactionForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Transaction, error) {
	row := tx.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	return scanTransaction(row)
}

// UpdateTransactionRef records the gateway reference handed back on payout
// initiation. Only rows that are still in flight may be stamped.
func (r *LedgerPGRepository) UpdateTransactionRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, txRef string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transactions SET tx_ref = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)`,
		txRef, id, models.StatusPending, models.StatusLocked)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		r.logger.Error("Failed to update transaction reference",
			slog.String("transaction_id", id.String()),
			slog.Any("err", err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// FindCounterpart locks and returns the other leg of a transfer pair.
func (r *LedgerPGRepository) FindCounterpart(ctx context.Context, tx pgx.Tx, correlationID, excludeID uuid.UUID) (*models.Transaction, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE correlation_id = $1 AND id <> $2 FOR UPDATE`, correlationID, excludeID)
	return scanTransaction(row)
}

// AvailableBalance is the lock-free read contract: ledger balance minus the
// sum of withdraw rows currently locked against the wallet.
func (r *LedgerPGRepository) AvailableBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var balance, locked decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT w.balance, COALESCE((
			SELECT SUM(t.amount) FROM transactions t
			WHERE t.sender_wallet_id = w.id AND t.status = $2 AND t.type = $3
		), 0)
		FROM wallets w WHERE w.id = $1`,
		walletID, models.StatusLocked, models.TypeWithdraw).Scan(&balance, &locked)
	if err == pgx.ErrNoRows {
		return decimal.Zero, decimal.Zero, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to read available balance",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return decimal.Zero, decimal.Zero, err
	}
	return balance, balance.Sub(locked), nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Sender, &t.Recipient, &t.SenderWalletID, &t.RecipientWalletID,
		&t.Amount, &t.Type, &t.Source, &t.Status, &t.TxRef, &t.CorrelationID, &t.Narration,
		&t.OrderID, &t.BookingID, &t.InspectionID, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *LedgerPGRepository) CreateWallet(ctx context.Context, walletID, ownerID uuid.UUID, currency string) (*models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx, `
		INSERT INTO wallets (id, owner_id, balance, currency) VALUES ($1, $2, 0, $3)
		RETURNING id, owner_id, balance, currency, created_at, updated_at`,
		walletID, ownerID, currency).
		Scan(&w.ID, &w.OwnerID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrWalletAlreadyExist
		}
		r.logger.Error("Failed to create wallet",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return &w, nil
}

func (r *LedgerPGRepository) GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, balance, currency, created_at, updated_at
		FROM wallets WHERE id = $1`, walletID).
		Scan(&w.ID, &w.OwnerID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get wallet",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return &w, nil
}

func (r *LedgerPGRepository) GetBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx, "SELECT balance FROM wallets WHERE id = $1", walletID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get balance",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return decimal.Zero, err
	}
	return balance, nil
}

// ListTransactions reads the wallet's history (either leg), newest first,
// without locks. Zero filter fields mean "any".
func (r *LedgerPGRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.HistoryFilter) ([]models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
		WHERE (sender_wallet_id = $1 OR recipient_wallet_id = $1)`
	args := []any{walletID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Sender, &t.Recipient, &t.SenderWalletID, &t.RecipientWalletID,
			&t.Amount, &t.Type, &t.Source, &t.Status, &t.TxRef, &t.CorrelationID, &t.Narration,
			&t.OrderID, &t.BookingID, &t.InspectionID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
