package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/gateway"
	"github.com/motorhaven/wallet-service/internal/models"
	"github.com/motorhaven/wallet-service/internal/repository"
)

var (
	ErrSelfTransfer      = errors.New("sender and recipient wallets must differ")
	ErrReferenceRequired = errors.New("bank operations require a gateway reference")
	ErrPayoutFailed      = errors.New("gateway payout failed")
	ErrPaymentNotSettled = errors.New("payment transaction is not completed")
)

//go:generate mockgen -source=service.go -destination=../../test/mock_ledger_service.go -package=test LedgerRepository

type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	GetWalletForUpdate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*models.Wallet, error)
	LockWallets(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) (map[uuid.UUID]*models.Wallet, error)
	AppendTransaction(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error
	UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.TransactionStatus) error
	UpdateTransactionRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, txRef string) error
	ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	LockedAmount(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (decimal.Decimal, error)
	FindByReference(ctx context.Context, txType models.TransactionType, txRef string) (*models.Transaction, error)
	FindCounterpart(ctx context.Context, tx pgx.Tx, correlationID, excludeID uuid.UUID) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetTransactionForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Transaction, error)
	GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	AvailableBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.HistoryFilter) ([]models.Transaction, error)
	GetActiveSettings(ctx context.Context, tx pgx.Tx) (*models.RevenueSettings, error)
	InsertSplit(ctx context.Context, tx pgx.Tx, split *models.RevenueSplit) error
	MarkDealerCredited(ctx context.Context, tx pgx.Tx, splitID uuid.UUID) error
	GetSplitByInspection(ctx context.Context, inspectionID uuid.UUID) (*models.RevenueSplit, error)
}

type LedgerService struct {
	repo             LedgerRepository
	gateway          gateway.Client
	platformWalletID uuid.UUID
	logger           *slog.Logger
	maxRetries       int
}

// NewLedgerService wires the operations over a store and a provider client.
// platformWalletID may be uuid.Nil; revenue splits then record the platform
// share without crediting a wallet for it.
func NewLedgerService(repo LedgerRepository, gw gateway.Client, platformWalletID uuid.UUID, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		repo:             repo,
		gateway:          gw,
		platformWalletID: platformWalletID,
		logger:           logger,
		maxRetries:       3,
	}
}

// retry re-runs fn on serialization failures and deadlock aborts; everything
// else propagates on the first attempt.
func (s *LedgerService) retry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return err
		}
		s.logger.Warn("Retrying operation",
			slog.String("operation", op),
			slog.Int("attempt", i+1),
			slog.Any("err", err),
		)
		time.Sleep(time.Duration(1<<i) * 10 * time.Microsecond)
		lastErr = err
	}
	s.logger.Error("Operation failed after retries",
		slog.String("operation", op),
		slog.Any("err", lastErr),
	)
	return lastErr
}

// Deposit credits a wallet. A bank deposit carries the gateway reference;
// replaying the same reference returns the original completed row unchanged
// rather than crediting twice.
func (s *LedgerService) Deposit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, source models.TransactionSource, externalRef string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, repository.ErrInvalidAmount
	}
	if source == models.SourceBank && externalRef == "" {
		return nil, ErrReferenceRequired
	}
	if externalRef != "" {
		existing, err := s.repo.FindByReference(ctx, models.TypeDeposit, externalRef)
		if err == nil && existing.Status == models.StatusCompleted {
			return existing, nil
		}
		if err != nil && !errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
	}

	txn := &models.Transaction{
		ID:                uuid.New(),
		Sender:            string(source),
		RecipientWalletID: &walletID,
		Amount:            amount,
		Type:              models.TypeDeposit,
		Source:            source,
		Status:            models.StatusPending,
		TxRef:             externalRef,
	}
	err := s.retry(ctx, "deposit", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			wallet, err := s.repo.GetWalletForUpdate(ctx, tx, walletID)
			if err != nil {
				return err
			}
			txn.Recipient = wallet.OwnerID.String()
			if err := s.repo.AppendTransaction(ctx, tx, txn); err != nil {
				return err
			}
			if err := s.repo.UpdateTransactionStatus(ctx, tx, txn.ID, models.StatusPending, models.StatusCompleted); err != nil {
				return err
			}
			_, err = s.repo.ApplyBalanceDelta(ctx, tx, walletID, amount)
			return err
		})
	})
	if errors.Is(err, repository.ErrDuplicateReference) {
		// Lost the race against a concurrent delivery of the same reference.
		return s.repo.FindByReference(ctx, models.TypeDeposit, externalRef)
	}
	if err != nil {
		s.logger.Error("Deposit failed",
			slog.String("wallet_id", walletID.String()),
			slog.Any("amount", amount),
			slog.Any("err", err),
		)
		return nil, err
	}
	// The struct is only stamped once the unit has committed, so a rolled
	// back attempt retries from a clean pending row.
	txn.Status = models.StatusCompleted
	return txn, nil
}

// Transfer moves amount between two wallets as a pair of completed legs
// sharing one correlation id. The available-balance check happens after both
// row locks are taken; checking earlier reopens the drain race the locks
// exist to close.
func (s *LedgerService) Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, narration string) (*models.Transaction, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, repository.ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, nil, ErrSelfTransfer
	}

	var outLeg, inLeg *models.Transaction
	err := s.retry(ctx, "transfer", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			wallets, err := s.repo.LockWallets(ctx, tx, senderID, recipientID)
			if err != nil {
				return err
			}
			locked, err := s.repo.LockedAmount(ctx, tx, senderID)
			if err != nil {
				return err
			}
			available := wallets[senderID].Balance.Sub(locked)
			if available.LessThan(amount) {
				return repository.ErrInsufficientFunds
			}

			// Each leg belongs to exactly one wallet; the pair is joined by
			// the correlation id, not by shared wallet references, so a
			// wallet's history never double-counts a transfer.
			correlation := uuid.New()
			outLeg = &models.Transaction{
				ID:             uuid.New(),
				Sender:         wallets[senderID].OwnerID.String(),
				Recipient:      wallets[recipientID].OwnerID.String(),
				SenderWalletID: &senderID,
				Amount:         amount,
				Type:           models.TypeTransferOut,
				Source:         models.SourceWallet,
				Status:         models.StatusCompleted,
				CorrelationID:  &correlation,
				Narration:      narration,
			}
			inLeg = &models.Transaction{
				ID:                uuid.New(),
				Sender:            wallets[senderID].OwnerID.String(),
				Recipient:         wallets[recipientID].OwnerID.String(),
				RecipientWalletID: &recipientID,
				Amount:            amount,
				Type:              models.TypeTransferIn,
				Source:            models.SourceWallet,
				Status:            models.StatusCompleted,
				CorrelationID:     &correlation,
				Narration:         narration,
			}
			if err := s.repo.AppendTransaction(ctx, tx, outLeg); err != nil {
				return err
			}
			if err := s.repo.AppendTransaction(ctx, tx, inLeg); err != nil {
				return err
			}
			if _, err := s.repo.ApplyBalanceDelta(ctx, tx, senderID, amount.Neg()); err != nil {
				return err
			}
			_, err = s.repo.ApplyBalanceDelta(ctx, tx, recipientID, amount)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, repository.ErrInsufficientFunds) {
			s.logger.Error("Transfer failed",
				slog.String("sender_wallet_id", senderID.String()),
				slog.String("recipient_wallet_id", recipientID.String()),
				slog.Any("amount", amount),
				slog.Any("err", err),
			)
		}
		return nil, nil, err
	}
	return outLeg, inLeg, nil
}

// Withdraw runs as two atomic units. Unit one checks available funds under
// the wallet lock and parks the row in locked state; the payout call then
// happens with no lock held; unit two settles locked -> completed (debit) or
// locked -> failed (wallet untouched). A crash between the units leaves a
// locked row for reconciliation, never a wrong balance.
func (s *LedgerService) Withdraw(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, dest gateway.PayoutDestination, externalRef string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, repository.ErrInvalidAmount
	}
	if externalRef != "" {
		existing, err := s.repo.FindByReference(ctx, models.TypeWithdraw, externalRef)
		if err == nil {
			if existing.Status == models.StatusCompleted {
				return existing, nil
			}
			return nil, repository.ErrDuplicateReference
		}
		if !errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
	}

	txn := &models.Transaction{
		ID:             uuid.New(),
		SenderWalletID: &walletID,
		Recipient:      dest.AccountNumber,
		Amount:         amount,
		Type:           models.TypeWithdraw,
		Source:         models.SourceBank,
		Status:         models.StatusPending,
		TxRef:          externalRef,
	}

	err := s.retry(ctx, "withdraw_hold", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			wallet, err := s.repo.GetWalletForUpdate(ctx, tx, walletID)
			if err != nil {
				return err
			}
			locked, err := s.repo.LockedAmount(ctx, tx, walletID)
			if err != nil {
				return err
			}
			if wallet.Balance.Sub(locked).LessThan(amount) {
				return repository.ErrInsufficientFunds
			}
			txn.Sender = wallet.OwnerID.String()
			if err := s.repo.AppendTransaction(ctx, tx, txn); err != nil {
				return err
			}
			return s.repo.UpdateTransactionStatus(ctx, tx, txn.ID, models.StatusPending, models.StatusLocked)
		})
	})
	if err != nil {
		if !errors.Is(err, repository.ErrInsufficientFunds) {
			s.logger.Error("Withdrawal hold failed",
				slog.String("wallet_id", walletID.String()),
				slog.Any("amount", amount),
				slog.Any("err", err),
			)
		}
		return nil, err
	}
	txn.Status = models.StatusLocked

	payout, payoutErr := s.gateway.InitiatePayout(ctx, amount, dest)
	if payoutErr != nil || !payout.Success {
		if settleErr := s.settle(ctx, txn, models.StatusFailed, decimal.Zero, ""); settleErr != nil {
			s.logger.Error("Failed to mark withdrawal failed",
				slog.String("transaction_id", txn.ID.String()),
				slog.Any("err", settleErr),
			)
			return nil, settleErr
		}
		txn.Status = models.StatusFailed
		s.logger.Warn("Withdrawal payout rejected",
			slog.String("transaction_id", txn.ID.String()),
			slog.Any("err", payoutErr),
		)
		if payoutErr != nil {
			return txn, fmt.Errorf("%w: %v", ErrPayoutFailed, payoutErr)
		}
		return txn, ErrPayoutFailed
	}

	ref := ""
	if externalRef == "" && payout.ExternalRef != "" {
		ref = payout.ExternalRef
	}
	if err := s.settle(ctx, txn, models.StatusCompleted, amount.Neg(), ref); err != nil {
		s.logger.Error("Failed to settle withdrawal",
			slog.String("transaction_id", txn.ID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	txn.Status = models.StatusCompleted
	if ref != "" {
		txn.TxRef = ref
	}
	return txn, nil
}

// settle is the second withdrawal unit: the debit happens only on the
// locked -> completed move, never earlier.
func (s *LedgerService) settle(ctx context.Context, txn *models.Transaction, to models.TransactionStatus, delta decimal.Decimal, ref string) error {
	return s.retry(ctx, "withdraw_settle", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := s.repo.GetWalletForUpdate(ctx, tx, *txn.SenderWalletID); err != nil {
				return err
			}
			if ref != "" {
				if err := s.repo.UpdateTransactionRef(ctx, tx, txn.ID, ref); err != nil {
					return err
				}
			}
			if err := s.repo.UpdateTransactionStatus(ctx, tx, txn.ID, models.StatusLocked, to); err != nil {
				return err
			}
			if !delta.IsZero() {
				if _, err := s.repo.ApplyBalanceDelta(ctx, tx, *txn.SenderWalletID, delta); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Reverse flips a completed transaction to reversed and applies the
// compensating balance movement. Transfer legs are reversed as a pair, found
// through the shared correlation id.
func (s *LedgerService) Reverse(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	var reversed *models.Transaction
	err := s.retry(ctx, "reverse", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			txn, err := s.repo.GetTransactionForUpdate(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			legs := []*models.Transaction{txn}
			if txn.CorrelationID != nil {
				other, err := s.repo.FindCounterpart(ctx, tx, *txn.CorrelationID, txn.ID)
				if err != nil {
					return err
				}
				legs = append(legs, other)
			}
			// Wallet locks go through LockWallets so a reversal contends
			// with crossing transfers in the same fixed order.
			var walletIDs []uuid.UUID
			for _, leg := range legs {
				if id := legWallet(leg); id != nil {
					walletIDs = append(walletIDs, *id)
				}
			}
			if len(walletIDs) > 0 {
				if _, err := s.repo.LockWallets(ctx, tx, walletIDs...); err != nil {
					return err
				}
			}
			for _, leg := range legs {
				if err := s.reverseLeg(ctx, tx, leg); err != nil {
					return err
				}
			}
			reversed = txn
			reversed.Status = models.StatusReversed
			return nil
		})
	})
	if err != nil {
		s.logger.Error("Reversal failed",
			slog.String("transaction_id", transactionID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return reversed, nil
}

// legWallet names the wallet a ledger row belongs to: the recipient side for
// crediting types, the sender side for debiting ones.
func legWallet(txn *models.Transaction) *uuid.UUID {
	switch txn.Type {
	case models.TypeDeposit, models.TypePayment, models.TypeTransferIn:
		return txn.RecipientWalletID
	case models.TypeWithdraw, models.TypeCharge, models.TypeTransferOut:
		return txn.SenderWalletID
	}
	return nil
}

func (s *LedgerService) reverseLeg(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error {
	if err := s.repo.UpdateTransactionStatus(ctx, tx, txn.ID, models.StatusCompleted, models.StatusReversed); err != nil {
		return err
	}
	walletID := legWallet(txn)
	if walletID == nil {
		return nil
	}
	delta := txn.Amount
	switch txn.Type {
	case models.TypeDeposit, models.TypePayment, models.TypeTransferIn:
		delta = txn.Amount.Neg()
	}
	_, err := s.repo.ApplyBalanceDelta(ctx, tx, *walletID, delta)
	return err
}

// HandleGatewayEvent is the webhook contract: verify first, outside any
// atomic unit, then credit through the idempotent deposit path. Duplicate
// deliveries of the same reference replay safely.
func (s *LedgerService) HandleGatewayEvent(ctx context.Context, event models.WebhookEvent) (*models.Transaction, error) {
	result, err := s.gateway.Verify(ctx, event.Reference)
	if err != nil {
		s.logger.Error("Gateway verification errored",
			slog.String("reference", event.Reference),
			slog.Any("err", err),
		)
		return nil, fmt.Errorf("%w: %v", gateway.ErrVerificationFailed, err)
	}
	if !result.Success {
		s.logger.Warn("Gateway verification rejected",
			slog.String("reference", event.Reference),
		)
		return nil, gateway.ErrVerificationFailed
	}
	return s.Deposit(ctx, event.WalletID, result.Amount, models.SourceBank, event.Reference)
}

func (s *LedgerService) GetBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	return s.repo.AvailableBalance(ctx, walletID)
}

func (s *LedgerService) History(ctx context.Context, walletID uuid.UUID, filter models.HistoryFilter) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx, walletID, filter)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
