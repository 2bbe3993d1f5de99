package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/models"
	"github.com/motorhaven/wallet-service/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// CreateSplit divides an inspection-fee payment between the dealer and the
// platform per the active settings, credits the dealer wallet (and the
// platform wallet when one is configured), and records the split, all in one
// atomic unit. The platform share is computed by
// subtraction so the two shares always sum to the total exactly, whatever the
// percentage. Re-invoking on an already-split inspection returns the existing
// split unchanged.
func (s *LedgerService) CreateSplit(ctx context.Context, inspectionID, dealerWalletID, paymentTxID uuid.UUID) (*models.RevenueSplit, error) {
	if existing, err := s.repo.GetSplitByInspection(ctx, inspectionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrSplitNotFound) {
		return nil, err
	}

	var split *models.RevenueSplit
	err := s.retry(ctx, "create_split", func() error {
		return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
			payment, err := s.repo.GetTransactionForUpdate(ctx, tx, paymentTxID)
			if err != nil {
				return err
			}
			if payment.Status != models.StatusCompleted {
				return ErrPaymentNotSettled
			}
			settings, err := s.repo.GetActiveSettings(ctx, tx)
			if err != nil {
				return err
			}

			total := payment.Amount
			dealerAmount := total.Mul(settings.DealerPct).Div(hundred).Round(2)
			platformAmount := total.Sub(dealerAmount)

			split = &models.RevenueSplit{
				ID:             uuid.New(),
				InspectionID:   inspectionID,
				TransactionID:  payment.ID,
				Total:          total,
				DealerAmount:   dealerAmount,
				DealerPct:      settings.DealerPct,
				PlatformAmount: platformAmount,
				PlatformPct:    settings.PlatformPct,
				SettingsID:     settings.ID,
			}
			if err := s.repo.InsertSplit(ctx, tx, split); err != nil {
				return err
			}

			var lockIDs []uuid.UUID
			if dealerAmount.IsPositive() {
				lockIDs = append(lockIDs, dealerWalletID)
			}
			creditPlatform := s.platformWalletID != uuid.Nil && platformAmount.IsPositive()
			if creditPlatform {
				lockIDs = append(lockIDs, s.platformWalletID)
			}
			var wallets map[uuid.UUID]*models.Wallet
			if len(lockIDs) > 0 {
				if wallets, err = s.repo.LockWallets(ctx, tx, lockIDs...); err != nil {
					return err
				}
			}

			if dealerAmount.IsPositive() {
				if err := s.creditShare(ctx, tx, wallets[dealerWalletID], dealerAmount, "inspection fee dealer share", inspectionID); err != nil {
					return err
				}
			}
			if creditPlatform {
				if err := s.creditShare(ctx, tx, wallets[s.platformWalletID], platformAmount, "inspection fee platform share", inspectionID); err != nil {
					return err
				}
			}
			// A 0% dealer configuration still marks the split settled; the
			// record alone carries the dealer side.
			if err := s.repo.MarkDealerCredited(ctx, tx, split.ID); err != nil {
				return err
			}
			split.DealerCredited = true
			return nil
		})
	})
	if errors.Is(err, repository.ErrSplitExists) {
		// Raced another split of the same inspection; theirs won.
		return s.repo.GetSplitByInspection(ctx, inspectionID)
	}
	if err != nil {
		s.logger.Error("Revenue split failed",
			slog.String("inspection_id", inspectionID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return split, nil
}

// creditShare appends one completed payment row against an already locked
// wallet and applies the matching balance delta.
func (s *LedgerService) creditShare(ctx context.Context, tx pgx.Tx, wallet *models.Wallet, amount decimal.Decimal, narration string, inspectionID uuid.UUID) error {
	walletID := wallet.ID
	credit := &models.Transaction{
		ID:                uuid.New(),
		Sender:            "inspection_fee",
		Recipient:         wallet.OwnerID.String(),
		RecipientWalletID: &walletID,
		Amount:            amount,
		Type:              models.TypePayment,
		Source:            models.SourceWallet,
		Status:            models.StatusCompleted,
		Narration:         narration,
		InspectionID:      &inspectionID,
	}
	if err := s.repo.AppendTransaction(ctx, tx, credit); err != nil {
		return err
	}
	_, err := s.repo.ApplyBalanceDelta(ctx, tx, walletID, amount)
	return err
}
