package repository_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/motorhaven/wallet-service/internal/ledger"
	"github.com/motorhaven/wallet-service/internal/models"
	"github.com/motorhaven/wallet-service/internal/repository"
	"github.com/motorhaven/wallet-service/internal/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newWallet(t *testing.T, repo *repository.LedgerPGRepository) *models.Wallet {
	w, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)
	return w
}

func fund(t *testing.T, repo *repository.LedgerPGRepository, walletID uuid.UUID, amount decimal.Decimal) {
	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		_, err := repo.ApplyBalanceDelta(context.Background(), tx, walletID, amount)
		return err
	})
	require.NoError(t, err)
}

func TestCreateWallet_DuplicateOwner(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)

	ownerID := uuid.New()
	_, err := repo.CreateWallet(context.Background(), uuid.New(), ownerID, "NGN")
	assert.NoError(t, err)
	_, err = repo.CreateWallet(context.Background(), uuid.New(), ownerID, "NGN")
	assert.ErrorIs(t, err, repository.ErrWalletAlreadyExist)
}

func TestApplyBalanceDelta_Floor(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)
	fund(t, repo, w.ID, decimal.NewFromInt(100))

	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		_, err := repo.ApplyBalanceDelta(context.Background(), tx, w.ID, decimal.NewFromInt(-200))
		return err
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	balance, err := repo.GetBalance(context.Background(), w.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestApplyBalanceDelta_WalletNotFound(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)

	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		_, err := repo.ApplyBalanceDelta(context.Background(), tx, uuid.New(), decimal.NewFromInt(10))
		return err
	})
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)
}

func TestAppendTransaction_DuplicateReference(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)

	mk := func() *models.Transaction {
		return &models.Transaction{
			ID:                uuid.New(),
			RecipientWalletID: &w.ID,
			Amount:            decimal.NewFromInt(50),
			Type:              models.TypeDeposit,
			Source:            models.SourceBank,
			Status:            models.StatusCompleted,
			TxRef:             "pay_dup_1",
		}
	}
	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.AppendTransaction(context.Background(), tx, mk())
	})
	assert.NoError(t, err)

	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.AppendTransaction(context.Background(), tx, mk())
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateReference)

	// The uniqueness is per (type, tx_ref): another type may carry the
	// same reference.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		txn := mk()
		txn.Type = models.TypeWithdraw
		txn.SenderWalletID = &w.ID
		txn.RecipientWalletID = nil
		txn.Status = models.StatusPending
		return repo.AppendTransaction(context.Background(), tx, txn)
	})
	assert.NoError(t, err)
}

func TestAppendTransaction_RejectsNonPositive(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)

	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.AppendTransaction(context.Background(), tx, &models.Transaction{
			ID:                uuid.New(),
			RecipientWalletID: &w.ID,
			Amount:            decimal.Zero,
			Type:              models.TypeDeposit,
			Source:            models.SourceWallet,
			Status:            models.StatusPending,
		})
	})
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)
}

func TestUpdateTransactionStatus_Guarded(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)

	txn := &models.Transaction{
		ID:                uuid.New(),
		RecipientWalletID: &w.ID,
		Amount:            decimal.NewFromInt(10),
		Type:              models.TypeDeposit,
		Source:            models.SourceWallet,
		Status:            models.StatusPending,
	}
	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.AppendTransaction(context.Background(), tx, txn)
	})
	require.NoError(t, err)

	// Legal move succeeds.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.UpdateTransactionStatus(context.Background(), tx, txn.ID, models.StatusPending, models.StatusCompleted)
	})
	assert.NoError(t, err)

	// Completing twice hits the WHERE guard.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.UpdateTransactionStatus(context.Background(), tx, txn.ID, models.StatusPending, models.StatusCompleted)
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	// Moves outside the table never reach SQL.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.UpdateTransactionStatus(context.Background(), tx, txn.ID, models.StatusCompleted, models.StatusPending)
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	// Unknown row.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.UpdateTransactionStatus(context.Background(), tx, uuid.New(), models.StatusPending, models.StatusCompleted)
	})
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)
}

func TestLockedAmount_CountsOnlyLockedWithdrawals(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)
	fund(t, repo, w.ID, decimal.NewFromInt(500))

	add := func(txType models.TransactionType, status models.TransactionStatus, amount int64) {
		err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
			return repo.AppendTransaction(context.Background(), tx, &models.Transaction{
				ID:             uuid.New(),
				SenderWalletID: &w.ID,
				Amount:         decimal.NewFromInt(amount),
				Type:           txType,
				Source:         models.SourceBank,
				Status:         status,
			})
		})
		require.NoError(t, err)
	}
	add(models.TypeWithdraw, models.StatusLocked, 100)
	add(models.TypeWithdraw, models.StatusLocked, 50)
	add(models.TypeWithdraw, models.StatusCompleted, 30)
	add(models.TypeTransferOut, models.StatusCompleted, 70)

	var locked decimal.Decimal
	err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		var err error
		locked, err = repo.LockedAmount(context.Background(), tx, w.ID)
		return err
	})
	assert.NoError(t, err)
	assert.True(t, locked.Equal(decimal.NewFromInt(150)))

	balance, available, err := repo.AvailableBalance(context.Background(), w.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, available.Equal(decimal.NewFromInt(350)))
}

func TestActivateSettings_SingleActive(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)

	first, err := repo.ActivateSettings(context.Background(), decimal.NewFromInt(60), decimal.NewFromInt(40))
	assert.NoError(t, err)
	second, err := repo.ActivateSettings(context.Background(), decimal.NewFromFloat(33.33), decimal.NewFromFloat(66.67))
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var activeCount int
	err = pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM revenue_settings WHERE active").Scan(&activeCount)
	assert.NoError(t, err)
	assert.Equal(t, 1, activeCount)

	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		active, err := repo.GetActiveSettings(context.Background(), tx)
		if err != nil {
			return err
		}
		assert.Equal(t, second.ID, active.ID)
		return nil
	})
	assert.NoError(t, err)
}

func TestActivateSettings_RejectsBadPercentages(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)

	_, err := repo.ActivateSettings(context.Background(), decimal.NewFromInt(60), decimal.NewFromInt(50))
	assert.ErrorIs(t, err, repository.ErrInvalidSplitPct)
}

func TestMarkDealerCredited_Once(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)

	settings, err := repo.ActivateSettings(context.Background(), decimal.NewFromInt(60), decimal.NewFromInt(40))
	require.NoError(t, err)

	payment := &models.Transaction{
		ID:                uuid.New(),
		RecipientWalletID: &w.ID,
		Amount:            decimal.NewFromInt(10000),
		Type:              models.TypeCharge,
		Source:            models.SourceBank,
		Status:            models.StatusCompleted,
	}
	split := &models.RevenueSplit{
		ID:             uuid.New(),
		InspectionID:   uuid.New(),
		TransactionID:  payment.ID,
		Total:          payment.Amount,
		DealerAmount:   decimal.NewFromInt(6000),
		DealerPct:      settings.DealerPct,
		PlatformAmount: decimal.NewFromInt(4000),
		PlatformPct:    settings.PlatformPct,
		SettingsID:     settings.ID,
	}
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		if err := repo.AppendTransaction(context.Background(), tx, payment); err != nil {
			return err
		}
		return repo.InsertSplit(context.Background(), tx, split)
	})
	require.NoError(t, err)

	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.MarkDealerCredited(context.Background(), tx, split.ID)
	})
	assert.NoError(t, err)

	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.MarkDealerCredited(context.Background(), tx, split.ID)
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyCredited)

	// Same inspection cannot be split twice.
	err = repo.WithTx(context.Background(), func(tx pgx.Tx) error {
		dup := *split
		dup.ID = uuid.New()
		return repo.InsertSplit(context.Background(), tx, &dup)
	})
	assert.ErrorIs(t, err, repository.ErrSplitExists)
}

func TestApplyBalanceDelta_ConcurrentCredits(t *testing.T) {
	pool, teardown := testutil.SetupTestDB(t)
	defer teardown()
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	w := newWallet(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithTx(context.Background(), func(tx pgx.Tx) error {
				if _, err := repo.GetWalletForUpdate(context.Background(), tx, w.ID); err != nil {
					return err
				}
				_, err := repo.ApplyBalanceDelta(context.Background(), tx, w.ID, decimal.NewFromInt(1))
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := repo.GetBalance(context.Background(), w.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(200)))
}
