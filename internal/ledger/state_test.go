package ledger_test

import (
	"testing"

	"github.com/motorhaven/wallet-service/internal/ledger"
	"github.com/motorhaven/wallet-service/internal/models"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []models.TransactionStatus{
	models.StatusPending,
	models.StatusLocked,
	models.StatusCompleted,
	models.StatusFailed,
	models.StatusReversed,
}

func TestValidateTransition_LegalMoves(t *testing.T) {
	legal := []struct {
		from, to models.TransactionStatus
	}{
		{models.StatusPending, models.StatusLocked},
		{models.StatusPending, models.StatusCompleted},
		{models.StatusPending, models.StatusFailed},
		{models.StatusLocked, models.StatusCompleted},
		{models.StatusLocked, models.StatusFailed},
		{models.StatusCompleted, models.StatusReversed},
	}
	for _, tc := range legal {
		assert.NoError(t, ledger.ValidateTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidateTransition_IllegalMoves(t *testing.T) {
	legal := map[[2]models.TransactionStatus]bool{
		{models.StatusPending, models.StatusLocked}:     true,
		{models.StatusPending, models.StatusCompleted}:  true,
		{models.StatusPending, models.StatusFailed}:     true,
		{models.StatusLocked, models.StatusCompleted}:   true,
		{models.StatusLocked, models.StatusFailed}:      true,
		{models.StatusCompleted, models.StatusReversed}: true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if legal[[2]models.TransactionStatus{from, to}] {
				continue
			}
			err := ledger.ValidateTransition(from, to)
			assert.ErrorIs(t, err, ledger.ErrInvalidTransition, "%s -> %s must be rejected", from, to)
		}
	}
}

func TestValidateTransition_TerminalStates(t *testing.T) {
	for _, from := range []models.TransactionStatus{models.StatusFailed, models.StatusReversed} {
		for _, to := range allStatuses {
			assert.False(t, ledger.CanTransition(from, to), "%s is terminal", from)
		}
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ledger.ValidateTransition("settled", models.StatusCompleted)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
}
