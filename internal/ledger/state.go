// Package ledger holds the transaction state machine. It is deliberately
// side-effect-free: it only answers whether a status move is legal. Balance
// mutation is the calling operation's responsibility, driven by which
// transition occurred.
package ledger

import (
	"errors"
	"fmt"

	"github.com/motorhaven/wallet-service/internal/models"
)

var ErrInvalidTransition = errors.New("invalid transaction status transition")

// legal is the single source of truth for status moves. failed and reversed
// are terminal; a reversal spawns a new compensating transaction, it never
// resurrects the original.
var legal = map[models.TransactionStatus][]models.TransactionStatus{
	models.StatusPending:   {models.StatusLocked, models.StatusCompleted, models.StatusFailed},
	models.StatusLocked:    {models.StatusCompleted, models.StatusFailed},
	models.StatusCompleted: {models.StatusReversed},
	models.StatusFailed:    {},
	models.StatusReversed:  {},
}

func CanTransition(from, to models.TransactionStatus) bool {
	for _, next := range legal[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition (wrapped with the offending
// pair) unless from -> to appears in the legal table.
func ValidateTransition(from, to models.TransactionStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
