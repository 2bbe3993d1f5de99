// Package gateway defines the contract the ledger consumes from the payment
// providers (Paystack/Flutterwave). The HTTP clients themselves live outside
// the ledger core; the operations only ever see an already-verified result.
package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrVerificationFailed = errors.New("gateway verification failed")

type VerificationResult struct {
	Success  bool
	Amount   decimal.Decimal
	Currency string
}

type PayoutDestination struct {
	BankCode      string
	AccountNumber string
	AccountName   string
}

type PayoutResult struct {
	Success     bool
	ExternalRef string
}

//go:generate mockgen -source=gateway.go -destination=../../test/mock_gateway.go -package=test Client

type Client interface {
	Verify(ctx context.Context, reference string) (VerificationResult, error)
	InitiatePayout(ctx context.Context, amount decimal.Decimal, dest PayoutDestination) (PayoutResult, error)
}

// Disabled rejects every call. It stands in where no provider client is
// configured so the ledger never credits or debits on an unverified result.
type Disabled struct{}

func NewDisabled() Disabled { return Disabled{} }

func (Disabled) Verify(ctx context.Context, reference string) (VerificationResult, error) {
	return VerificationResult{}, errors.New("no payment gateway configured")
}

func (Disabled) InitiatePayout(ctx context.Context, amount decimal.Decimal, dest PayoutDestination) (PayoutResult, error) {
	return PayoutResult{}, errors.New("no payment gateway configured")
}
