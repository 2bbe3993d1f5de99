package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit     TransactionType = "deposit"
	TypeWithdraw    TransactionType = "withdraw"
	TypeTransferIn  TransactionType = "transfer_in"
	TypeTransferOut TransactionType = "transfer_out"
	TypeCharge      TransactionType = "charge"
	TypePayment     TransactionType = "payment"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusLocked    TransactionStatus = "locked"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusReversed  TransactionStatus = "reversed"
)

type TransactionSource string

const (
	SourceWallet TransactionSource = "wallet"
	SourceBank   TransactionSource = "bank"
)

type Wallet struct {
	ID        uuid.UUID       `db:"id" json:"walletId"`
	OwnerID   uuid.UUID       `db:"owner_id" json:"ownerId"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	Currency  string          `db:"currency" json:"currency"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// Transaction is one row of the append-only ledger log. Completed rows are
// immutable; the only later status change allowed is completed -> reversed.
type Transaction struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	Sender            string            `db:"sender" json:"sender"`
	Recipient         string            `db:"recipient" json:"recipient"`
	SenderWalletID    *uuid.UUID        `db:"sender_wallet_id" json:"senderWalletId,omitempty"`
	RecipientWalletID *uuid.UUID        `db:"recipient_wallet_id" json:"recipientWalletId,omitempty"`
	Amount            decimal.Decimal   `db:"amount" json:"amount"`
	Type              TransactionType   `db:"type" json:"type"`
	Source            TransactionSource `db:"source" json:"source"`
	Status            TransactionStatus `db:"status" json:"status"`
	TxRef             string            `db:"tx_ref" json:"txRef,omitempty"`
	CorrelationID     *uuid.UUID        `db:"correlation_id" json:"correlationId,omitempty"`
	Narration         string            `db:"narration" json:"narration,omitempty"`
	OrderID           *uuid.UUID        `db:"order_id" json:"orderId,omitempty"`
	BookingID         *uuid.UUID        `db:"booking_id" json:"bookingId,omitempty"`
	InspectionID      *uuid.UUID        `db:"inspection_id" json:"inspectionId,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updatedAt"`
}
