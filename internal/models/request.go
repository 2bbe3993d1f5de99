package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletRequest struct {
	WalletID      uuid.UUID       `json:"walletId" binding:"required"`
	OperationType string          `json:"operationType" binding:"required,oneof=DEPOSIT WITHDRAW"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Source        string          `json:"source" binding:"omitempty,oneof=wallet bank"`
	Reference     string          `json:"reference"`
	BankCode      string          `json:"bankCode"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
}

type TransferRequest struct {
	SenderWalletID    uuid.UUID       `json:"senderWalletId" binding:"required"`
	RecipientWalletID uuid.UUID       `json:"recipientWalletId" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Narration         string          `json:"narration"`
}

// WebhookEvent is the already-authenticated payload handed over by the web
// layer. Signature verification happens before the event reaches the ledger.
type WebhookEvent struct {
	EventType string          `json:"eventType" binding:"required"`
	Reference string          `json:"reference" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	WalletID  uuid.UUID       `json:"walletId" binding:"required"`
}

type SplitRequest struct {
	DealerWalletID uuid.UUID `json:"dealerWalletId" binding:"required"`
	TransactionID  uuid.UUID `json:"transactionId" binding:"required"`
}

type RevenueSettingsRequest struct {
	DealerPct   decimal.Decimal `json:"dealerPct" binding:"required"`
	PlatformPct decimal.Decimal `json:"platformPct" binding:"required"`
}

// HistoryFilter narrows the transaction-history read. Zero values mean "any".
type HistoryFilter struct {
	Type   TransactionType
	Status TransactionStatus
	Source TransactionSource
	From   time.Time
	To     time.Time
	Limit  int
}
