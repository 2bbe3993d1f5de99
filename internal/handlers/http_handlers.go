package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motorhaven/wallet-service/internal/analytics"
	"github.com/motorhaven/wallet-service/internal/gateway"
	"github.com/motorhaven/wallet-service/internal/ledger"
	"github.com/motorhaven/wallet-service/internal/models"
	"github.com/motorhaven/wallet-service/internal/repository"
	"github.com/motorhaven/wallet-service/internal/service"
)

//go:generate mockgen -source=http_handlers.go -destination=../../test/mock_ledger_api.go -package=test LedgerAPI

type LedgerAPI interface {
	Deposit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, source models.TransactionSource, externalRef string) (*models.Transaction, error)
	Withdraw(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, dest gateway.PayoutDestination, externalRef string) (*models.Transaction, error)
	Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, narration string) (*models.Transaction, *models.Transaction, error)
	Reverse(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)
	HandleGatewayEvent(ctx context.Context, event models.WebhookEvent) (*models.Transaction, error)
	CreateSplit(ctx context.Context, inspectionID, dealerWalletID, paymentTxID uuid.UUID) (*models.RevenueSplit, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
	History(ctx context.Context, walletID uuid.UUID, filter models.HistoryFilter) ([]models.Transaction, error)
}

type SettingsStore interface {
	ActivateSettings(ctx context.Context, dealerPct, platformPct decimal.Decimal) (*models.RevenueSettings, error)
}

type AnalyticsReader interface {
	Summary(ctx context.Context, walletID uuid.UUID, from, to time.Time) (*analytics.Summary, error)
	DailyVolume(ctx context.Context, from, to time.Time) ([]analytics.DailyBucket, error)
	TopWallets(ctx context.Context, from, to time.Time, n int) ([]analytics.WalletVolume, error)
}

type LedgerHTTPHandler struct {
	service  LedgerAPI
	settings SettingsStore
	reader   AnalyticsReader
}

func NewLedgerHTTPHandler(svc LedgerAPI, settings SettingsStore, reader AnalyticsReader) *LedgerHTTPHandler {
	return &LedgerHTTPHandler{service: svc, settings: settings, reader: reader}
}

func (h *LedgerHTTPHandler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/wallet", h.HandleWalletOperation)
		v1.POST("/transfers", h.HandleTransfer)
		v1.POST("/transactions/:transaction_id/reverse", h.HandleReverse)
		v1.POST("/webhooks/payment", h.HandleWebhook)
		v1.POST("/inspections/:inspection_id/split", h.HandleSplit)
		v1.PUT("/revenue-settings", h.HandleRevenueSettings)
		v1.GET("/wallets/:wallet_id", h.HandleGetBalance)
		v1.GET("/wallets/:wallet_id/transactions", h.HandleHistory)
		v1.GET("/wallets/:wallet_id/summary", h.HandleSummary)
		v1.GET("/analytics/daily", h.HandleDailyVolume)
		v1.GET("/analytics/top", h.HandleTopWallets)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, repository.ErrDuplicateReference),
		errors.Is(err, repository.ErrWalletAlreadyExist):
		return http.StatusConflict
	case errors.Is(err, repository.ErrWalletNotFound),
		errors.Is(err, repository.ErrTransactionNotFound),
		errors.Is(err, repository.ErrSplitNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidAmount),
		errors.Is(err, repository.ErrNoActiveSettings),
		errors.Is(err, repository.ErrInvalidSplitPct),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrReferenceRequired),
		errors.Is(err, service.ErrPaymentNotSettled):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidTransition):
		return http.StatusInternalServerError
	case errors.Is(err, gateway.ErrVerificationFailed),
		errors.Is(err, service.ErrPayoutFailed):
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func (h *LedgerHTTPHandler) HandleWalletOperation(c *gin.Context) {
	var req models.WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be > 0"})
		return
	}

	switch req.OperationType {
	case "DEPOSIT":
		source := models.TransactionSource(req.Source)
		if source == "" {
			source = models.SourceWallet
		}
		txn, err := h.service.Deposit(c.Request.Context(), req.WalletID, req.Amount, source, req.Reference)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": txn})
	case "WITHDRAW":
		dest := gateway.PayoutDestination{
			BankCode:      req.BankCode,
			AccountNumber: req.AccountNumber,
			AccountName:   req.AccountName,
		}
		txn, err := h.service.Withdraw(c.Request.Context(), req.WalletID, req.Amount, dest, req.Reference)
		if err != nil {
			body := gin.H{"error": err.Error()}
			if txn != nil {
				// Failed payouts still leave an auditable row.
				body["transaction"] = txn
			}
			c.JSON(statusFor(err), body)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": txn})
	}
}

func (h *LedgerHTTPHandler) HandleTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	outLeg, inLeg, err := h.service.Transfer(c.Request.Context(), req.SenderWalletID, req.RecipientWalletID, req.Amount, req.Narration)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"debit": outLeg, "credit": inLeg})
}

func (h *LedgerHTTPHandler) HandleReverse(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("transaction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction_id"})
		return
	}
	txn, err := h.service.Reverse(c.Request.Context(), txID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// HandleWebhook accepts gateway callbacks. Duplicate deliveries of the same
// reference land on the idempotent deposit path and return the original row.
func (h *LedgerHTTPHandler) HandleWebhook(c *gin.Context) {
	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	txn, err := h.service.HandleGatewayEvent(c.Request.Context(), event)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

func (h *LedgerHTTPHandler) HandleSplit(c *gin.Context) {
	inspectionID, err := uuid.Parse(c.Param("inspection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inspection_id"})
		return
	}
	var req models.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	split, err := h.service.CreateSplit(c.Request.Context(), inspectionID, req.DealerWalletID, req.TransactionID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"split": split})
}

func (h *LedgerHTTPHandler) HandleRevenueSettings(c *gin.Context) {
	var req models.RevenueSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	settings, err := h.settings.ActivateSettings(c.Request.Context(), req.DealerPct, req.PlatformPct)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *LedgerHTTPHandler) HandleGetBalance(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet_id"})
		return
	}
	balance, available, err := h.service.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":   balance.String(),
		"available": available.String(),
	})
}

func (h *LedgerHTTPHandler) HandleHistory(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet_id"})
		return
	}
	filter := models.HistoryFilter{
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
		Source: models.TransactionSource(c.Query("source")),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		filter.To = t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}
	txns, err := h.service.History(c.Request.Context(), walletID, filter)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

func (h *LedgerHTTPHandler) HandleSummary(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet_id"})
		return
	}
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	summary, err := h.reader.Summary(c.Request.Context(), walletID, from, to)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *LedgerHTTPHandler) HandleDailyVolume(c *gin.Context) {
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	buckets, err := h.reader.DailyVolume(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": buckets})
}

func (h *LedgerHTTPHandler) HandleTopWallets(c *gin.Context) {
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	n := 10
	if v := c.Query("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
			return
		}
		n = parsed
	}
	top, err := h.reader.TopWallets(c.Request.Context(), from, to, n)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": top})
}

// parseRange reads from/to query params, defaulting to the trailing 30 days.
func (h *LedgerHTTPHandler) parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}

func analyticsStatus(err error) int {
	if errors.Is(err, analytics.ErrInvalidRange) || errors.Is(err, analytics.ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	return http.StatusServiceUnavailable
}
