package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/motorhaven/wallet-service/internal/analytics"
	"github.com/motorhaven/wallet-service/internal/gateway"
	"github.com/motorhaven/wallet-service/internal/repository"
	"github.com/motorhaven/wallet-service/internal/service"
	"github.com/motorhaven/wallet-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type okGateway struct{}

func (okGateway) Verify(ctx context.Context, reference string) (gateway.VerificationResult, error) {
	return gateway.VerificationResult{Success: true, Amount: decimal.NewFromInt(2500), Currency: "NGN"}, nil
}

func (okGateway) InitiatePayout(ctx context.Context, amount decimal.Decimal, dest gateway.PayoutDestination) (gateway.PayoutResult, error) {
	return gateway.PayoutResult{Success: true, ExternalRef: "po_it_1"}, nil
}

func setupIntegrationRouter(t *testing.T) (*gin.Engine, *repository.LedgerPGRepository, func()) {
	pool, teardown := testutil.SetupTestDB(t)
	repo := repository.NewLedgerPGRepository(pool, testLogger)
	svc := service.NewLedgerService(repo, okGateway{}, uuid.Nil, testLogger)
	reader := analytics.NewReader(pool, testLogger)
	handler := NewLedgerHTTPHandler(svc, repo, reader)
	r := gin.Default()
	handler.RegisterRoutes(r)
	return r, repo, teardown
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIntegration_DepositWithdrawBalance(t *testing.T) {
	r, repo, teardown := setupIntegrationRouter(t)
	defer teardown()
	w, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)

	resp := doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      w.ID,
		"operationType": "DEPOSIT",
		"amount":        "1000",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      w.ID,
		"operationType": "WITHDRAW",
		"amount":        "400",
		"accountNumber": "0123456789",
		"bankCode":      "058",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, r, "GET", "/api/v1/wallets/"+w.ID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var balance struct {
		Balance   string `json:"balance"`
		Available string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &balance))
	assert.Equal(t, "600", balance.Balance)
	assert.Equal(t, "600", balance.Available)
}

func TestIntegration_TransferAndHistory(t *testing.T) {
	r, repo, teardown := setupIntegrationRouter(t)
	defer teardown()
	a, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)
	b, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)

	resp := doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      a.ID,
		"operationType": "DEPOSIT",
		"amount":        "1000",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, r, "POST", "/api/v1/transfers", map[string]any{
		"senderWalletId":    a.ID,
		"recipientWalletId": b.ID,
		"amount":            "300",
		"narration":         "booking fee",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// Overdraw surfaces as a conflict with no partial effect.
	resp = doJSON(t, r, "POST", "/api/v1/transfers", map[string]any{
		"senderWalletId":    a.ID,
		"recipientWalletId": b.ID,
		"amount":            "5000",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, r, "GET", "/api/v1/wallets/"+a.ID.String()+"/transactions?type=transfer_out", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var history struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &history))
	assert.Len(t, history.Transactions, 1)
}

func TestIntegration_WebhookReplay(t *testing.T) {
	r, repo, teardown := setupIntegrationRouter(t)
	defer teardown()
	w, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)

	event := map[string]any{
		"eventType": "charge.success",
		"reference": "pay_http_1",
		"walletId":  w.ID,
	}
	resp := doJSON(t, r, "POST", "/api/v1/webhooks/payment", event)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(t, r, "POST", "/api/v1/webhooks/payment", event)
	assert.Equal(t, http.StatusOK, resp.Code)

	balance, err := repo.GetBalance(context.Background(), w.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2500)), "duplicate delivery must credit once")
}

func TestIntegration_RevenueSettingsAndSplit(t *testing.T) {
	r, repo, teardown := setupIntegrationRouter(t)
	defer teardown()
	dealer, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)
	buyer, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)

	resp := doJSON(t, r, "PUT", "/api/v1/revenue-settings", map[string]any{
		"dealerPct":   "60",
		"platformPct": "40",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      buyer.ID,
		"operationType": "DEPOSIT",
		"amount":        "10000",
		"source":        "bank",
		"reference":     "insp_http_1",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var dep struct {
		Transaction struct {
			ID uuid.UUID `json:"id"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dep))

	inspectionID := uuid.New()
	resp = doJSON(t, r, "POST", "/api/v1/inspections/"+inspectionID.String()+"/split", map[string]any{
		"dealerWalletId": dealer.ID,
		"transactionId":  dep.Transaction.ID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	balance, err := repo.GetBalance(context.Background(), dealer.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(6000)))
}

func TestIntegration_SummaryEndpoint(t *testing.T) {
	r, repo, teardown := setupIntegrationRouter(t)
	defer teardown()
	w, err := repo.CreateWallet(context.Background(), uuid.New(), uuid.New(), "NGN")
	require.NoError(t, err)

	resp := doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      w.ID,
		"operationType": "DEPOSIT",
		"amount":        "1000",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, r, "GET", "/api/v1/wallets/"+w.ID.String()+"/summary", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var summary struct {
		Inflow string `json:"inflow"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, "1000", summary.Inflow)

	resp = doJSON(t, r, "GET", "/api/v1/analytics/top?n=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestIntegration_BadRequests(t *testing.T) {
	r, _, teardown := setupIntegrationRouter(t)
	defer teardown()

	resp := doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      uuid.New(),
		"operationType": "DEPOSIT",
		"amount":        "-5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, r, "GET", "/api/v1/wallets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, r, "POST", "/api/v1/wallet", map[string]any{
		"walletId":      uuid.New(),
		"operationType": "DEPOSIT",
		"amount":        "100",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
