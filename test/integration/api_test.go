// Package integration provides end-to-end integration tests for the card
// payment API. Tests token issuance and payment submission against both
// PostgreSQL and MySQL databases, with the card issuer and report services
// stubbed out.
package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardpay/internal/app"
	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	benefitRepository "github.com/allisson/cardpay/internal/benefit/repository"
	"github.com/allisson/cardpay/internal/config"
	"github.com/allisson/cardpay/internal/issuer"
	merchantDomain "github.com/allisson/cardpay/internal/merchant/domain"
	merchantRepository "github.com/allisson/cardpay/internal/merchant/repository"
	paymentDTO "github.com/allisson/cardpay/internal/payment/http/dto"
	"github.com/allisson/cardpay/internal/testutil"
	tokenDTO "github.com/allisson/cardpay/internal/token/http/dto"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container      *app.Container
	db             *sql.DB
	server         *httptest.Server
	issuerStub     *httptest.Server
	reportStub     *httptest.Server
	issuerRequests atomic.Int64
	reportRequests atomic.Int64
	dbDriver       string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// generateTestKey creates a base64-encoded 32-byte key for the token codec.
func generateTestKey(t *testing.T) string {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err, "failed to generate key material")
	return base64.StdEncoding.EncodeToString(key)
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Setup database
	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	testCtx := &integrationTestContext{
		db:       db,
		dbDriver: dbDriver,
	}

	// Stub issuer: approves every transaction
	testCtx.issuerStub = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testCtx.issuerRequests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(issuer.TransactionResponse{
			Approved:     true,
			ApprovalCode: "APR-INTEGRATION",
			SettledAt:    time.Now().UTC(),
		})
	}))

	// Stub report service: accepts every refresh
	testCtx.reportStub = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testCtx.reportRequests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	// Create configuration
	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",

		PaymentKey:           generateTestKey(t),
		PaymentSigningSecret: generateTestKey(t),
		TokenExpiration:      5 * time.Minute,
		TokenAliasLength:     20,

		MerchantCacheRefreshInterval: time.Hour,

		IssuerBaseURL: testCtx.issuerStub.URL,
		IssuerTimeout: 5 * time.Second,
		ReportBaseURL: testCtx.reportStub.URL,
		ReportTimeout: 5 * time.Second,

		NotifyWaitTimeout: 2 * time.Second,
	}

	// Create DI container
	testCtx.container = app.NewContainer(cfg)

	// Build the HTTP server and serve its router from httptest
	httpServer, err := testCtx.container.HTTPServer(context.Background())
	require.NoError(t, err, "failed to initialize HTTP server")
	testCtx.server = httptest.NewServer(httpServer.GetHandler())

	return testCtx
}

// teardownIntegrationTest cleans up all test resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}
	if ctx.issuerStub != nil {
		ctx.issuerStub.Close()
	}
	if ctx.reportStub != nil {
		ctx.reportStub.Close()
	}

	if ctx.db != nil {
		if ctx.dbDriver == "postgres" {
			testutil.CleanupPostgresDB(t, ctx.db)
		} else {
			testutil.CleanupMySQLDB(t, ctx.db)
		}
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

// seedCard registers an active card for the user and returns it.
func seedCard(t *testing.T, ctx *integrationTestContext, userID uuid.UUID) *benefitDomain.Card {
	t.Helper()

	card := &benefitDomain.Card{
		ID:             uuid.Must(uuid.NewV7()),
		UserID:         userID,
		CardTemplateID: uuid.Must(uuid.NewV7()),
		Credential:     "cred-" + uuid.Must(uuid.NewV7()).String(),
		Status:         benefitDomain.CredentialActive,
		CreatedAt:      time.Now().UTC(),
	}

	var err error
	if ctx.dbDriver == "postgres" {
		err = benefitRepository.NewPostgreSQLCardRepository(ctx.db).Create(context.Background(), card)
	} else {
		err = benefitRepository.NewMySQLCardRepository(ctx.db).Create(context.Background(), card)
	}
	require.NoError(t, err, "failed to seed card")

	return card
}

// seedDiscountRule attaches a fixed-amount discount rule to the card template.
// The rule matches every merchant and every payment amount above zero.
func seedDiscountRule(t *testing.T, ctx *integrationTestContext, cardTemplateID uuid.UUID, discount int64) *benefitDomain.Rule {
	t.Helper()

	rule := &benefitDomain.Rule{
		ID:              uuid.Must(uuid.NewV7()),
		CardTemplateID:  cardTemplateID,
		BenefitType:     benefitDomain.Discount,
		ConditionType:   benefitDomain.RangeByAmount,
		DiscountType:    benefitDomain.FixedAmount,
		MerchantFilter:  benefitDomain.FilterAll,
		PaymentBrackets: []int64{0},
		SectionValues:   []float64{float64(discount)},
		CreatedAt:       time.Now().UTC(),
	}

	var err error
	if ctx.dbDriver == "postgres" {
		err = benefitRepository.NewPostgreSQLRuleRepository(ctx.db).Create(context.Background(), rule)
	} else {
		err = benefitRepository.NewMySQLRuleRepository(ctx.db).Create(context.Background(), rule)
	}
	require.NoError(t, err, "failed to seed benefit rule")

	return rule
}

// seedMerchant registers a merchant in the directory and refreshes the
// classifier snapshot so the new entry is visible to payments.
func seedMerchant(t *testing.T, ctx *integrationTestContext, name string, categoryID, subcategoryID int64) {
	t.Helper()

	merchant := &merchantDomain.Merchant{
		ID:            uuid.Must(uuid.NewV7()),
		Name:          name,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		CreatedAt:     time.Now().UTC(),
	}

	var err error
	if ctx.dbDriver == "postgres" {
		err = merchantRepository.NewPostgreSQLMerchantRepository(ctx.db).Create(context.Background(), merchant)
	} else {
		err = merchantRepository.NewMySQLMerchantRepository(ctx.db).Create(context.Background(), merchant)
	}
	require.NoError(t, err, "failed to seed merchant")

	classifier, err := ctx.container.Classifier()
	require.NoError(t, err, "failed to get classifier")
	require.NoError(t, classifier.Refresh(context.Background()), "failed to refresh merchant snapshot")
}

// TestIntegration_Health_BasicChecks validates infrastructure health and readiness endpoints.
// Tests health check and database connectivity verification against both PostgreSQL and MySQL.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// [1/2] Test GET /health - Health check endpoint
			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "healthy", response["status"])
			})

			// [2/2] Test GET /ready - Readiness check endpoint
			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response struct {
					Status     string            `json:"status"`
					Components map[string]string `json:"components"`
				}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "ready", response.Status)
				assert.Equal(t, "ok", response.Components["database"])
			})

			t.Logf("All 2 health endpoint tests passed for %s", tc.dbDriver)
		})
	}
}

// TestIntegration_Payment_CompleteFlow tests the full payment path: token
// issuance, token-based submission, best-card submission, and the opaque
// rejection of invalid tokens.
func TestIntegration_Payment_CompleteFlow(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			userID := uuid.Must(uuid.NewV7())
			card := seedCard(t, ctx, userID)
			seedDiscountRule(t, ctx, card.CardTemplateID, 500)
			seedMerchant(t, ctx, "Corner Coffee", 10, 101)

			var issuedToken string

			// [1/5] Issue an online token for the card
			t.Run("01_IssueOnlineToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/online", map[string]interface{}{
					"user_id":       userID.String(),
					"card_id":       card.ID.String(),
					"merchant_name": "Corner Coffee",
					"amount":        10000,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected response: %s", body)

				var tokenResp tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &tokenResp))
				assert.NotEmpty(t, tokenResp.Token)
				assert.NotEmpty(t, tokenResp.Alias)
				assert.Equal(t, 300, tokenResp.ExpiresIn)

				issuedToken = tokenResp.Token
			})

			// [2/5] Submit a payment with the issued token
			t.Run("02_SubmitPaymentWithToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/payments", map[string]interface{}{
					"user_id":       userID.String(),
					"token":         issuedToken,
					"merchant_name": "Corner Coffee",
					"amount":        10000,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected response: %s", body)

				var payResp paymentDTO.PaymentResponse
				require.NoError(t, json.Unmarshal(body, &payResp))
				assert.True(t, payResp.Approved)
				assert.Equal(t, "APR-INTEGRATION", payResp.ApprovalCode)
				assert.Equal(t, card.ID.String(), payResp.CardID)
				require.NotNil(t, payResp.Applied)
				assert.Equal(t, int64(500), payResp.Applied.Amount)
				assert.Equal(t, string(benefitDomain.Discount), payResp.Applied.BenefitType)

				assert.Positive(t, ctx.issuerRequests.Load(), "issuer stub should have been called")
			})

			// [3/5] Approved payment persists the comparison record
			t.Run("03_ComparisonPersisted", func(t *testing.T) {
				var appliedAmount int64
				var merchantName string
				query := "SELECT applied_amount, merchant_name FROM payment_comparisons WHERE user_id = $1"
				if ctx.dbDriver == "mysql" {
					query = "SELECT applied_amount, merchant_name FROM payment_comparisons WHERE user_id = ?"
				}
				err := ctx.db.QueryRow(query, userID).Scan(&appliedAmount, &merchantName)
				require.NoError(t, err, "comparison row should exist after an approved payment")
				assert.Equal(t, int64(500), appliedAmount)
				assert.Equal(t, "Corner Coffee", merchantName)
			})

			// [4/5] Submit a payment without a token (best-card selection)
			t.Run("04_SubmitPaymentBestCard", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/payments", map[string]interface{}{
					"user_id":       userID.String(),
					"merchant_name": "Corner Coffee",
					"amount":        20000,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected response: %s", body)

				var payResp paymentDTO.PaymentResponse
				require.NoError(t, json.Unmarshal(body, &payResp))
				assert.True(t, payResp.Approved)
				assert.Equal(t, card.ID.String(), payResp.CardID)
				require.NotNil(t, payResp.Applied)
				assert.Equal(t, int64(500), payResp.Applied.Amount)
			})

			// [5/5] A garbage token is rejected without leaking why
			t.Run("05_InvalidTokenOpaqueRejection", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/payments", map[string]interface{}{
					"user_id":       userID.String(),
					"token":         "bm90LWEtcmVhbC10b2tlbg",
					"merchant_name": "Corner Coffee",
					"amount":        10000,
				})
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				assert.Contains(t, string(body), "The payment could not be authorized")
				assert.NotContains(t, string(body), "signature")
				assert.NotContains(t, string(body), "expired")
			})

			t.Logf("All 5 payment flow tests passed for %s", tc.dbDriver)
		})
	}
}

// TestIntegration_Token_AliasFlow tests QR issuance and paying by alias
// instead of the full token.
func TestIntegration_Token_AliasFlow(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			userID := uuid.Must(uuid.NewV7())
			card := seedCard(t, ctx, userID)
			seedDiscountRule(t, ctx, card.CardTemplateID, 300)
			seedMerchant(t, ctx, "Grand Market", 20, 201)

			// [1/2] Issue an offline token and keep its alias
			var alias string
			t.Run("01_IssueOfflineToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/offline", map[string]interface{}{
					"user_id": userID.String(),
					"card_id": card.ID.String(),
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected response: %s", body)

				var tokenResp tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &tokenResp))
				require.NotEmpty(t, tokenResp.Alias)
				alias = tokenResp.Alias
			})

			// [2/2] Pay by alias: the server resolves it to the full token
			t.Run("02_SubmitPaymentWithAlias", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/payments", map[string]interface{}{
					"user_id":       userID.String(),
					"token":         alias,
					"merchant_name": "Grand Market",
					"amount":        15000,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected response: %s", body)

				var payResp paymentDTO.PaymentResponse
				require.NoError(t, json.Unmarshal(body, &payResp))
				assert.True(t, payResp.Approved)
				assert.Equal(t, card.ID.String(), payResp.CardID)
				require.NotNil(t, payResp.Applied)
				assert.Equal(t, int64(300), payResp.Applied.Amount)
			})

			t.Logf("All 2 token alias tests passed for %s", tc.dbDriver)
		})
	}
}
