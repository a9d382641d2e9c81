package issuer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cardpay/internal/errors"
)

func testRequest() *TransactionRequest {
	return &TransactionRequest{
		CardCredential: "credential-1",
		Amount:         20000,
		MerchantName:   "coffee house",
		BenefitID:      uuid.Must(uuid.NewV7()),
		BenefitType:    "DISCOUNT",
		BenefitAmount:  1000,
		RequestedAt:    time.Now().UTC(),
	}
}

func TestHTTPClient_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Approved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transactions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req TransactionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "credential-1", req.CardCredential)
			assert.Equal(t, int64(1000), req.BenefitAmount)

			json.NewEncoder(w).Encode(TransactionResponse{
				Approved:     true,
				ApprovalCode: "APPROVAL-123",
				SettledAt:    time.Now().UTC(),
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)

		resp, err := client.Submit(ctx, testRequest())

		require.NoError(t, err)
		assert.True(t, resp.Approved)
		assert.Equal(t, "APPROVAL-123", resp.ApprovalCode)
	})

	t.Run("Error_Declined", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TransactionResponse{
				Approved: false,
				Reason:   "insufficient funds",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)

		resp, err := client.Submit(ctx, testRequest())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrRejected)
	})

	t.Run("Error_ClientErrorIsTerminal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)

		resp, err := client.Submit(ctx, testRequest())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrRejected)
	})

	t.Run("Error_ServerErrorIsRetryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)

		resp, err := client.Submit(ctx, testRequest())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrExternalUnavailable)
	})

	t.Run("Error_TimeoutIsRetryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(server.URL, 20*time.Millisecond)

		resp, err := client.Submit(ctx, testRequest())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrExternalUnavailable)
	})

	t.Run("Error_ConnectionRefusedIsRetryable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second)

		resp, err := client.Submit(ctx, testRequest())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrExternalUnavailable)
	})
}
