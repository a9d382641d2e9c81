// Package issuer implements the HTTP client for the external card-issuer
// service. Failures are classified into retryable (timeouts, 5xx) and
// terminal (4xx, explicit rejection) outcomes so the payment orchestrator can
// guarantee no local state mutates unless submission succeeded.
package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/cardpay/internal/errors"
)

// TransactionRequest is the submission sent to the card issuer.
type TransactionRequest struct {
	CardCredential string    `json:"card_credential"`
	Amount         int64     `json:"amount"`
	MerchantName   string    `json:"merchant_name"`
	BenefitID      uuid.UUID `json:"benefit_id,omitempty"`
	BenefitType    string    `json:"benefit_type,omitempty"`
	BenefitAmount  int64     `json:"benefit_amount"`
	RequestedAt    time.Time `json:"requested_at"`
}

// TransactionResponse is the issuer's approval outcome.
type TransactionResponse struct {
	Approved     bool      `json:"approved"`
	ApprovalCode string    `json:"approval_code"`
	SettledAt    time.Time `json:"settled_at"`
	Reason       string    `json:"reason,omitempty"`
}

// Client submits transactions to the card issuer.
type Client interface {
	// Submit sends one transaction. ErrExternalUnavailable marks retryable
	// failures, ErrRejected marks terminal ones.
	Submit(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error)
}

// httpClient implements Client over the issuer's JSON API.
type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an issuer client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Submit sends the transaction to POST {base}/transactions.
func (h *httpClient) Submit(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode transaction request")
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		h.baseURL+"/transactions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build transaction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		// Timeouts and connection failures are retryable.
		return nil, apperrors.Wrap(apperrors.ErrExternalUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, apperrors.Wrap(apperrors.ErrExternalUnavailable,
			fmt.Sprintf("issuer returned status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, apperrors.Wrap(apperrors.ErrRejected,
			fmt.Sprintf("issuer returned status %d", resp.StatusCode))
	}

	var txResp TransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&txResp); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode transaction response")
	}

	if !txResp.Approved {
		return nil, apperrors.Wrap(apperrors.ErrRejected, "issuer declined transaction")
	}

	return &txResp, nil
}
