// Package report implements the fire-and-forget trigger that asks the
// reporting service to refresh a user's monthly benefit summary after a
// payment. Failures are logged and never propagated; summaries are advisory
// and must not affect payment correctness.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client triggers monthly summary refreshes.
type Client interface {
	// RefreshMonthlySummary notifies the reporting service that the user's
	// summary for the period is stale. Always returns without error.
	RefreshMonthlySummary(ctx context.Context, userID uuid.UUID, year int, month time.Month)
}

type refreshRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Year   int       `json:"year"`
	Month  int       `json:"month"`
}

// httpClient implements Client over the reporting service's JSON API.
type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a report client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// RefreshMonthlySummary sends POST {base}/summaries/refresh and swallows
// every failure.
func (h *httpClient) RefreshMonthlySummary(
	ctx context.Context,
	userID uuid.UUID,
	year int,
	month time.Month,
) {
	body, err := json.Marshal(refreshRequest{UserID: userID, Year: year, Month: int(month)})
	if err != nil {
		h.logFailure(userID, err)
		return
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		h.baseURL+"/summaries/refresh",
		bytes.NewReader(body),
	)
	if err != nil {
		h.logFailure(userID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logFailure(userID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if h.logger != nil {
			h.logger.Warn("summary refresh rejected",
				slog.String("user_id", userID.String()),
				slog.Int("status", resp.StatusCode),
			)
		}
	}
}

func (h *httpClient) logFailure(userID uuid.UUID, err error) {
	if h.logger != nil {
		h.logger.Warn("summary refresh failed",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
}
