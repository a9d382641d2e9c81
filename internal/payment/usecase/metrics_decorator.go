package usecase

import (
	"context"
	"time"

	"github.com/allisson/cardpay/internal/metrics"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
)

// orchestratorWithMetrics decorates Orchestrator with metrics instrumentation.
type orchestratorWithMetrics struct {
	next    Orchestrator
	metrics metrics.BusinessMetrics
}

// NewOrchestratorWithMetrics wraps an Orchestrator with metrics recording.
func NewOrchestratorWithMetrics(orchestrator Orchestrator, m metrics.BusinessMetrics) Orchestrator {
	return &orchestratorWithMetrics{
		next:    orchestrator,
		metrics: m,
	}
}

// Pay records metrics for payment submission.
func (o *orchestratorWithMetrics) Pay(
	ctx context.Context,
	request *paymentDomain.Request,
) (*paymentDomain.Result, error) {
	start := time.Now()
	result, err := o.next.Pay(ctx, request)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "payment", "payment_submit", status)
	o.metrics.RecordDuration(ctx, "payment", "payment_submit", time.Since(start), status)

	return result, err
}
