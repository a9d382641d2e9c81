// Package usecase implements the payment orchestrator: it composes token
// validation, merchant classification, benefit selection, issuer submission
// and the post-approval bookkeeping into one payment attempt.
package usecase

import (
	"context"

	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
)

// ComparisonRepository persists the per-user recommendation-vs-actual record.
type ComparisonRepository interface {
	// Upsert replaces the user's comparison record.
	Upsert(ctx context.Context, comparison *paymentDomain.Comparison) error
}

// Orchestrator runs one payment attempt end to end.
//
// Side effects are ordered: nothing is persisted unless the issuer approves.
// Invalid tokens collapse into errors.ErrTokenInvalid; issuer failures
// surface as errors.ErrExternalUnavailable or errors.ErrRejected.
type Orchestrator interface {
	Pay(ctx context.Context, request *paymentDomain.Request) (*paymentDomain.Result, error)
}
