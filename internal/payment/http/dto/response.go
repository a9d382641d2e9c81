package dto

import (
	"time"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/notify"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
)

// BenefitResponse describes one benefit outcome attached to a payment.
type BenefitResponse struct {
	BenefitID   string `json:"benefit_id"`
	BenefitType string `json:"benefit_type"`
	CardID      string `json:"card_id"`
	Amount      int64  `json:"amount"`
}

// PaymentResponse is the settlement outcome returned to the client. Applied
// is the benefit actually granted; Recommended is the best benefit across all
// of the user's cards, so clients can show what a different card would have
// earned.
type PaymentResponse struct {
	Approved     bool             `json:"approved"`
	ApprovalCode string           `json:"approval_code"`
	SettledAt    time.Time        `json:"settled_at"`
	CardID       string           `json:"card_id"`
	Applied      *BenefitResponse `json:"applied,omitempty"`
	Recommended  *BenefitResponse `json:"recommended,omitempty"`
}

// MapResultToPaymentResponse maps a domain payment result to a PaymentResponse DTO.
func MapResultToPaymentResponse(result *paymentDomain.Result) PaymentResponse {
	return PaymentResponse{
		Approved:     result.Approved,
		ApprovalCode: result.ApprovalCode,
		SettledAt:    result.SettledAt,
		CardID:       result.CardID.String(),
		Applied:      mapCandidate(result.Applied),
		Recommended:  mapCandidate(result.Recommended),
	}
}

func mapCandidate(candidate *benefitDomain.Candidate) *BenefitResponse {
	if candidate == nil {
		return nil
	}
	return &BenefitResponse{
		BenefitID:   candidate.BenefitID.String(),
		BenefitType: string(candidate.BenefitType),
		CardID:      candidate.CardID.String(),
		Amount:      candidate.Amount,
	}
}

// NotificationResponse is one advisory payment-status event delivered over
// the long-poll endpoint.
type NotificationResponse struct {
	UserID        string    `json:"user_id"`
	Approved      bool      `json:"approved"`
	Amount        int64     `json:"amount"`
	BenefitAmount int64     `json:"benefit_amount"`
	MerchantName  string    `json:"merchant_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// MapEventToNotificationResponse maps a notifier event to a NotificationResponse DTO.
func MapEventToNotificationResponse(event notify.Event) NotificationResponse {
	return NotificationResponse{
		UserID:        event.UserID.String(),
		Approved:      event.Approved,
		Amount:        event.Amount,
		BenefitAmount: event.BenefitAmount,
		MerchantName:  event.MerchantName,
		OccurredAt:    event.OccurredAt,
	}
}
