// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
	customValidation "github.com/allisson/cardpay/internal/validation"
)

// SubmitPaymentRequest contains the parameters for submitting a payment.
// Token is optional: an empty token asks the platform to pick the best card.
type SubmitPaymentRequest struct {
	UserID       string `json:"user_id"`
	Token        string `json:"token,omitempty"`
	MerchantName string `json:"merchant_name"`
	Amount       int64  `json:"amount"` // Minor currency units
}

// Validate checks if the payment request is valid.
func (r *SubmitPaymentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Token,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.MerchantName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Amount,
			validation.Required,
			validation.Min(1),
		),
	)
}

// ToDomain converts the request into a domain payment request.
// Call Validate first; UserID is assumed well formed here.
func (r *SubmitPaymentRequest) ToDomain() *paymentDomain.Request {
	return &paymentDomain.Request{
		UserID:       uuid.MustParse(r.UserID),
		Token:        r.Token,
		MerchantName: r.MerchantName,
		Amount:       r.Amount,
	}
}
