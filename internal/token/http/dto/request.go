// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cardpay/internal/validation"
)

// IssueOfflineTokenRequest contains the parameters for issuing an offline
// point-of-sale token.
type IssueOfflineTokenRequest struct {
	UserID string `json:"user_id"`
	CardID string `json:"card_id"`
}

// Validate checks if the offline token request is valid.
func (r *IssueOfflineTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.CardID,
			validation.Required,
			customValidation.UUID,
		),
	)
}

// IssueOnlineTokenRequest contains the parameters for issuing an online token
// bound to a merchant and amount.
type IssueOnlineTokenRequest struct {
	UserID       string `json:"user_id"`
	CardID       string `json:"card_id"`
	MerchantName string `json:"merchant_name"`
	Amount       int64  `json:"amount"` // Minor currency units
}

// Validate checks if the online token request is valid.
func (r *IssueOnlineTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.CardID,
			validation.Required,
			customValidation.UUID,
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

// IssueQRTokenRequest contains the parameters for issuing a merchant-side QR
// token. QR tokens carry no card binding.
type IssueQRTokenRequest struct {
	MerchantName string `json:"merchant_name"`
	Amount       int64  `json:"amount"` // Minor currency units
}

// Validate checks if the QR token request is valid.
func (r *IssueQRTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
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
