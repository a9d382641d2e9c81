package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialStatus tracks the lifecycle of a card's permanent credential.
type CredentialStatus string

const (
	// CredentialActive credentials can issue tokens and submit transactions.
	CredentialActive CredentialStatus = "ACTIVE"
	// CredentialSuspended credentials are temporarily unusable.
	CredentialSuspended CredentialStatus = "SUSPENDED"
	// CredentialRevoked credentials are permanently unusable.
	CredentialRevoked CredentialStatus = "REVOKED"
)

// Card is a registered card held by a user. The permanent credential is the
// durable identifier the issuer knows the card by; tokens are built around it
// so sensitive card data is never re-exposed.
type Card struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CardTemplateID uuid.UUID
	Credential     string
	Status         CredentialStatus
	CreatedAt      time.Time
}

// HasActiveCredential reports whether the card can participate in payments.
func (c *Card) HasActiveCredential() bool {
	return c.Status == CredentialActive
}
