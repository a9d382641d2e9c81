// Package service implements the payment token scheme: symmetric encryption
// and signing primitives (Codec) and the issuance/validation manager built on
// top of them (Manager).
package service

import (
	"context"

	tokenDomain "github.com/allisson/cardpay/internal/token/domain"
)

// Codec provides the symmetric crypto primitives of the token scheme, with no
// business semantics.
type Codec interface {
	// Encrypt encrypts plaintext with the process payment key and the given
	// raw IV, returning base64-encoded ciphertext.
	Encrypt(plaintext string, iv []byte) (string, error)

	// Decrypt reverses Encrypt. Fails on padding or format mismatch.
	Decrypt(ciphertext string, iv []byte) (string, error)

	// Sign computes the signature over the exact byte string that will also
	// be transmitted, returning it base64-encoded.
	Sign(data string) string

	// Verify reports whether signature authenticates data. Constant time.
	Verify(data, signature string) bool

	// GenerateIV returns 16 random bytes plus their base64 encoding for
	// embedding in the text token.
	GenerateIV() (raw []byte, encoded string, err error)
}

// Manager constructs and validates the token variants used by the payment
// flow. Issuance and validation are pure and stateless; the alias cache is an
// optimization layer, not a security boundary.
type Manager interface {
	// IssueOffline builds an offline token bound to a card credential and
	// user, registers a short alias, and returns both.
	IssueOffline(ctx context.Context, cardCredential, userID string) (token, alias string, err error)

	// IssueOnline builds an online token bound to card, user, merchant and
	// amount.
	IssueOnline(ctx context.Context, merchantName string, amount int64, cardCredential, userID string) (token, alias string, err error)

	// IssueQR builds a merchant-side QR token with no card binding.
	IssueQR(ctx context.Context, merchantName string, amount int64) (token, alias string, err error)

	// Validate decodes, expiry-checks, signature-checks and decrypts the
	// token, parsing the payload as the given variant. Every failure collapses
	// into errors.ErrTokenInvalid; callers learn nothing more.
	Validate(ctx context.Context, token string, variant tokenDomain.Variant) (*tokenDomain.Payload, error)

	// ResolveAlias returns the full token a short alias points at, or
	// errors.ErrNotFound when the alias is unknown or expired.
	ResolveAlias(ctx context.Context, alias string) (string, error)
}
