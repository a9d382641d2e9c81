package service

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/allisson/cardpay/internal/cache"
	apperrors "github.com/allisson/cardpay/internal/errors"
	tokenDomain "github.com/allisson/cardpay/internal/token/domain"
)

// manager implements Manager. Issuance and validation are pure functions of
// the codec, the clock and the inputs; the alias cache is the only
// collaborator with state, and it carries no independent authority.
type manager struct {
	codec       Codec
	aliasCache  cache.Cache
	expiration  time.Duration
	aliasLength int
	now         func() time.Time
}

// NewManager creates a Manager. expiration is the token validity window
// (5 minutes in production); aliasLength is how many leading token characters
// form the short alias.
func NewManager(codec Codec, aliasCache cache.Cache, expiration time.Duration, aliasLength int) Manager {
	return &manager{
		codec:       codec,
		aliasCache:  aliasCache,
		expiration:  expiration,
		aliasLength: aliasLength,
		now:         time.Now,
	}
}

// IssueOffline builds an offline token: payload cardCredential|userId.
func (m *manager) IssueOffline(ctx context.Context, cardCredential, userID string) (string, string, error) {
	payload := &tokenDomain.Payload{
		Variant:        tokenDomain.VariantOffline,
		CardCredential: cardCredential,
		UserID:         userID,
	}
	return m.issue(ctx, payload)
}

// IssueOnline builds an online token: payload userId|cardCredential|merchantName|amount.
func (m *manager) IssueOnline(
	ctx context.Context,
	merchantName string,
	amount int64,
	cardCredential, userID string,
) (string, string, error) {
	payload := &tokenDomain.Payload{
		Variant:        tokenDomain.VariantOnline,
		UserID:         userID,
		CardCredential: cardCredential,
		MerchantName:   merchantName,
		Amount:         amount,
	}
	return m.issue(ctx, payload)
}

// IssueQR builds a QR token: payload merchantName|amount.
func (m *manager) IssueQR(ctx context.Context, merchantName string, amount int64) (string, string, error) {
	payload := &tokenDomain.Payload{
		Variant:      tokenDomain.VariantQR,
		MerchantName: merchantName,
		Amount:       amount,
	}
	return m.issue(ctx, payload)
}

// issue encrypts and signs the payload and registers the short alias.
func (m *manager) issue(_ context.Context, payload *tokenDomain.Payload) (string, string, error) {
	iv, encodedIV, err := m.codec.GenerateIV()
	if err != nil {
		return "", "", err
	}

	encrypted, err := m.codec.Encrypt(payload.Join(), iv)
	if err != nil {
		return "", "", err
	}

	env := &tokenDomain.Envelope{
		EncryptedPayload: encrypted,
		IV:               encodedIV,
		ExpiresAtMillis:  m.now().Add(m.expiration).UnixMilli(),
	}
	env.Signature = m.codec.Sign(env.SignedPortion())

	token := env.Encode()
	alias := m.registerAlias(token)

	return token, alias, nil
}

// registerAlias stores the abbreviated token in the alias cache with the same
// lifetime as the token itself. Tokens shorter than the alias length alias to
// themselves and are not cached.
func (m *manager) registerAlias(token string) string {
	if len(token) <= m.aliasLength {
		return token
	}

	alias := token[:m.aliasLength]
	m.aliasCache.Set(alias, token, m.expiration)
	return alias
}

// Validate checks the token fail-closed: structural shape, expiry, signature,
// then payload decryption and variant field count. Every failure maps to the
// same ErrTokenInvalid so callers cannot learn why a token was refused.
func (m *manager) Validate(
	_ context.Context,
	token string,
	variant tokenDomain.Variant,
) (*tokenDomain.Payload, error) {
	if !variant.IsValid() {
		return nil, apperrors.ErrTokenInvalid
	}

	env, ok := tokenDomain.DecodeEnvelope(token)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}

	if m.now().UnixMilli() > env.ExpiresAtMillis {
		return nil, apperrors.ErrTokenInvalid
	}

	if !m.codec.Verify(env.SignedPortion(), env.Signature) {
		return nil, apperrors.ErrTokenInvalid
	}

	iv, err := decodeIV(env.IV)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	plaintext, err := m.codec.Decrypt(env.EncryptedPayload, iv)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	payload, ok := tokenDomain.ParsePayload(plaintext, variant)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}

	return payload, nil
}

// decodeIV decodes the base64 IV from the envelope and enforces its size.
func decodeIV(encoded string) ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(iv) != ivSize {
		return nil, apperrors.ErrInvalidInput
	}
	return iv, nil
}

// ResolveAlias looks up the full token behind a short alias.
func (m *manager) ResolveAlias(_ context.Context, alias string) (string, error) {
	token, ok := m.aliasCache.Get(alias)
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return token, nil
}
