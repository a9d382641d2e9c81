// Package domain defines the payment token wire format and payload models.
//
// A token is a derived, stateless artifact, never persisted. On the wire it is
// base64url (no padding) over exactly four pipe-delimited fields:
//
//	encryptedPayload | iv | expiresAtEpochMillis | signature
//
// Any token that deviates from that shape is unconditionally invalid; no
// partial trust, and no hint to the caller about which check failed.
package domain

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// envelopeFieldCount is the exact number of top-level pipe-delimited fields.
const envelopeFieldCount = 4

// Envelope is the decoded but not yet verified structure of a token.
// EncryptedPayload, IV and Signature remain in their base64 text form; the
// signature covers exactly the transmitted string "encryptedPayload|iv|expiresAt".
type Envelope struct {
	EncryptedPayload string
	IV               string
	ExpiresAtMillis  int64
	Signature        string
}

// Encode serializes the envelope to its transportable text form.
func (e *Envelope) Encode() string {
	joined := e.SignedPortion() + "|" + e.Signature
	return base64.RawURLEncoding.EncodeToString([]byte(joined))
}

// SignedPortion returns the exact byte string the signature must authenticate.
// Callers sign the already-joined string, not structured data, so there is no
// canonicalization step to get wrong.
func (e *Envelope) SignedPortion() string {
	return e.EncryptedPayload + "|" + e.IV + "|" + strconv.FormatInt(e.ExpiresAtMillis, 10)
}

// DecodeEnvelope parses the transportable text form back into an Envelope.
// Returns false on any structural problem: bad base64, wrong field count, or a
// non-numeric expiry. It performs no cryptographic checks.
func DecodeEnvelope(token string) (*Envelope, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}

	fields := strings.Split(string(raw), "|")
	if len(fields) != envelopeFieldCount {
		return nil, false
	}

	expiresAt, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, false
	}

	return &Envelope{
		EncryptedPayload: fields[0],
		IV:               fields[1],
		ExpiresAtMillis:  expiresAt,
		Signature:        fields[3],
	}, true
}

// Payload holds the decrypted, variant-specific token fields. Fields not
// carried by the variant stay at their zero value.
type Payload struct {
	Variant        Variant
	CardCredential string
	UserID         string
	MerchantName   string
	Amount         int64
}

// Join serializes the payload to the pipe-delimited plaintext for its variant.
func (p *Payload) Join() string {
	switch p.Variant {
	case VariantOffline:
		return p.CardCredential + "|" + p.UserID
	case VariantOnline:
		return p.UserID + "|" + p.CardCredential + "|" + p.MerchantName + "|" +
			strconv.FormatInt(p.Amount, 10)
	case VariantQR:
		return p.MerchantName + "|" + strconv.FormatInt(p.Amount, 10)
	default:
		return ""
	}
}

// ParsePayload splits a decrypted plaintext into the fields of the expected
// variant. Returns false when the field count does not match the variant or a
// numeric field fails to parse.
func ParsePayload(plaintext string, variant Variant) (*Payload, bool) {
	fields := strings.Split(plaintext, "|")
	if len(fields) != variant.PayloadFieldCount() {
		return nil, false
	}

	p := &Payload{Variant: variant}

	switch variant {
	case VariantOffline:
		p.CardCredential = fields[0]
		p.UserID = fields[1]
	case VariantOnline:
		amount, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, false
		}
		p.UserID = fields[0]
		p.CardCredential = fields[1]
		p.MerchantName = fields[2]
		p.Amount = amount
	case VariantQR:
		amount, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, false
		}
		p.MerchantName = fields[0]
		p.Amount = amount
	default:
		return nil, false
	}

	return p, true
}
