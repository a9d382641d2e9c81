package domain

// Variant identifies which payment flow a token was issued for. The wire
// shape is identical across variants; only the encrypted payload fields differ.
type Variant string

const (
	// VariantOffline binds a card credential to a user for point-of-sale
	// presentation before the merchant is known.
	// Payload: cardCredential|userId
	VariantOffline Variant = "offline"

	// VariantOnline binds a card credential, user, merchant and amount for an
	// in-app checkout.
	// Payload: userId|cardCredential|merchantName|amount
	VariantOnline Variant = "online"

	// VariantQR carries only merchant and amount, for merchant-side display
	// before a card is chosen.
	// Payload: merchantName|amount
	VariantQR Variant = "qr"
)

// PayloadFieldCount returns the exact number of pipe-delimited fields the
// decrypted payload of this variant must contain. Any other count makes the
// token invalid.
func (v Variant) PayloadFieldCount() int {
	switch v {
	case VariantOnline:
		return 4
	case VariantOffline, VariantQR:
		return 2
	default:
		return 0
	}
}

// IsValid reports whether v is one of the known variants.
func (v Variant) IsValid() bool {
	switch v {
	case VariantOffline, VariantOnline, VariantQR:
		return true
	default:
		return false
	}
}
