// Package domain defines the merchant directory model. Merchants map the
// free-form names arriving on payment requests to the category taxonomy the
// benefit rules are written against.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
)

// Merchant is one entry of the merchant directory.
type Merchant struct {
	ID            uuid.UUID
	Name          string
	CategoryID    int64
	SubcategoryID int64
	CreatedAt     time.Time
}

// Classification converts the directory entry into the form rule matching
// consumes.
func (m *Merchant) Classification() benefitDomain.Classification {
	return benefitDomain.Classification{
		MerchantID:    m.ID,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
	}
}

// NormalizeName canonicalizes a merchant name for lookup. Payment requests
// carry names as typed by acquirers, so matching is case- and
// whitespace-insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
