package domain

import "github.com/google/uuid"

// Candidate is the transient result of evaluating one rule for one payment.
// Candidates exist only to rank alternatives within a single selection call;
// they are never persisted.
type Candidate struct {
	CardID         uuid.UUID
	CardCredential string
	BenefitID      uuid.UUID
	BenefitType    BenefitType
	Amount         int64
}

// Better reports whether c ranks above other: larger amount first, then
// ascending card ID, then ascending benefit ID. The secondary keys make
// selection deterministic when amounts tie.
func (c *Candidate) Better(other *Candidate) bool {
	if c.Amount != other.Amount {
		return c.Amount > other.Amount
	}

	if cmp := compareUUID(c.CardID, other.CardID); cmp != 0 {
		return cmp < 0
	}
	return compareUUID(c.BenefitID, other.BenefitID) < 0
}

// compareUUID orders UUIDs by byte value.
func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
