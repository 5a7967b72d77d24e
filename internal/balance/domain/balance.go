package domain

import (
	"errors"
	"time"
)

// BalanceEntry is one point-in-time balance observation for an asset. Entries
// are append-only; history is never rewritten.
type BalanceEntry struct {
	ID        string
	AssetID   string
	Timestamp time.Time
	// Amount is decimal text (e.g. "125000.00"); the numeric(20,2) column
	// enforces precision.
	Amount string
	Note   string
}

// Validate validates the entry for persistence.
func (b *BalanceEntry) Validate() error {
	if b.AssetID == "" {
		return errors.New("asset id is required")
	}
	if b.Amount == "" {
		return errors.New("amount is required")
	}
	return nil
}
