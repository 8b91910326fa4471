package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single payment record from a payment export (Zelle CSV, OFX).
// It is consumed read-only; orders and payments are related by date proximity only.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // signed; incoming payments are positive
	Description string
	ID          string // source identifier when the export carries one
	Source      string // "csv", "ofx"
}

// GenerateHash creates a stable hash for duplicate detection across overlapping exports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Description,
		t.ID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
