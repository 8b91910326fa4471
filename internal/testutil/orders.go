// Package testutil provides fixture builders for tiffin tests.
package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/tiffin/internal/message"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/shopspring/decimal"
)

// Reference is the anchor date used by fixtures unless a test picks its own.
var Reference = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

// DaysAgo returns the date n days before ref.
func DaysAgo(ref time.Time, n int) time.Time {
	return ref.AddDate(0, 0, -n)
}

// OrderBuilder provides a fluent interface for constructing order batches
// with dates relative to a reference date.
//
// Example:
//
//	orders := testutil.NewOrderBuilder(t, testutil.Reference).
//		Order("Asha", 3, "2 Naan", "Dal").
//		Daily("Ravi", "1 Rice", 20, 14).
//		Build()
type OrderBuilder struct {
	ref    time.Time
	t      *testing.T
	orders []model.Order
}

// NewOrderBuilder creates a builder anchored at ref.
func NewOrderBuilder(t *testing.T, ref time.Time) *OrderBuilder {
	t.Helper()
	return &OrderBuilder{t: t, ref: ref}
}

// Order adds one order placed daysAgo days before the reference date. Items
// use the message syntax ("2 Naan", "Dal").
func (b *OrderBuilder) Order(customer string, daysAgo int, items ...string) *OrderBuilder {
	b.t.Helper()

	var lineItems []model.LineItem
	for _, item := range items {
		parsed, err := message.ParseItems(item)
		if err != nil {
			b.t.Fatalf("invalid fixture item %q: %v", item, err)
		}
		lineItems = append(lineItems, parsed...)
	}

	order, err := model.NewOrder(customer, DaysAgo(b.ref, daysAgo), lineItems, "")
	if err != nil {
		b.t.Fatalf("invalid fixture order for %q: %v", customer, err)
	}
	order.LineNumber = len(b.orders) + 1
	b.orders = append(b.orders, *order)
	return b
}

// Daily adds one order per day from fromDaysAgo down to toDaysAgo inclusive.
func (b *OrderBuilder) Daily(customer, item string, fromDaysAgo, toDaysAgo int) *OrderBuilder {
	b.t.Helper()
	for d := fromDaysAgo; d >= toDaysAgo; d-- {
		b.Order(customer, d, item)
	}
	return b
}

// Build returns the orders in the sequence they were added.
func (b *OrderBuilder) Build() []model.Order {
	return append([]model.Order(nil), b.orders...)
}

// Payment returns a payment of amount (a decimal string) daysAgo days before ref.
func Payment(t *testing.T, ref time.Time, daysAgo int, amount, description string) model.Transaction {
	t.Helper()
	value, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid fixture amount %q: %v", amount, err)
	}
	return model.Transaction{
		Date:        DaysAgo(ref, daysAgo),
		Amount:      value,
		Description: description,
		Source:      "test",
	}
}
