// Package model defines the core domain models used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Order validation errors.
var (
	ErrEmptyCustomer   = errors.New("customer name is empty")
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyItemName   = errors.New("item name is empty")
	ErrMissingDate     = errors.New("order date is missing")
)

// FoldKey returns the grouping key for a customer or item name: surrounding and
// repeated internal whitespace removed, case folded.
func FoldKey(name string) string {
	return cases.Fold().String(CleanName(name))
}

// CleanName trims a display name and collapses internal whitespace runs.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// LineItem is one item/quantity pair of an order.
type LineItem struct {
	Name     string `json:"name"` // display name, case preserved
	Key      string `json:"key"`  // folded name used for aggregation
	Quantity int    `json:"quantity"`
}

// Order is a single customer order extracted from one message line.
// Orders are built by NewOrder and treated as read-only afterwards.
type Order struct {
	Date         time.Time  `json:"date"`
	CustomerName string     `json:"customer"`
	CustomerKey  string     `json:"customer_key"`
	RawText      string     `json:"raw_text"`
	Items        []LineItem `json:"items"`
	LineNumber   int        `json:"line_number,omitempty"`
}

// NewOrder validates the order fields and returns a normalized Order.
// Item names that fold to the same key are merged and their quantities summed;
// the first spelling seen is kept for display.
func NewOrder(customer string, date time.Time, items []LineItem, rawText string) (*Order, error) {
	name := CleanName(customer)
	if name == "" {
		return nil, ErrEmptyCustomer
	}
	if date.IsZero() {
		return nil, ErrMissingDate
	}

	merged := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		display := CleanName(item.Name)
		if display == "" {
			return nil, ErrEmptyItemName
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: %q has quantity %d", ErrInvalidQuantity, display, item.Quantity)
		}

		key := FoldKey(display)
		if i, ok := index[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, LineItem{Name: display, Key: key, Quantity: item.Quantity})
	}
	if len(merged) == 0 {
		return nil, ErrNoItems
	}

	return &Order{
		Date:         DateOf(date),
		CustomerName: name,
		CustomerKey:  FoldKey(name),
		Items:        merged,
		RawText:      rawText,
	}, nil
}

// TotalQuantity returns the number of units across all items of the order.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// DateOf strips the time-of-day from t and returns the calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
