package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/tiffin/internal/common"
)

// Default configuration values.
const (
	DefaultStockThreshold       = 10
	DefaultRetentionWindowDays  = 14
	DefaultTrendingWindowDays   = 7
	DefaultTrendingBaselineDays = 14
	DefaultQuickChurnDays       = 7
	DefaultPaymentMatchDays     = 1
)

// Config holds every tunable the engine uses. The engine reads nothing else.
type Config struct {
	// ReferenceDate anchors all "days since" math. Zero means the latest
	// order date in the batch.
	ReferenceDate time.Time `json:"reference_date"`
	// StockThreshold is the per-item cumulative sales ceiling; items sold
	// beyond it are flagged low stock.
	StockThreshold int `json:"stock_threshold"`
	// RetentionWindowDays keeps a customer retained while their last order
	// is at most this many days before the reference date.
	RetentionWindowDays int `json:"retention_window_days"`
	// TrendingWindowDays is the length of the recent sales window.
	TrendingWindowDays int `json:"trending_window_days"`
	// TrendingBaselineDays is the length of the window preceding the recent one.
	TrendingBaselineDays int `json:"trending_baseline_days"`
	// QuickChurnDays separates quick churn (shorter lifetime) from slow churn.
	QuickChurnDays int `json:"quick_churn_days"`
	// PaymentMatchDays is how far apart an order and a payment may be dated
	// and still count as related.
	PaymentMatchDays int `json:"payment_match_days"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		StockThreshold:       DefaultStockThreshold,
		RetentionWindowDays:  DefaultRetentionWindowDays,
		TrendingWindowDays:   DefaultTrendingWindowDays,
		TrendingBaselineDays: DefaultTrendingBaselineDays,
		QuickChurnDays:       DefaultQuickChurnDays,
		PaymentMatchDays:     DefaultPaymentMatchDays,
	}
}

// ConfigurationError reports an invalid configuration field.
type ConfigurationError struct {
	Field  string
	Reason string
	Input  string // raw setting when it could not be read as a number
	Value  int
}

func (e *ConfigurationError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%v: %s is %q: %s", common.ErrInvalidConfig, e.Field, e.Input, e.Reason)
	}
	return fmt.Sprintf("%v: %s is %d: %s", common.ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return common.ErrInvalidConfig
}

// Validate reports every invalid field. Zero is allowed everywhere.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"stock_threshold", c.StockThreshold},
		{"retention_window_days", c.RetentionWindowDays},
		{"trending_window_days", c.TrendingWindowDays},
		{"trending_baseline_days", c.TrendingBaselineDays},
		{"quick_churn_days", c.QuickChurnDays},
		{"payment_match_days", c.PaymentMatchDays},
	}

	var errs []error
	for _, f := range fields {
		if f.value < 0 {
			errs = append(errs, &ConfigurationError{Field: f.name, Value: f.value, Reason: "must not be negative"})
		}
	}
	return errors.Join(errs...)
}
