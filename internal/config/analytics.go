package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tiffin/internal/analytics"
	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/dates"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Analytics configuration keys.
const (
	KeyReferenceDate        = "analytics.reference_date"
	KeyStockThreshold       = "analytics.stock_threshold"
	KeyRetentionWindowDays  = "analytics.retention_window_days"
	KeyTrendingWindowDays   = "analytics.trending_window_days"
	KeyTrendingBaselineDays = "analytics.trending_baseline_days"
	KeyQuickChurnDays       = "analytics.quick_churn_days"
	KeyPaymentMatchDays     = "analytics.payment_match_days"
)

// SetDefaults registers the analytics defaults with viper so they show up in
// config dumps and env lookups.
func SetDefaults() {
	d := analytics.DefaultConfig()
	viper.SetDefault(KeyReferenceDate, "")
	viper.SetDefault(KeyStockThreshold, d.StockThreshold)
	viper.SetDefault(KeyRetentionWindowDays, d.RetentionWindowDays)
	viper.SetDefault(KeyTrendingWindowDays, d.TrendingWindowDays)
	viper.SetDefault(KeyTrendingBaselineDays, d.TrendingBaselineDays)
	viper.SetDefault(KeyQuickChurnDays, d.QuickChurnDays)
	viper.SetDefault(KeyPaymentMatchDays, d.PaymentMatchDays)
}

// LoadAnalyticsConfig builds the engine configuration from viper (config file,
// TIFFIN_ env vars and bound flags), falling back to the built-in defaults for
// anything unset. The result is validated.
func LoadAnalyticsConfig() (analytics.Config, error) {
	cfg := analytics.DefaultConfig()

	ints := []struct {
		target *int
		key    string
	}{
		{&cfg.StockThreshold, KeyStockThreshold},
		{&cfg.RetentionWindowDays, KeyRetentionWindowDays},
		{&cfg.TrendingWindowDays, KeyTrendingWindowDays},
		{&cfg.TrendingBaselineDays, KeyTrendingBaselineDays},
		{&cfg.QuickChurnDays, KeyQuickChurnDays},
		{&cfg.PaymentMatchDays, KeyPaymentMatchDays},
	}
	for _, f := range ints {
		if !viper.IsSet(f.key) {
			continue
		}
		raw := viper.Get(f.key)
		n, err := cast.ToIntE(raw)
		if err != nil {
			return analytics.Config{}, &analytics.ConfigurationError{
				Field:  strings.TrimPrefix(f.key, "analytics."),
				Input:  fmt.Sprint(raw),
				Reason: "must be a whole number",
			}
		}
		*f.target = n
	}

	if v := strings.TrimSpace(viper.GetString(KeyReferenceDate)); v != "" {
		ref, err := dates.Normalize(v)
		if err != nil {
			return analytics.Config{}, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyReferenceDate, err)
		}
		cfg.ReferenceDate = ref
	}

	if err := cfg.Validate(); err != nil {
		return analytics.Config{}, err
	}
	return cfg, nil
}
