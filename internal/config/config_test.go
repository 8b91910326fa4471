package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/tiffin/internal/analytics"
	"github.com/Veraticus/tiffin/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAnalyticsConfig(t *testing.T) {
	tests := []struct {
		settings map[string]any
		check    func(t *testing.T, cfg analytics.Config)
		name     string
		wantErr  error
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg analytics.Config) {
				assert.Equal(t, analytics.DefaultConfig(), cfg)
			},
		},
		{
			name: "overrides",
			settings: map[string]any{
				KeyStockThreshold:       25,
				KeyRetentionWindowDays:  "21",
				KeyTrendingBaselineDays: 0,
				KeyReferenceDate:        "06/30/24",
			},
			check: func(t *testing.T, cfg analytics.Config) {
				assert.Equal(t, 25, cfg.StockThreshold)
				assert.Equal(t, 21, cfg.RetentionWindowDays)
				assert.Equal(t, 0, cfg.TrendingBaselineDays)
				assert.Equal(t, analytics.DefaultTrendingWindowDays, cfg.TrendingWindowDays)
				assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate)
			},
		},
		{
			name:     "bad reference date",
			settings: map[string]any{KeyReferenceDate: "30/06/2024"},
			wantErr:  common.ErrDateParse,
		},
		{
			name:     "negative window",
			settings: map[string]any{KeyTrendingWindowDays: -7},
			wantErr:  common.ErrInvalidConfig,
		},
		{
			name:     "non-numeric threshold",
			settings: map[string]any{KeyStockThreshold: "abc"},
			wantErr:  common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			SetDefaults()
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			cfg, err := LoadAnalyticsConfig()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadAnalyticsConfigRejectsNonNumeric(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set(KeyPaymentMatchDays, "two")

	_, err := LoadAnalyticsConfig()
	require.Error(t, err)

	var cfgErr *analytics.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "payment_match_days", cfgErr.Field)
	assert.Equal(t, "two", cfgErr.Input)
	assert.EqualError(t, err, `invalid configuration: payment_match_days is "two": must be a whole number`)
}

func TestLoadAnalyticsConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "analytics:\n  stock_threshold: 40\n  payment_match_days: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := LoadAnalyticsConfig()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.StockThreshold)
	assert.Equal(t, 2, cfg.PaymentMatchDays)
	assert.Equal(t, analytics.DefaultRetentionWindowDays, cfg.RetentionWindowDays)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TIFFIN_TEST_DIR", "/srv/orders")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/chats/june.txt", want: filepath.Join(home, "chats/june.txt")},
		{input: "$TIFFIN_TEST_DIR/june.txt", want: "/srv/orders/june.txt"},
		{input: "relative/path.csv", want: "relative/path.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const (
		fromFile = "TIFFIN_TEST_DOTENV_VALUE"
		existing = "TIFFIN_TEST_DOTENV_EXISTING"
	)
	t.Cleanup(func() { _ = os.Unsetenv(fromFile) })
	t.Setenv(existing, "shell")

	path := filepath.Join(t.TempDir(), ".env")
	content := fromFile + "=from-file\n" + existing + "=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(fromFile))
	assert.Equal(t, "shell", os.Getenv(existing))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, LoadDotEnv(""))
}
