package payments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Loader
		wantErr bool
	}{
		{path: "zelle.csv", want: &CSVLoader{}},
		{path: "/tmp/Export.CSV", want: &CSVLoader{}},
		{path: "checking.ofx", want: &OFXLoader{}},
		{path: "card.qfx", want: &OFXLoader{}},
		{path: "statement.pdf", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loader, err := LoaderFor(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, loader)
		})
	}
}

func TestDedupe(t *testing.T) {
	base := model.Transaction{
		ID:          "TX001",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Zelle from Priya",
		Amount:      decimal.RequireFromString("25.50"),
	}

	sameAgain := base
	sameAgain.Source = "ofx"

	otherAmount := base
	otherAmount.Amount = decimal.RequireFromString("30.00")

	otherDate := base
	otherDate.Date = base.Date.AddDate(0, 0, 1)

	unique := Dedupe([]model.Transaction{base, sameAgain, otherAmount, otherDate})

	require.Len(t, unique, 3)
	assert.Empty(t, unique[0].Source)
	assert.Equal(t, otherAmount.Amount, unique[1].Amount)
	assert.Equal(t, otherDate.Date, unique[2].Date)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "zelle.csv")
	ofxPath := filepath.Join(dir, "checking.ofx")
	overlapPath := filepath.Join(dir, "zelle-again.csv")

	csvData := "date,description,amount\n06/29/24,Zelle from Meena,18.00\n06/27/24,Zelle from Priya,25.00\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csvData), 0o600))
	require.NoError(t, os.WriteFile(overlapPath, []byte(csvData), 0o600))
	require.NoError(t, os.WriteFile(ofxPath, []byte(sampleBankOFX), 0o600))

	txns, err := LoadFiles(context.Background(), []string{csvPath, ofxPath, overlapPath})
	require.NoError(t, err)
	require.Len(t, txns, 5)

	for i := 1; i < len(txns); i++ {
		assert.False(t, txns[i].Date.Before(txns[i-1].Date), "transactions must be sorted by date")
	}
	assert.Equal(t, "SPICE MART", txns[0].Description)
	assert.Equal(t, "Zelle from Meena", txns[4].Description)

	t.Run("unsupported file", func(t *testing.T) {
		_, err := LoadFiles(context.Background(), []string{filepath.Join(dir, "notes.txt")})
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFiles(context.Background(), []string{filepath.Join(dir, "missing.csv")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
