package payments

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/dates"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/shopspring/decimal"
)

var requiredColumns = []string{"date", "description", "amount"}

// timestampLayouts are tried after the order-date formats.
var timestampLayouts = []string{
	time.DateTime,
	time.RFC3339,
}

// CSVLoader reads a payment export with date, description and amount columns.
// Extra columns are ignored; an "id" column, when present, fills Transaction.ID.
type CSVLoader struct {
	dates *dates.Normalizer
}

// NewCSVLoader creates a CSV loader. A nil normalizer uses the default date formats.
func NewCSVLoader(n *dates.Normalizer) *CSVLoader {
	if n == nil {
		n = dates.Default()
	}
	return &CSVLoader{dates: n}
}

// Load parses the export. Rows with an unreadable date or amount are skipped.
func (l *CSVLoader) Load(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: CSV export has no header", common.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	idCol, hasID := columns["id"]

	var transactions []model.Transaction
	skipped := 0
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}

		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := l.parseDate(field("date"))
		if err != nil {
			slog.Debug("Skipping payment row", "row", row, "reason", "unreadable date", "error", err)
			skipped++
			continue
		}
		amount, err := ParseAmount(field("amount"))
		if err != nil {
			slog.Debug("Skipping payment row", "row", row, "reason", "unreadable amount", "error", err)
			skipped++
			continue
		}

		tx := model.Transaction{
			Date:        date,
			Amount:      amount,
			Description: field("description"),
			Source:      "csv",
		}
		if hasID && idCol < len(record) {
			tx.ID = strings.TrimSpace(record[idCol])
		}
		transactions = append(transactions, tx)
	}

	sortByDate(transactions)

	slog.Debug("Parsed CSV payment export",
		"transactions", len(transactions),
		"skipped_rows", skipped)

	return transactions, nil
}

func (l *CSVLoader) parseDate(token string) (time.Time, error) {
	date, err := l.dates.Normalize(token)
	if err == nil {
		return date, nil
	}
	for _, layout := range timestampLayouts {
		if t, perr := time.Parse(layout, token); perr == nil {
			return model.DateOf(t), nil
		}
	}
	return time.Time{}, err
}

// normalizeHeader lower-cases a column name and joins its words with underscores.
func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// ParseAmount reads a money amount such as "25", "$1,250.00", "-4.5" or "(12.00)".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}
	clean = strings.NewReplacer("$", "", ",", "", " ", "").Replace(clean)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", s)
	}

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
