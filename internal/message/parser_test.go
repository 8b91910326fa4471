package message

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/dates"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Fields
		wantOK bool
	}{
		{
			name:   "canonical line",
			line:   "Order: 2 Biryani, 1 Naan | Name: John Doe | Date: 2024-06-27",
			want:   Fields{Items: "2 Biryani, 1 Naan", Name: "John Doe", Date: "2024-06-27"},
			wantOK: true,
		},
		{
			name:   "loose whitespace and case",
			line:   "  ORDER:2 Biryani|name:   Asha   |  DATE:06/27/24  ",
			want:   Fields{Items: "2 Biryani", Name: "Asha", Date: "06/27/24"},
			wantOK: true,
		},
		{
			name:   "chat export prefix",
			line:   "6/27/24, 10:15 AM - Priya: Order: 3 Dosa | Name: Priya | Date: 06-27-2024",
			want:   Fields{Items: "3 Dosa", Name: "Priya", Date: "06-27-2024"},
			wantOK: true,
		},
		{
			name:   "empty name keeps the shape",
			line:   "Order: 1 Dal | Name: | Date: 2024-06-27",
			want:   Fields{Items: "1 Dal", Name: "", Date: "2024-06-27"},
			wantOK: true,
		},
		{
			name:   "sender name containing the keyword",
			line:   "6/27/24, 10:15 AM - Recorder: Order: 1 Dal | Name: Meena | Date: 06/27/24",
			want:   Fields{Items: "1 Dal", Name: "Meena", Date: "06/27/24"},
			wantOK: true,
		},
		{name: "keyword inside a word", line: "Reorder: 2 Naan | Name: Asha | Date: 06/27/24"},
		{name: "chatter", line: "See you tomorrow!"},
		{name: "media notice", line: "6/27/24, 10:16 AM - Priya: <Media omitted>"},
		{name: "missing date field", line: "Order: 2 Biryani | Name: John"},
		{name: "extra field", line: "Order: 2 Biryani | Name: John | Date: 2024-06-27 | Paid"},
		{name: "fields out of order", line: "Order: 2 Biryani | Date: 2024-06-27 | Name: John"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Tokenize(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []model.LineItem
		wantErr string
	}{
		{
			name: "quantities",
			list: "2 Biryani, 1 Naan",
			want: []model.LineItem{{Name: "Biryani", Quantity: 2}, {Name: "Naan", Quantity: 1}},
		},
		{
			name: "default quantity",
			list: "Naan, 3 Chicken Tikka",
			want: []model.LineItem{{Name: "Naan", Quantity: 1}, {Name: "Chicken Tikka", Quantity: 3}},
		},
		{
			name: "empty segments dropped",
			list: "2 Biryani,, 1 Naan,",
			want: []model.LineItem{{Name: "Biryani", Quantity: 2}, {Name: "Naan", Quantity: 1}},
		},
		{
			name: "digits glued to a name are part of the name",
			list: "7Up",
			want: []model.LineItem{{Name: "7Up", Quantity: 1}},
		},
		{name: "only commas", list: " , ,", wantErr: "item list has no items"},
		{name: "empty", list: "", wantErr: "item list has no items"},
		{name: "quantity without name", list: "2 Biryani, 3", wantErr: "has a quantity but no name"},
		{name: "zero quantity", list: "0 Naan", wantErr: "quantity must be at least 1"},
		{name: "negative quantity", list: "-2 Naan", wantErr: "signed quantity"},
		{name: "plus signed quantity", list: "1 Dal, +2 Naan", wantErr: "signed quantity"},
		{
			name: "dash glued to a name is part of the name",
			list: "-Naan, +1Up",
			want: []model.LineItem{{Name: "-Naan", Quantity: 1}, {Name: "+1Up", Quantity: 1}},
		},
		{name: "overflowing quantity", list: "99999999999999999999 Naan", wantErr: "invalid quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItems(tt.list)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine(t *testing.T) {
	parser := NewParser(nil)

	t.Run("matched", func(t *testing.T) {
		line := "Order: 2 Biryani, 1 Naan, 1 naan | Name: John Doe | Date: 06/27/24"
		result := parser.ParseLine(line)

		require.Equal(t, Matched, result.Outcome)
		require.NoError(t, result.Err)
		order := result.Order
		require.NotNil(t, order)
		assert.Equal(t, "John Doe", order.CustomerName)
		assert.Equal(t, "john doe", order.CustomerKey)
		assert.Equal(t, time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), order.Date)
		assert.Equal(t, line, order.RawText)
		assert.Equal(t, []model.LineItem{
			{Name: "Biryani", Key: "biryani", Quantity: 2},
			{Name: "Naan", Key: "naan", Quantity: 2},
		}, order.Items)
	})

	t.Run("unmatched is not an error", func(t *testing.T) {
		result := parser.ParseLine("Messages and calls are end-to-end encrypted.")
		assert.Equal(t, Unmatched, result.Outcome)
		assert.NoError(t, result.Err)
		assert.Nil(t, result.Order)
	})

	malformed := []struct {
		name       string
		line       string
		wantReason string
		wantDate   bool
	}{
		{name: "bad date", line: "Order: 2 Biryani | Name: John | Date: 13/45/24", wantReason: "not a valid", wantDate: true},
		{name: "year before 1900", line: "Order: 2 Biryani | Name: John | Date: 0001-01-01", wantReason: "not a valid", wantDate: true},
		{name: "unknown date format", line: "Order: 2 Biryani | Name: John | Date: June 27", wantReason: "matches none", wantDate: true},
		{name: "no items", line: "Order: , | Name: John | Date: 2024-06-27", wantReason: "no items"},
		{name: "empty name", line: "Order: 2 Biryani | Name:   | Date: 2024-06-27", wantReason: "customer name is empty"},
		{name: "bare quantity", line: "Order: 2 | Name: John | Date: 2024-06-27", wantReason: "quantity but no name"},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.ParseLine(tt.line)
			require.Equal(t, Malformed, result.Outcome)
			assert.Nil(t, result.Order)
			require.Error(t, result.Err)
			assert.ErrorIs(t, result.Err, common.ErrMessageParse)
			assert.Contains(t, result.Err.Error(), tt.wantReason)
			assert.Equal(t, tt.wantDate, isDateError(result.Err))

			var parseErr *MessageParseError
			require.ErrorAs(t, result.Err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}

	t.Run("signed quantity is malformed", func(t *testing.T) {
		result := parser.ParseLine("Order: -2 Naan | Name: Asha | Date: 06/27/24")
		require.Equal(t, Malformed, result.Outcome)
		assert.Nil(t, result.Order)
		assert.ErrorIs(t, result.Err, model.ErrInvalidQuantity)
		assert.ErrorIs(t, result.Err, common.ErrMessageParse)
	})
}

func isDateError(err error) bool {
	var dateErr *dates.DateParseError
	return errors.As(err, &dateErr)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "unmatched", Unmatched.String())
	assert.Equal(t, "malformed", Malformed.String())
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{Matched, Unmatched, Malformed} {
		text, err := o.MarshalText()
		require.NoError(t, err)

		var decoded Outcome
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, o, decoded)
	}

	var o Outcome
	assert.Error(t, o.UnmarshalText([]byte("maybe")))
}
