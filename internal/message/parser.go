// Package message extracts structured orders from chat messages.
//
// An order message has three pipe-delimited fields:
//
//	Order: 2 Biryani, 1 Naan | Name: John Doe | Date: 06/27/24
//
// The Order keyword may appear anywhere in the line, so exported chat lines
// with a timestamp and sender prefix are accepted as well.
package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/dates"
	"github.com/Veraticus/tiffin/internal/model"
)

// Outcome classifies what the parser made of a line.
type Outcome int

const (
	// Unmatched lines do not have the order message shape. They are expected
	// (system notices, chatter) and are not errors.
	Unmatched Outcome = iota
	// Matched lines produced an order.
	Matched
	// Malformed lines have the order shape but an invalid field.
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Malformed:
		return "malformed"
	default:
		return "unmatched"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "matched":
		*o = Matched
	case "malformed":
		*o = Malformed
	case "unmatched":
		*o = Unmatched
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Field labels of the order grammar, compared case-insensitively.
const (
	orderLabel = "order:"
	nameLabel  = "name:"
	dateLabel  = "date:"
)

// Fields are the raw values of the three order fields, whitespace trimmed.
type Fields struct {
	Items string
	Name  string
	Date  string
}

// Result is the tagged outcome of parsing one line.
type Result struct {
	Order      *model.Order // set when Outcome is Matched
	Err        error        // set when Outcome is Malformed
	Line       string
	Fields     Fields
	LineNumber int
	Outcome    Outcome
}

// MessageParseError reports a line that has the order shape but cannot be turned into an order.
type MessageParseError struct {
	Err    error
	Line   string
	Reason string
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("%v: %s", common.ErrMessageParse, e.Reason)
}

func (e *MessageParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{common.ErrMessageParse, e.Err}
	}
	return []error{common.ErrMessageParse}
}

// Parser turns single lines into orders.
type Parser struct {
	dates *dates.Normalizer
}

// NewParser creates a parser that reads order dates with the given normalizer.
// A nil normalizer selects the default date formats.
func NewParser(normalizer *dates.Normalizer) *Parser {
	if normalizer == nil {
		normalizer = dates.Default()
	}
	return &Parser{dates: normalizer}
}

// ParseLine parses one line. Lines without the order shape come back Unmatched;
// lines with the shape but a bad field come back Malformed with a *MessageParseError.
func (p *Parser) ParseLine(line string) Result {
	result := Result{Line: line}

	fields, ok := Tokenize(line)
	if !ok {
		result.Outcome = Unmatched
		return result
	}
	result.Fields = fields

	order, err := p.build(line, fields)
	if err != nil {
		result.Outcome = Malformed
		result.Err = err
		return result
	}

	result.Outcome = Matched
	result.Order = order
	return result
}

func (p *Parser) build(line string, fields Fields) (*model.Order, error) {
	if model.CleanName(fields.Name) == "" {
		return nil, &MessageParseError{Line: line, Reason: "customer name is empty", Err: model.ErrEmptyCustomer}
	}

	items, err := ParseItems(fields.Items)
	if err != nil {
		return nil, &MessageParseError{Line: line, Reason: err.Error(), Err: err}
	}

	date, err := p.dates.Normalize(fields.Date)
	if err != nil {
		return nil, &MessageParseError{Line: line, Reason: err.Error(), Err: err}
	}

	order, err := model.NewOrder(fields.Name, date, items, strings.TrimSpace(line))
	if err != nil {
		return nil, &MessageParseError{Line: line, Reason: err.Error(), Err: err}
	}
	return order, nil
}

// Tokenize splits a line into the three order fields. It reports false when the
// line does not have the "Order: ... | Name: ... | Date: ..." shape.
func Tokenize(line string) (Fields, bool) {
	start := indexLabel(line, orderLabel)
	if start < 0 {
		return Fields{}, false
	}

	segments := strings.Split(line[start+len(orderLabel):], "|")
	if len(segments) != 3 {
		return Fields{}, false
	}

	name, ok := cutLabel(segments[1], nameLabel)
	if !ok {
		return Fields{}, false
	}
	date, ok := cutLabel(segments[2], dateLabel)
	if !ok {
		return Fields{}, false
	}

	return Fields{
		Items: strings.TrimSpace(segments[0]),
		Name:  name,
		Date:  date,
	}, true
}

// ErrNoValidItems is returned when an item list yields no items.
var ErrNoValidItems = errors.New("item list has no items")

// ParseItems parses a comma separated item list such as "2 Biryani, Naan".
// A segment without a leading quantity counts once; empty segments are dropped.
func ParseItems(list string) ([]model.LineItem, error) {
	var items []model.LineItem

	for _, segment := range strings.Split(list, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		item, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrNoValidItems
	}
	return items, nil
}

func parseSegment(segment string) (model.LineItem, error) {
	start := 0
	if segment[0] == '-' || segment[0] == '+' {
		start = 1
	}
	digits := start
	for digits < len(segment) && segment[digits] >= '0' && segment[digits] <= '9' {
		digits++
	}

	switch {
	case digits == start:
		return model.LineItem{Name: segment, Quantity: 1}, nil
	case digits == len(segment):
		return model.LineItem{}, fmt.Errorf("item %q has a quantity but no name", segment)
	case !startsWithSpace(segment[digits:]):
		// "7Up" is a name, not a quantity.
		return model.LineItem{Name: segment, Quantity: 1}, nil
	case start > 0:
		return model.LineItem{}, fmt.Errorf("item %q has a signed quantity: %w", segment, model.ErrInvalidQuantity)
	}

	qty, err := strconv.Atoi(segment[:digits])
	if err != nil {
		return model.LineItem{}, fmt.Errorf("item %q has an invalid quantity: %w", segment, err)
	}
	if qty < 1 {
		return model.LineItem{}, fmt.Errorf("item %q: %w", segment, model.ErrInvalidQuantity)
	}

	return model.LineItem{Name: strings.TrimSpace(segment[digits:]), Quantity: qty}, nil
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func cutLabel(segment, label string) (string, bool) {
	segment = strings.TrimSpace(segment)
	if len(segment) < len(label) || !strings.EqualFold(segment[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(segment[len(label):]), true
}

// indexLabel finds the first case-insensitive occurrence of the ASCII
// lower-case label that starts a word, so "Reorder:" does not match "order:".
func indexLabel(s, label string) int {
	for i := 0; i+len(label) <= len(s); i++ {
		if !strings.EqualFold(s[i:i+len(label)], label) {
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if i == 0 || !(unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return i
		}
	}
	return -1
}
