package message

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/Veraticus/tiffin/internal/model"
)

// SkippedLine records a non-blank line that did not produce an order.
type SkippedLine struct {
	Line       string  `json:"line"`
	Reason     string  `json:"reason"`
	LineNumber int     `json:"line_number"`
	Kind       Outcome `json:"kind"` // Unmatched or Malformed
}

// Extraction is the result of extracting orders from a block of text.
type Extraction struct {
	Orders    []model.Order `json:"orders"`
	Skipped   []SkippedLine `json:"skipped"`
	Lines     int           `json:"lines"` // non-blank lines seen
	Matched   int           `json:"matched"`
	Unmatched int           `json:"unmatched"`
	Malformed int           `json:"malformed"`
}

// Merge appends the orders and skipped lines of other, keeping their order.
func (e *Extraction) Merge(other *Extraction) {
	if other == nil {
		return
	}
	e.Orders = append(e.Orders, other.Orders...)
	e.Skipped = append(e.Skipped, other.Skipped...)
	e.Lines += other.Lines
	e.Matched += other.Matched
	e.Unmatched += other.Unmatched
	e.Malformed += other.Malformed
}

// MalformedLines returns only the skipped lines that looked like orders.
func (e *Extraction) MalformedLines() []SkippedLine {
	var lines []SkippedLine
	for _, s := range e.Skipped {
		if s.Kind == Malformed {
			lines = append(lines, s)
		}
	}
	return lines
}

// Extractor runs a Parser over every line of a text block.
// It keeps no state between calls.
type Extractor struct {
	parser *Parser
}

// NewExtractor creates an extractor. A nil parser selects NewParser(nil).
func NewExtractor(parser *Parser) *Extractor {
	if parser == nil {
		parser = NewParser(nil)
	}
	return &Extractor{parser: parser}
}

// Scan lazily parses text line by line in input order, yielding one Result per
// non-blank line. Each call starts over from the beginning of text.
func (e *Extractor) Scan(text string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		lineNumber := 0
		rest := text
		for len(rest) > 0 {
			lineNumber++

			line := rest
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				line, rest = rest[:i], rest[i+1:]
			} else {
				rest = ""
			}
			line = strings.TrimSuffix(line, "\r")

			if strings.TrimSpace(line) == "" {
				continue
			}

			result := e.parser.ParseLine(line)
			result.LineNumber = lineNumber
			if result.Order != nil {
				result.Order.LineNumber = lineNumber
			}
			if !yield(result) {
				return
			}
		}
	}
}

// Extract parses every line of text. Bad lines are recorded in Skipped and
// never abort the batch.
func (e *Extractor) Extract(text string) *Extraction {
	extraction := &Extraction{}

	for result := range e.Scan(text) {
		extraction.Lines++

		switch result.Outcome {
		case Matched:
			extraction.Matched++
			extraction.Orders = append(extraction.Orders, *result.Order)
		case Malformed:
			extraction.Malformed++
			reason := result.Err.Error()
			slog.Warn("Skipping malformed order line",
				"line", result.LineNumber,
				"reason", reason)
			extraction.Skipped = append(extraction.Skipped, SkippedLine{
				LineNumber: result.LineNumber,
				Line:       result.Line,
				Kind:       Malformed,
				Reason:     reason,
			})
		default:
			extraction.Unmatched++
			slog.Debug("Ignoring non-order line", "line", result.LineNumber)
			extraction.Skipped = append(extraction.Skipped, SkippedLine{
				LineNumber: result.LineNumber,
				Line:       result.Line,
				Kind:       Unmatched,
				Reason:     "not an order message",
			})
		}
	}

	slog.Debug("Extracted orders",
		"lines", extraction.Lines,
		"orders", extraction.Matched,
		"unmatched", extraction.Unmatched,
		"malformed", extraction.Malformed)

	return extraction
}

// ExtractReader reads r to the end and extracts orders from its content.
// Uploaded chat exports and pasted text go through the same Extract call.
func (e *Extractor) ExtractReader(r io.Reader) (*Extraction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return e.Extract(string(content)), nil
}
