// Package dates turns the date tokens people type into chat messages into calendar dates.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/tiffin/internal/common"
)

// Format describes one accepted date layout. Expr must be a regular expression
// with the named groups "month", "day" and "year"; it is anchored at both ends
// when compiled. A two-digit year group is read as 2000+YY.
type Format struct {
	Name string
	Expr string
}

// DefaultFormats returns the accepted layouts in priority order.
func DefaultFormats() []Format {
	return []Format{
		{Name: "MM/DD/YY", Expr: `(?P<month>\d{1,2})/(?P<day>\d{1,2})/(?P<year>\d{2})`},
		{Name: "MM/DD/YYYY", Expr: `(?P<month>\d{1,2})/(?P<day>\d{1,2})/(?P<year>\d{4})`},
		{Name: "MM-DD-YY", Expr: `(?P<month>\d{1,2})-(?P<day>\d{1,2})-(?P<year>\d{2})`},
		{Name: "MM-DD-YYYY", Expr: `(?P<month>\d{1,2})-(?P<day>\d{1,2})-(?P<year>\d{4})`},
		{Name: "YYYY-MM-DD", Expr: `(?P<year>\d{4})-(?P<month>\d{1,2})-(?P<day>\d{1,2})`},
	}
}

// DateParseError reports a token that matches no format or names an impossible date.
type DateParseError struct {
	Token  string
	Format string // name of the matching format, empty when nothing matched
}

func (e *DateParseError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("%v: %q is not a valid %s date", common.ErrDateParse, e.Token, e.Format)
	}
	return fmt.Sprintf("%v: %q matches none of the accepted formats", common.ErrDateParse, e.Token)
}

func (e *DateParseError) Unwrap() error {
	return common.ErrDateParse
}

type compiledFormat struct {
	regex *regexp.Regexp
	Format
	month, day, year int
}

// Normalizer parses date tokens against an ordered list of formats.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	formats []compiledFormat
}

// NewNormalizer compiles the given formats. Order is preserved: the first
// format whose expression matches the whole token decides the result.
func NewNormalizer(formats []Format) (*Normalizer, error) {
	compiled := make([]compiledFormat, 0, len(formats))

	for _, f := range formats {
		regex, err := regexp.Compile(`^(?:` + f.Expr + `)$`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile date format %s: %w", f.Name, err)
		}

		cf := compiledFormat{
			Format: f,
			regex:  regex,
			month:  regex.SubexpIndex("month"),
			day:    regex.SubexpIndex("day"),
			year:   regex.SubexpIndex("year"),
		}
		if cf.month < 0 || cf.day < 0 || cf.year < 0 {
			return nil, fmt.Errorf("date format %s must define month, day and year groups", f.Name)
		}
		compiled = append(compiled, cf)
	}

	return &Normalizer{formats: compiled}, nil
}

// Formats returns the names of the configured formats in priority order.
func (n *Normalizer) Formats() []string {
	names := make([]string, len(n.formats))
	for i, f := range n.formats {
		names[i] = f.Name
	}
	return names
}

// Normalize parses token into a calendar date at UTC midnight.
func (n *Normalizer) Normalize(token string) (time.Time, error) {
	token = strings.TrimSpace(token)

	for _, f := range n.formats {
		m := f.regex.FindStringSubmatch(token)
		if m == nil {
			continue
		}

		month, _ := strconv.Atoi(m[f.month])
		day, _ := strconv.Atoi(m[f.day])
		year, _ := strconv.Atoi(m[f.year])
		if len(m[f.year]) == 2 {
			year += 2000
		}

		date, ok := civilDate(year, month, day)
		if !ok {
			return time.Time{}, &DateParseError{Token: token, Format: f.Name}
		}
		return date, nil
	}

	return time.Time{}, &DateParseError{Token: token}
}

// minYear is the earliest year accepted in a date token. Earlier years are
// typing mistakes, and 0001-01-01 would collide with the zero time.Time.
const minYear = 1900

// civilDate builds the date and reports false when time.Date would have to
// normalize it (month 13, February 30, ...) or the year is before minYear.
func civilDate(year, month, day int) (time.Time, bool) {
	if year < minYear || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

var defaultNormalizer = mustDefault()

func mustDefault() *Normalizer {
	n, err := NewNormalizer(DefaultFormats())
	if err != nil {
		panic(err)
	}
	return n
}

// Default returns the normalizer built from DefaultFormats.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize parses token with the default formats.
func Normalize(token string) (time.Time, error) {
	return defaultNormalizer.Normalize(token)
}
