package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/tiffin/internal/analytics"
	"github.com/Veraticus/tiffin/internal/message"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var sectionTitles = map[string]string{
	analytics.SectionTopItems:           "Top items",
	analytics.SectionTrendingIncreasing: "Trending up",
	analytics.SectionTrendingNew:        "New this week",
	analytics.SectionLowStock:           "Low stock",
	analytics.SectionRetained:           "Retained customers",
	analytics.SectionChurnTrial:         "Churned: tried once",
	analytics.SectionChurnQuick:         "Churned: quick",
	analytics.SectionChurnSlow:          "Churned: slow",
	analytics.SectionReorderByItem:      "Reordered items",
	analytics.SectionReorderByCustomer:  "Reorders by customer",
}

// ReportOptions controls table rendering.
type ReportOptions struct {
	// Top limits the rows shown per section. Zero shows everything.
	Top int
}

// RenderReport writes the report as a summary box followed by one table per section.
func RenderReport(w io.Writer, report *analytics.Report, opts ReportOptions) error {
	var b strings.Builder

	title := "Tiffin insights"
	if !report.ReferenceDate.IsZero() {
		title += " as of " + report.ReferenceDate.Format(time.DateOnly)
	}
	b.WriteString(FormatTitle(title))
	b.WriteString("\n")
	b.WriteString(RenderBox(ChartIcon+" Summary", summaryLines(report.Summary)))
	b.WriteString("\n")

	for _, section := range report.Sections() {
		b.WriteString("\n")
		b.WriteString(SectionStyle.Render(SectionTitle(section.Name)))
		b.WriteString("\n")

		if len(section.Rows) == 0 {
			b.WriteString(SubtleStyle.Render("  none"))
			b.WriteString("\n")
			continue
		}

		rows := section.Rows
		hidden := 0
		if opts.Top > 0 && len(rows) > opts.Top {
			hidden = len(rows) - opts.Top
			rows = rows[:opts.Top]
		}
		b.WriteString(renderTable(section.Columns, rows))
		b.WriteString("\n")
		if hidden > 0 {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SectionTitle returns the display heading for a report section name.
func SectionTitle(name string) string {
	if title, ok := sectionTitles[name]; ok {
		return title
	}
	return name
}

func summaryLines(s analytics.Summary) string {
	rows := [][2]string{
		{"Orders", strconv.Itoa(s.TotalOrders)},
		{"Customers", strconv.Itoa(s.UniqueCustomers)},
		{"Items", fmt.Sprintf("%d kinds, %d sold", s.UniqueItems, s.ItemsSold)},
		{"Orders per customer", strconv.FormatFloat(s.AverageOrdersPerCustomer, 'f', 2, 64)},
		{"Retention rate", strconv.FormatFloat(s.RetentionRate, 'f', 1, 64) + "%"},
	}
	if s.Payments > 0 {
		rows = append(rows,
			[2]string{"Revenue", "$" + s.TotalRevenue.StringFixed(2)},
			[2]string{"Average order value", "$" + s.AverageOrderValue.StringFixed(2)},
			[2]string{"Orders with a payment", fmt.Sprintf("%d of %d", s.OrdersWithPayment, s.TotalOrders)},
		)
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = SubtleStyle.Render(fmt.Sprintf("%-22s", r[0])) + BoldStyle.Render(r[1])
	}
	return strings.Join(lines, "\n")
}

func renderTable(columns []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		String()
}

// RenderExtraction writes extraction counters, the malformed lines and,
// when showOrders is set, every extracted order.
func RenderExtraction(w io.Writer, ex *message.Extraction, showOrders bool) error {
	var b strings.Builder

	b.WriteString(FormatSuccess(fmt.Sprintf("Extracted %d orders from %d lines", ex.Matched, ex.Lines)))
	b.WriteString("\n")
	if skipped := ex.Unmatched + ex.Malformed; skipped > 0 {
		b.WriteString(FormatWarning(fmt.Sprintf("Skipped %d lines (%d not orders, %d malformed)",
			skipped, ex.Unmatched, ex.Malformed)))
		b.WriteString("\n")
	}

	if showOrders && len(ex.Orders) > 0 {
		rows := make([][]string, len(ex.Orders))
		for i := range ex.Orders {
			o := &ex.Orders[i]
			rows[i] = []string{
				strconv.Itoa(o.LineNumber),
				o.Date.Format(time.DateOnly),
				o.CustomerName,
				formatItems(o.Items),
			}
		}
		b.WriteString("\n")
		b.WriteString(SectionStyle.Render("Orders"))
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Line", "Date", "Customer", "Items"}, rows))
		b.WriteString("\n")
	}

	if malformed := ex.MalformedLines(); len(malformed) > 0 {
		rows := make([][]string, len(malformed))
		for i, s := range malformed {
			rows[i] = []string{strconv.Itoa(s.LineNumber), s.Reason, s.Line}
		}
		b.WriteString("\n")
		b.WriteString(SectionStyle.Render("Malformed lines"))
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Line", "Problem", "Text"}, rows))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatItems(items []model.LineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d x %s", item.Quantity, item.Name)
	}
	return strings.Join(parts, ", ")
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
