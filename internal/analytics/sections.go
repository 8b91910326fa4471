package analytics

import (
	"strconv"
	"strings"
	"time"
)

// Section names, in report order.
const (
	SectionTopItems           = "top_items"
	SectionTrendingIncreasing = "trending_items.increasing"
	SectionTrendingNew        = "trending_items.new"
	SectionLowStock           = "low_stock"
	SectionRetained           = "retained_customers"
	SectionChurnTrial         = "churned_customers.trial"
	SectionChurnQuick         = "churned_customers.quick_churn"
	SectionChurnSlow          = "churned_customers.slow_churn"
	SectionReorderByItem      = "reordered_items.by_item"
	SectionReorderByCustomer  = "reordered_items.by_customer"
)

// Section is one report category as a table of display rows.
type Section struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Sections flattens the report into its fixed, ordered list of categories.
func (r *Report) Sections() []Section {
	customerColumns := []string{"Customer", "Orders", "First order", "Last order", "Days since last"}

	sections := []Section{
		{Name: SectionTopItems, Columns: []string{"Item", "Quantity"}},
		{Name: SectionTrendingIncreasing, Columns: []string{"Item", "Recent", "Baseline (normalized)", "Growth"}},
		{Name: SectionTrendingNew, Columns: []string{"Item", "Recent"}},
		{Name: SectionLowStock, Columns: []string{"Item", "Sold", "Threshold", "Remaining"}},
		{Name: SectionRetained, Columns: customerColumns, Rows: customerRows(r.Retained)},
		{Name: SectionChurnTrial, Columns: customerColumns, Rows: customerRows(r.Churned.Trial)},
		{Name: SectionChurnQuick, Columns: customerColumns, Rows: customerRows(r.Churned.QuickChurn)},
		{Name: SectionChurnSlow, Columns: customerColumns, Rows: customerRows(r.Churned.SlowChurn)},
		{Name: SectionReorderByItem, Columns: []string{"Item", "Customers", "Reordered by"}},
		{Name: SectionReorderByCustomer, Columns: []string{"Customer", "Items"}},
	}

	for _, t := range r.TopItems {
		sections[0].Rows = append(sections[0].Rows, []string{t.Item, strconv.Itoa(t.Quantity)})
	}
	for _, t := range r.Trending.Increasing {
		sections[1].Rows = append(sections[1].Rows, []string{
			t.Item,
			strconv.Itoa(t.RecentQuantity),
			strconv.FormatFloat(t.NormalizedBaseline, 'f', 1, 64),
			strconv.FormatFloat(t.Growth, 'f', 2, 64) + "x",
		})
	}
	for _, t := range r.Trending.New {
		sections[2].Rows = append(sections[2].Rows, []string{t.Item, strconv.Itoa(t.RecentQuantity)})
	}
	for _, a := range r.LowStock {
		sections[3].Rows = append(sections[3].Rows, []string{
			a.Item, strconv.Itoa(a.Sold), strconv.Itoa(a.Threshold), strconv.Itoa(a.Remaining),
		})
	}
	for _, ri := range r.Reorders.ByItem {
		sections[8].Rows = append(sections[8].Rows, []string{
			ri.Item, strconv.Itoa(ri.Count), strings.Join(ri.Customers, ", "),
		})
	}
	for _, rc := range r.Reorders.ByCustomer {
		sections[9].Rows = append(sections[9].Rows, []string{rc.Customer, strings.Join(rc.Items, ", ")})
	}

	return sections
}

func customerRows(statuses []CustomerStatus) [][]string {
	var rows [][]string
	for _, s := range statuses {
		rows = append(rows, []string{
			s.Customer,
			strconv.Itoa(s.Orders),
			s.FirstOrderDate.Format(time.DateOnly),
			s.LastOrderDate.Format(time.DateOnly),
			strconv.Itoa(s.DaysSinceLast),
		})
	}
	return rows
}
