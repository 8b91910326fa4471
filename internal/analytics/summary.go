package analytics

import (
	"sort"
	"time"

	"github.com/Veraticus/tiffin/internal/model"
	"github.com/shopspring/decimal"
)

// summarize computes headline metrics and merges order and payment activity
// by calendar date. Orders and payments are related by date proximity only:
// an order counts as paid when any payment falls within PaymentMatchDays.
func (e *Engine) summarize(ds *dataset, retention Retention) (Summary, []DailyActivity) {
	summary := Summary{
		TotalOrders:     len(ds.orders),
		UniqueCustomers: len(ds.histories),
		UniqueItems:     len(ds.series),
		Payments:        len(ds.payments),
		TotalRevenue:    decimal.Zero,
	}

	days := make(map[time.Time]*DailyActivity)
	dayOf := func(d time.Time) *DailyActivity {
		d = model.DateOf(d)
		if days[d] == nil {
			days[d] = &DailyActivity{Date: d, PaymentTotal: decimal.Zero}
		}
		return days[d]
	}

	for i := range ds.orders {
		o := &ds.orders[i]
		qty := o.TotalQuantity()
		summary.ItemsSold += qty

		day := dayOf(o.Date)
		day.Orders++
		day.Quantity += qty
	}

	paymentDates := make([]time.Time, 0, len(ds.payments))
	for i := range ds.payments {
		p := &ds.payments[i]
		summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)

		day := dayOf(p.Date)
		day.Payments++
		day.PaymentTotal = day.PaymentTotal.Add(p.Amount)
		paymentDates = append(paymentDates, model.DateOf(p.Date))
	}
	sort.Slice(paymentDates, func(i, j int) bool { return paymentDates[i].Before(paymentDates[j]) })

	for i := range ds.orders {
		if hasPaymentNear(paymentDates, ds.orders[i].Date, e.cfg.PaymentMatchDays) {
			summary.OrdersWithPayment++
		}
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalOrders))).
			Round(2)
	} else {
		summary.AverageOrderValue = decimal.Zero
	}
	if summary.UniqueCustomers > 0 {
		summary.AverageOrdersPerCustomer = float64(summary.TotalOrders) / float64(summary.UniqueCustomers)
		summary.RetentionRate = float64(len(retention.Retained)) / float64(summary.UniqueCustomers) * 100
	}

	daily := make([]DailyActivity, 0, len(days))
	for _, d := range days {
		daily = append(daily, *d)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })

	return summary, daily
}

// hasPaymentNear reports whether sorted holds a date within maxDays of date.
func hasPaymentNear(sorted []time.Time, date time.Time, maxDays int) bool {
	earliest := date.AddDate(0, 0, -maxDays)
	i := sort.Search(len(sorted), func(i int) bool { return !sorted[i].Before(earliest) })
	return i < len(sorted) && model.DaysBetween(date, sorted[i]) <= maxDays
}
