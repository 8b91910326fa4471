// Package analytics turns extracted orders into sales and customer insights.
//
// The engine is pure: results depend only on the orders, payments and Config
// passed in, never on the wall clock, so the same batch always yields the same
// report.
package analytics

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tiffin/internal/model"
	"github.com/google/uuid"
)

// reportNamespace scopes report IDs derived from batch content.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/tiffin/report"))

// Engine computes insights over a batch of orders.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// dataset is a batch prepared for analysis: orders after the reference date
// are dropped and the derived series and histories are built once. Payments
// after a configured reference date are dropped as well.
type dataset struct {
	reference time.Time
	orders    []model.Order
	payments  []model.Transaction
	series    []model.ItemSalesSeries
	histories []model.CustomerHistory
}

// ReferenceDate resolves the anchor date for orders: the configured date, or
// the latest order date when none is configured. It is zero for an empty batch.
func (e *Engine) ReferenceDate(orders []model.Order) time.Time {
	if !e.cfg.ReferenceDate.IsZero() {
		return model.DateOf(e.cfg.ReferenceDate)
	}

	var latest time.Time
	for i := range orders {
		if orders[i].Date.After(latest) {
			latest = orders[i].Date
		}
	}
	return latest
}

func (e *Engine) prepare(orders []model.Order, payments []model.Transaction) *dataset {
	ref := e.ReferenceDate(orders)

	kept := orders
	for i := range orders {
		if orders[i].Date.After(ref) {
			kept = make([]model.Order, 0, len(orders))
			for _, o := range orders {
				if !o.Date.After(ref) {
					kept = append(kept, o)
				}
			}
			slog.Debug("Ignoring orders after reference date",
				"reference_date", ref.Format(time.DateOnly),
				"ignored", len(orders)-len(kept))
			break
		}
	}

	return &dataset{
		reference: ref,
		orders:    kept,
		payments:  e.paymentsAsOf(payments),
		series:    model.BuildItemSeries(kept),
		histories: model.BuildCustomerHistories(kept),
	}
}

// paymentsAsOf drops payments dated after the configured reference date.
// Without a configured date every payment is kept.
func (e *Engine) paymentsAsOf(payments []model.Transaction) []model.Transaction {
	if e.cfg.ReferenceDate.IsZero() {
		return payments
	}
	ref := model.DateOf(e.cfg.ReferenceDate)

	var kept []model.Transaction
	for i := range payments {
		if !model.DateOf(payments[i].Date).After(ref) {
			kept = append(kept, payments[i])
		}
	}
	if ignored := len(payments) - len(kept); ignored > 0 {
		slog.Debug("Ignoring payments after reference date",
			"reference_date", ref.Format(time.DateOnly),
			"ignored", ignored)
	}
	return kept
}

// Analyze runs every insight over the batch and assembles the report.
func (e *Engine) Analyze(orders []model.Order, payments []model.Transaction) *Report {
	ds := e.prepare(orders, payments)

	slog.Debug("Analyzing orders",
		"orders", len(ds.orders),
		"payments", len(ds.payments),
		"reference_date", ds.reference.Format(time.DateOnly))

	retention := e.retention(ds)
	summary, daily := e.summarize(ds, retention)

	return &Report{
		ID:            reportID(ds, e.cfg),
		ReferenceDate: ds.reference,
		Config:        e.cfg,
		TopItems:      topItems(ds),
		Trending:      e.trending(ds),
		LowStock:      e.lowStock(ds),
		Retained:      retention.Retained,
		Churned:       retention.Churned,
		Reorders:      reorders(ds),
		Summary:       summary,
		DailyActivity: daily,
	}
}

// TopItems returns total quantity per item, highest first.
func (e *Engine) TopItems(orders []model.Order) []ItemTotal {
	return topItems(e.prepare(orders, nil))
}

// TrendingItems compares recent sales with the preceding baseline window.
func (e *Engine) TrendingItems(orders []model.Order) Trending {
	return e.trending(e.prepare(orders, nil))
}

// LowStock flags items whose cumulative sales exceed the stock threshold.
func (e *Engine) LowStock(orders []model.Order) []StockAlert {
	return e.lowStock(e.prepare(orders, nil))
}

// Retention classifies every customer as retained or into a churn bucket.
func (e *Engine) Retention(orders []model.Order) Retention {
	return e.retention(e.prepare(orders, nil))
}

// Reorders finds items customers bought on two or more distinct dates.
func (e *Engine) Reorders(orders []model.Order) Reorders {
	return reorders(e.prepare(orders, nil))
}

// Summarize computes headline metrics and the per-day activity merge.
func (e *Engine) Summarize(orders []model.Order, payments []model.Transaction) (Summary, []DailyActivity) {
	ds := e.prepare(orders, payments)
	return e.summarize(ds, e.retention(ds))
}

// reportID derives a stable UUID from the batch content and configuration.
func reportID(ds *dataset, cfg Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%+v\n", ds.reference.Format(time.DateOnly), cfg)
	for i := range ds.orders {
		o := &ds.orders[i]
		fmt.Fprintf(h, "o|%s|%s", o.Date.Format(time.DateOnly), o.CustomerKey)
		for _, item := range o.Items {
			fmt.Fprintf(h, "|%s=%d", item.Key, item.Quantity)
		}
		fmt.Fprintln(h)
	}
	for i := range ds.payments {
		fmt.Fprintf(h, "p|%s\n", ds.payments[i].GenerateHash())
	}
	return uuid.NewSHA1(reportNamespace, h.Sum(nil)).String()
}
