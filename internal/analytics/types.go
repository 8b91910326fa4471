package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemTotal is an item's total quantity sold.
type ItemTotal struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// TrendRow compares an item's recent sales with its baseline.
type TrendRow struct {
	Item               string  `json:"item"`
	RecentQuantity     int     `json:"recent_quantity"`
	BaselineQuantity   int     `json:"baseline_quantity"`
	NormalizedBaseline float64 `json:"normalized_baseline"`
	// Growth is RecentQuantity / NormalizedBaseline; zero for new items.
	Growth float64 `json:"growth"`
}

// Trending splits trending items into those growing against an existing
// baseline and those with no baseline history at all.
type Trending struct {
	Increasing []TrendRow `json:"increasing"`
	New        []TrendRow `json:"new"`
}

// StockAlert flags an item whose sales exceeded the stock threshold.
type StockAlert struct {
	Item      string `json:"item"`
	Sold      int    `json:"sold"`
	Threshold int    `json:"threshold"`
	Remaining int    `json:"remaining"` // negative by construction
}

// Lifecycle is a customer's retention classification.
type Lifecycle string

const (
	// LifecycleRetained customers ordered within the retention window.
	LifecycleRetained Lifecycle = "retained"
	// LifecycleTrial customers churned after a single ordering occasion.
	LifecycleTrial Lifecycle = "trial"
	// LifecycleQuickChurn customers churned after a short ordering lifetime.
	LifecycleQuickChurn Lifecycle = "quick_churn"
	// LifecycleSlowChurn customers churned after a long ordering lifetime.
	LifecycleSlowChurn Lifecycle = "slow_churn"
)

// CustomerStatus is one customer's classification with the facts behind it.
type CustomerStatus struct {
	FirstOrderDate time.Time `json:"first_order_date"`
	LastOrderDate  time.Time `json:"last_order_date"`
	Customer       string    `json:"customer"`
	Lifecycle      Lifecycle `json:"lifecycle"`
	Orders         int       `json:"orders"`
	Occasions      int       `json:"occasions"`
	DaysSinceLast  int       `json:"days_since_last"`
	LifetimeDays   int       `json:"lifetime_days"`
}

// Churned groups churned customers by bucket.
type Churned struct {
	Trial      []CustomerStatus `json:"trial"`
	QuickChurn []CustomerStatus `json:"quick_churn"`
	SlowChurn  []CustomerStatus `json:"slow_churn"`
}

// Retention is the outcome of classifying every customer.
type Retention struct {
	Retained []CustomerStatus `json:"retained"`
	Churned  Churned          `json:"churned"`
}

// ItemReorder counts the customers who reordered an item.
type ItemReorder struct {
	Item      string   `json:"item"`
	Customers []string `json:"customers"`
	Count     int      `json:"count"`
}

// CustomerReorder lists the items a customer reordered.
type CustomerReorder struct {
	Customer string   `json:"customer"`
	Items    []string `json:"items"`
}

// Reorders holds both views of the reorder pass.
type Reorders struct {
	ByItem     []ItemReorder     `json:"by_item"`
	ByCustomer []CustomerReorder `json:"by_customer"`
}

// DailyActivity merges order and payment activity for one calendar date.
type DailyActivity struct {
	Date         time.Time       `json:"date"`
	PaymentTotal decimal.Decimal `json:"payment_total"`
	Orders       int             `json:"orders"`
	Quantity     int             `json:"quantity"`
	Payments     int             `json:"payments"`
}

// Summary holds the headline batch metrics.
type Summary struct {
	TotalRevenue             decimal.Decimal `json:"total_revenue"`
	AverageOrderValue        decimal.Decimal `json:"average_order_value"`
	TotalOrders              int             `json:"total_orders"`
	UniqueCustomers          int             `json:"unique_customers"`
	UniqueItems              int             `json:"unique_items"`
	ItemsSold                int             `json:"items_sold"`
	Payments                 int             `json:"payments"`
	OrdersWithPayment        int             `json:"orders_with_payment"`
	AverageOrdersPerCustomer float64         `json:"average_orders_per_customer"`
	RetentionRate            float64         `json:"retention_rate"` // percent of customers retained
}

// Report is the complete output of one analysis run.
type Report struct {
	ReferenceDate time.Time        `json:"reference_date"`
	ID            string           `json:"id"`
	TopItems      []ItemTotal      `json:"top_items"`
	LowStock      []StockAlert     `json:"low_stock"`
	DailyActivity []DailyActivity  `json:"daily_activity"`
	Retained      []CustomerStatus `json:"retained_customers"`
	Trending      Trending         `json:"trending_items"`
	Churned       Churned          `json:"churned_customers"`
	Reorders      Reorders         `json:"reordered_items"`
	Summary       Summary          `json:"summary"`
	Config        Config           `json:"config"`
}
