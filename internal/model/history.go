package model

import (
	"sort"
	"time"
)

// CustomerHistory groups a customer's orders for retention analysis.
type CustomerHistory struct {
	FirstOrderDate time.Time
	LastOrderDate  time.Time
	Name           string // display name, first spelling seen
	Key            string
	OrderDates     []time.Time // distinct calendar dates, ascending
	OrderCount     int
}

// Occasions returns the number of distinct calendar dates the customer ordered on.
func (h *CustomerHistory) Occasions() int {
	return len(h.OrderDates)
}

// LifetimeDays returns the days between the first and last order.
func (h *CustomerHistory) LifetimeDays() int {
	return DaysBetween(h.FirstOrderDate, h.LastOrderDate)
}

// BuildCustomerHistories groups orders by customer key. The result is sorted by key.
func BuildCustomerHistories(orders []Order) []CustomerHistory {
	byKey := make(map[string]*CustomerHistory)
	dates := make(map[string]map[time.Time]struct{})

	for i := range orders {
		o := &orders[i]
		h, ok := byKey[o.CustomerKey]
		if !ok {
			h = &CustomerHistory{
				Name:           o.CustomerName,
				Key:            o.CustomerKey,
				FirstOrderDate: o.Date,
				LastOrderDate:  o.Date,
			}
			byKey[o.CustomerKey] = h
			dates[o.CustomerKey] = make(map[time.Time]struct{})
		}

		h.OrderCount++
		if o.Date.Before(h.FirstOrderDate) {
			h.FirstOrderDate = o.Date
		}
		if o.Date.After(h.LastOrderDate) {
			h.LastOrderDate = o.Date
		}
		if _, seen := dates[o.CustomerKey][o.Date]; !seen {
			dates[o.CustomerKey][o.Date] = struct{}{}
			h.OrderDates = append(h.OrderDates, o.Date)
		}
	}

	histories := make([]CustomerHistory, 0, len(byKey))
	for _, h := range byKey {
		sort.Slice(h.OrderDates, func(i, j int) bool { return h.OrderDates[i].Before(h.OrderDates[j]) })
		histories = append(histories, *h)
	}
	sort.Slice(histories, func(i, j int) bool { return histories[i].Key < histories[j].Key })

	return histories
}

// SalesPoint is the quantity of an item sold on one calendar date.
type SalesPoint struct {
	Date     time.Time
	Quantity int
}

// ItemSalesSeries is the per-day sales history of one item.
type ItemSalesSeries struct {
	Name   string // display name, first spelling seen
	Key    string
	Points []SalesPoint // ascending by date, one point per date
}

// Total returns the quantity sold across the whole series.
func (s *ItemSalesSeries) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Quantity
	}
	return total
}

// Between sums the quantity of points whose date d satisfies from < d <= to.
func (s *ItemSalesSeries) Between(from, to time.Time) int {
	total := 0
	for _, p := range s.Points {
		if p.Date.After(from) && !p.Date.After(to) {
			total += p.Quantity
		}
	}
	return total
}

// BuildItemSeries aggregates order quantities per item and date. The result is sorted by key.
func BuildItemSeries(orders []Order) []ItemSalesSeries {
	byKey := make(map[string]*ItemSalesSeries)
	perDay := make(map[string]map[time.Time]int)

	for i := range orders {
		o := &orders[i]
		for _, item := range o.Items {
			if _, ok := byKey[item.Key]; !ok {
				byKey[item.Key] = &ItemSalesSeries{Name: item.Name, Key: item.Key}
				perDay[item.Key] = make(map[time.Time]int)
			}
			perDay[item.Key][o.Date] += item.Quantity
		}
	}

	series := make([]ItemSalesSeries, 0, len(byKey))
	for key, s := range byKey {
		for date, qty := range perDay[key] {
			s.Points = append(s.Points, SalesPoint{Date: date, Quantity: qty})
		}
		sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].Date.Before(s.Points[j].Date) })
		series = append(series, *s)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })

	return series
}
