package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func mustOrder(t *testing.T, customer string, date time.Time, items ...LineItem) Order {
	t.Helper()
	o, err := NewOrder(customer, date, items, "")
	require.NoError(t, err)
	return *o
}

func TestBuildCustomerHistories(t *testing.T) {
	orders := []Order{
		mustOrder(t, "Ravi", day(5), LineItem{Name: "Dal", Quantity: 1}),
		mustOrder(t, "asha", day(3), LineItem{Name: "Dal", Quantity: 1}),
		mustOrder(t, "Ravi", day(1), LineItem{Name: "Naan", Quantity: 2}),
		mustOrder(t, "RAVI", day(5), LineItem{Name: "Rice", Quantity: 1}),
	}

	histories := BuildCustomerHistories(orders)
	require.Len(t, histories, 2)

	assert.Equal(t, "asha", histories[0].Key)
	assert.Equal(t, 1, histories[0].Occasions())

	ravi := histories[1]
	assert.Equal(t, "Ravi", ravi.Name)
	assert.Equal(t, 3, ravi.OrderCount)
	assert.Equal(t, []time.Time{day(1), day(5)}, ravi.OrderDates)
	assert.Equal(t, day(1), ravi.FirstOrderDate)
	assert.Equal(t, day(5), ravi.LastOrderDate)
	assert.Equal(t, 4, ravi.LifetimeDays())
}

func TestBuildItemSeries(t *testing.T) {
	orders := []Order{
		mustOrder(t, "A", day(2), LineItem{Name: "Naan", Quantity: 2}, LineItem{Name: "Dal", Quantity: 1}),
		mustOrder(t, "B", day(1), LineItem{Name: "naan", Quantity: 1}),
		mustOrder(t, "C", day(2), LineItem{Name: "NAAN", Quantity: 4}),
	}

	series := BuildItemSeries(orders)
	require.Len(t, series, 2)

	assert.Equal(t, "dal", series[0].Key)
	naan := series[1]
	assert.Equal(t, "Naan", naan.Name)
	assert.Equal(t, []SalesPoint{{Date: day(1), Quantity: 1}, {Date: day(2), Quantity: 6}}, naan.Points)
	assert.Equal(t, 7, naan.Total())
	assert.Equal(t, 6, naan.Between(day(1), day(2)))
	assert.Equal(t, 7, naan.Between(day(0), day(10)))
}
