package analytics

import (
	"sort"

	"github.com/Veraticus/tiffin/internal/model"
)

func topItems(ds *dataset) []ItemTotal {
	type keyed struct {
		key string
		ItemTotal
	}

	rows := make([]keyed, 0, len(ds.series))
	for i := range ds.series {
		s := &ds.series[i]
		rows = append(rows, keyed{key: s.Key, ItemTotal: ItemTotal{Item: s.Name, Quantity: s.Total()}})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Quantity != rows[j].Quantity {
			return rows[i].Quantity > rows[j].Quantity
		}
		return rows[i].key < rows[j].key
	})

	totals := make([]ItemTotal, len(rows))
	for i, r := range rows {
		totals[i] = r.ItemTotal
	}
	return totals
}

// trending splits items into increasing and new. The recent window covers
// dates d with 0 <= ref-d < TrendingWindowDays; the baseline window covers the
// TrendingBaselineDays before it. The baseline sum is rescaled to the recent
// window's length so windows of different lengths compare fairly.
func (e *Engine) trending(ds *dataset) Trending {
	window := e.cfg.TrendingWindowDays
	baselineDays := e.cfg.TrendingBaselineDays

	result := Trending{Increasing: []TrendRow{}, New: []TrendRow{}}
	for i := range ds.series {
		s := &ds.series[i]

		recent, baseline := 0, 0
		for _, p := range s.Points {
			age := model.DaysBetween(p.Date, ds.reference)
			switch {
			case age < 0:
			case age < window:
				recent += p.Quantity
			case age < window+baselineDays:
				baseline += p.Quantity
			}
		}

		normalized := 0.0
		if baselineDays > 0 {
			normalized = float64(baseline) / float64(baselineDays) * float64(window)
		}

		row := TrendRow{
			Item:               s.Name,
			RecentQuantity:     recent,
			BaselineQuantity:   baseline,
			NormalizedBaseline: normalized,
		}
		switch {
		case baseline > 0 && float64(recent) > normalized:
			row.Growth = float64(recent) / normalized
			result.Increasing = append(result.Increasing, row)
		case baseline == 0 && recent > 0:
			result.New = append(result.New, row)
		}
	}

	// Series are already in key order, so a stable sort keeps name order on ties.
	sort.SliceStable(result.Increasing, func(i, j int) bool {
		return result.Increasing[i].Growth > result.Increasing[j].Growth
	})
	sort.SliceStable(result.New, func(i, j int) bool {
		return result.New[i].RecentQuantity > result.New[j].RecentQuantity
	})

	return result
}

func (e *Engine) lowStock(ds *dataset) []StockAlert {
	alerts := []StockAlert{}
	for i := range ds.series {
		s := &ds.series[i]
		sold := s.Total()
		if sold > e.cfg.StockThreshold {
			alerts = append(alerts, StockAlert{
				Item:      s.Name,
				Sold:      sold,
				Threshold: e.cfg.StockThreshold,
				Remaining: e.cfg.StockThreshold - sold,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Remaining < alerts[j].Remaining
	})
	return alerts
}
