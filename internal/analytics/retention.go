package analytics

import (
	"time"

	"github.com/Veraticus/tiffin/internal/model"
)

// Classify places a customer in exactly one lifecycle bucket:
//
//  1. last order within retentionDays of ref: retained
//  2. a single ordering occasion: trial
//  3. lifetime shorter than quickChurnDays: quick churn
//  4. otherwise: slow churn
func Classify(h *model.CustomerHistory, ref time.Time, retentionDays, quickChurnDays int) Lifecycle {
	switch {
	case model.DaysBetween(h.LastOrderDate, ref) <= retentionDays:
		return LifecycleRetained
	case h.Occasions() == 1:
		return LifecycleTrial
	case h.LifetimeDays() < quickChurnDays:
		return LifecycleQuickChurn
	default:
		return LifecycleSlowChurn
	}
}

func (e *Engine) retention(ds *dataset) Retention {
	result := Retention{
		Retained: []CustomerStatus{},
		Churned: Churned{
			Trial:      []CustomerStatus{},
			QuickChurn: []CustomerStatus{},
			SlowChurn:  []CustomerStatus{},
		},
	}

	// Histories are sorted by customer key, so every bucket is too.
	for i := range ds.histories {
		h := &ds.histories[i]
		status := CustomerStatus{
			Customer:       h.Name,
			Lifecycle:      Classify(h, ds.reference, e.cfg.RetentionWindowDays, e.cfg.QuickChurnDays),
			FirstOrderDate: h.FirstOrderDate,
			LastOrderDate:  h.LastOrderDate,
			Orders:         h.OrderCount,
			Occasions:      h.Occasions(),
			DaysSinceLast:  model.DaysBetween(h.LastOrderDate, ds.reference),
			LifetimeDays:   h.LifetimeDays(),
		}

		switch status.Lifecycle {
		case LifecycleRetained:
			result.Retained = append(result.Retained, status)
		case LifecycleTrial:
			result.Churned.Trial = append(result.Churned.Trial, status)
		case LifecycleQuickChurn:
			result.Churned.QuickChurn = append(result.Churned.QuickChurn, status)
		case LifecycleSlowChurn:
			result.Churned.SlowChurn = append(result.Churned.SlowChurn, status)
		}
	}

	return result
}
