package analytics

import (
	"sort"
	"time"
)

// reorders makes one pass over the orders collecting, per customer and item,
// the distinct dates the item was bought. Two or more dates is a reorder; both
// the per-item and per-customer views are read off the same index.
func reorders(ds *dataset) Reorders {
	type pair struct{ customer, item string }

	dates := make(map[pair]map[time.Time]struct{})
	customerNames := make(map[string]string)
	itemNames := make(map[string]string)

	for i := range ds.orders {
		o := &ds.orders[i]
		if _, ok := customerNames[o.CustomerKey]; !ok {
			customerNames[o.CustomerKey] = o.CustomerName
		}
		for _, item := range o.Items {
			if _, ok := itemNames[item.Key]; !ok {
				itemNames[item.Key] = item.Name
			}
			k := pair{customer: o.CustomerKey, item: item.Key}
			if dates[k] == nil {
				dates[k] = make(map[time.Time]struct{})
			}
			dates[k][o.Date] = struct{}{}
		}
	}

	byItem := make(map[string][]string)     // item key -> customer keys
	byCustomer := make(map[string][]string) // customer key -> item keys
	for k, d := range dates {
		if len(d) < 2 {
			continue
		}
		byItem[k.item] = append(byItem[k.item], k.customer)
		byCustomer[k.customer] = append(byCustomer[k.customer], k.item)
	}

	result := Reorders{ByItem: []ItemReorder{}, ByCustomer: []CustomerReorder{}}

	for _, itemKey := range sortedKeys(byItem) {
		customers := byItem[itemKey]
		sort.Strings(customers)
		names := make([]string, len(customers))
		for i, c := range customers {
			names[i] = customerNames[c]
		}
		result.ByItem = append(result.ByItem, ItemReorder{
			Item:      itemNames[itemKey],
			Customers: names,
			Count:     len(names),
		})
	}
	sort.SliceStable(result.ByItem, func(i, j int) bool {
		return result.ByItem[i].Count > result.ByItem[j].Count
	})

	for _, customerKey := range sortedKeys(byCustomer) {
		items := byCustomer[customerKey]
		sort.Strings(items)
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = itemNames[it]
		}
		result.ByCustomer = append(result.ByCustomer, CustomerReorder{
			Customer: customerNames[customerKey],
			Items:    names,
		})
	}

	return result
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
