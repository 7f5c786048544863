package analytics

import (
	"fmt"
	"time"

	"ecom-analytics/pkg/models"
)

// filter applies the date-range and category predicates, preserving input
// order. Transactions strictly before the window cutoff are dropped; a
// transaction matches a category when any of its line items resolves to a
// product in it.
func (e *Engine) filter(dateRange models.DateRange, category string) ([]models.Transaction, error) {
	cut, bounded := cutoff(e.reference, dateRange)
	wildcard := category == models.CategoryAll

	out := make([]models.Transaction, 0, len(e.transactions))
	for _, t := range e.transactions {
		if bounded && t.Date.Before(cut) {
			continue
		}
		if !wildcard {
			ok, err := e.inCategory(t, category)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// cutoff maps a date range to its window start relative to the reference
// instant. The second return is false for the unbounded "all" range.
func cutoff(reference time.Time, r models.DateRange) (time.Time, bool) {
	switch r {
	case models.RangeLast30D:
		return reference.AddDate(0, 0, -30), true
	case models.RangeLast90D:
		return reference.AddDate(0, 0, -90), true
	case models.RangeLastYear:
		return reference.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func (e *Engine) inCategory(t models.Transaction, category string) (bool, error) {
	for _, it := range t.Items {
		p, ok := e.products[it.ProductID]
		if !ok {
			return false, fmt.Errorf("transaction %s: unknown product %s", t.ID, it.ProductID)
		}
		if p.Category == category {
			return true, nil
		}
	}
	return false, nil
}
