package analytics

import (
	"math"
	"time"

	"ecom-analytics/pkg/models"
)

// Elapsed months use a flat 30-day divisor, not calendar arithmetic. The
// historical reports were built on these bucket boundaries, so the
// approximation is a compatibility contract.
const cohortMonth = 30 * 24 * time.Hour

// maxCohorts caps the output at the first distinct cohort keys encountered,
// in working-set order.
const maxCohorts = 12

// cohortRetention groups customers by the calendar month of their first
// purchase within the working set and tracks distinct active customers at
// month offsets 0, 1, 2, 3 and 6 relative to cohort size at offset 0.
func cohortRetention(working []models.Transaction) []models.CohortRow {
	first := make(map[string]time.Time)
	for _, t := range working {
		if f, ok := first[t.CustomerID]; !ok || t.Date.Before(f) {
			first[t.CustomerID] = t.Date
		}
	}

	buckets := make(map[string]map[int]map[string]struct{})
	var order []string
	for _, t := range working {
		fp := first[t.CustomerID]
		key := monthKey(fp)
		elapsed := int(t.Date.Sub(fp) / cohortMonth)

		byOffset := buckets[key]
		if byOffset == nil {
			byOffset = make(map[int]map[string]struct{})
			buckets[key] = byOffset
			order = append(order, key)
		}
		set := byOffset[elapsed]
		if set == nil {
			set = make(map[string]struct{})
			byOffset[elapsed] = set
		}
		set[t.CustomerID] = struct{}{}
	}

	if len(order) > maxCohorts {
		order = order[:maxCohorts]
	}
	out := make([]models.CohortRow, 0, len(order))
	for _, key := range order {
		byOffset := buckets[key]
		base := len(byOffset[0])
		if base == 0 {
			base = 1
		}
		out = append(out, models.CohortRow{
			Cohort: key,
			Month0: 100,
			Month1: retentionPct(byOffset, 1, base),
			Month2: retentionPct(byOffset, 2, base),
			Month3: retentionPct(byOffset, 3, base),
			Month6: retentionPct(byOffset, 6, base),
		})
	}
	return out
}

func retentionPct(byOffset map[int]map[string]struct{}, offset, base int) int {
	n := len(byOffset[offset])
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(base) * 100))
}
