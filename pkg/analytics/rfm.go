package analytics

import (
	"math"
	"time"

	"ecom-analytics/pkg/models"
)

// RFM segment labels, best to worst.
const (
	SegmentChampions = "Champions"
	SegmentLoyal     = "Loyal"
	SegmentPotential = "Potential"
	SegmentAtRisk    = "At Risk"
	SegmentLost      = "Lost"
)

var segmentOrder = []string{SegmentChampions, SegmentLoyal, SegmentPotential, SegmentAtRisk, SegmentLost}

// scoreCustomers derives one RFM record per distinct customer in the
// working set, in first-seen order. Recency counts whole days from the
// customer's latest transaction to the reference instant.
func scoreCustomers(working []models.Transaction, reference time.Time) []models.RFMScore {
	type acc struct {
		last      time.Time
		frequency int
		monetary  float64
	}
	metrics := make(map[string]*acc)
	var order []string
	for _, t := range working {
		a := metrics[t.CustomerID]
		if a == nil {
			a = &acc{last: t.Date}
			metrics[t.CustomerID] = a
			order = append(order, t.CustomerID)
		}
		if t.Date.After(a.last) {
			a.last = t.Date
		}
		a.frequency++
		a.monetary += t.Total
	}

	out := make([]models.RFMScore, 0, len(order))
	for _, id := range order {
		a := metrics[id]
		recency := int(reference.Sub(a.last) / (24 * time.Hour))
		s := models.RFMScore{
			CustomerID:     id,
			RecencyDays:    recency,
			Frequency:      a.frequency,
			Monetary:       round2(a.monetary),
			RecencyScore:   recencyScore(recency),
			FrequencyScore: frequencyScore(a.frequency),
			MonetaryScore:  monetaryScore(a.monetary),
		}
		s.Segment = segmentFor(s.RecencyScore + s.FrequencyScore + s.MonetaryScore)
		out = append(out, s)
	}
	return out
}

func recencyScore(days int) int {
	switch {
	case days < 30:
		return 5
	case days < 90:
		return 4
	case days < 180:
		return 3
	case days < 365:
		return 2
	default:
		return 1
	}
}

func frequencyScore(orders int) int {
	switch {
	case orders > 10:
		return 5
	case orders > 5:
		return 4
	case orders > 3:
		return 3
	case orders > 1:
		return 2
	default:
		return 1
	}
}

func monetaryScore(sum float64) int {
	switch {
	case sum > 1000:
		return 5
	case sum > 500:
		return 4
	case sum > 250:
		return 3
	case sum > 100:
		return 2
	default:
		return 1
	}
}

// segmentFor maps the 3-15 sub-score total to a segment label, first match
// wins top-down.
func segmentFor(total int) string {
	switch {
	case total >= 13:
		return SegmentChampions
	case total >= 11:
		return SegmentLoyal
	case total >= 9:
		return SegmentPotential
	case total >= 7:
		return SegmentAtRisk
	default:
		return SegmentLost
	}
}

// segmentDistribution counts customers per segment. Output follows the
// fixed segment order; segments with no customers are omitted.
func segmentDistribution(scores []models.RFMScore) []models.SegmentCount {
	if len(scores) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, s := range scores {
		counts[s.Segment]++
	}
	out := make([]models.SegmentCount, 0, len(counts))
	for _, seg := range segmentOrder {
		n := counts[seg]
		if n == 0 {
			continue
		}
		out = append(out, models.SegmentCount{
			Segment:    seg,
			Count:      n,
			Percentage: int(math.Round(float64(n) / float64(len(scores)) * 100)),
		})
	}
	return out
}
