package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ecom-analytics/pkg/models"
)

// Engine computes analytics snapshots over one immutable dataset. All
// derived structures are rebuilt from scratch per request, so concurrent
// Compute calls never share mutable state.
type Engine struct {
	products     map[string]models.Product
	customers    map[string]models.Customer
	transactions []models.Transaction
	reference    time.Time
	log          *zap.SugaredLogger
}

// New indexes the dataset. reference is the instant treated as "now" by the
// date-range filter and recency scoring.
func New(ds models.Dataset, reference time.Time, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	products := make(map[string]models.Product, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ID] = p
	}
	customers := make(map[string]models.Customer, len(ds.Customers))
	for _, c := range ds.Customers {
		customers[c.ID] = c
	}
	return &Engine{
		products:     products,
		customers:    customers,
		transactions: ds.Transactions,
		reference:    reference,
		log:          log,
	}
}

// ParseDateRange validates a caller-supplied range token.
func ParseDateRange(s string) (models.DateRange, error) {
	switch models.DateRange(s) {
	case models.RangeAll, models.RangeLast30D, models.RangeLast90D, models.RangeLastYear:
		return models.DateRange(s), nil
	}
	return "", fmt.Errorf("unknown date range %q (want all, 30d, 90d or 1y)", s)
}

// Compute runs the filter stage and fans the three independent derivation
// stages out over the shared read-only working set, then assembles the
// snapshot. An empty working set yields a zero-valued snapshot, not an
// error. A dangling product reference (broken entity-store contract)
// surfaces as an error.
func (e *Engine) Compute(ctx context.Context, dateRange models.DateRange, category string) (*models.Snapshot, error) {
	started := time.Now()

	working, err := e.filter(dateRange, category)
	if err != nil {
		return nil, err
	}
	if len(working) == 0 {
		e.log.Infow("empty working set", "range", string(dateRange), "category", category)
		return &models.Snapshot{}, nil
	}

	var (
		trends   []models.MonthlyTrend
		cats     []models.CategoryPerformance
		channels []models.ChannelPerformance
		top      []models.ProductSales
		scores   []models.RFMScore
		segments []models.SegmentCount
		cohorts  []models.CohortRow
	)

	// The stages are bounded and CPU-only, so the group acts purely as a
	// fan-out/join barrier; no cancellation is needed.
	var g errgroup.Group
	g.Go(func() error {
		trends = monthlyTrends(working)
		channels = channelPerformance(working)
		var err error
		if cats, err = e.categoryPerformance(working); err != nil {
			return err
		}
		top, err = e.topProducts(working)
		return err
	})
	g.Go(func() error {
		scores = scoreCustomers(working, e.reference)
		segments = segmentDistribution(scores)
		return nil
	})
	g.Go(func() error {
		cohorts = cohortRetention(working)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := assemble(working)
	snap.MonthlyTrends = trends
	snap.CategoryPerformance = cats
	snap.ChannelPerformance = channels
	snap.TopProducts = top
	snap.RFMScores = scores
	snap.Segments = segments
	snap.Cohorts = cohorts

	e.log.Infow("snapshot computed",
		"range", string(dateRange),
		"category", category,
		"orders", snap.TotalOrders,
		"revenue", snap.TotalRevenue,
		"customers", snap.UniqueCustomers,
		"took", time.Since(started),
	)
	return snap, nil
}

// assemble derives the top-level scalars from the working set.
func assemble(working []models.Transaction) *models.Snapshot {
	var revenue float64
	uniq := make(map[string]struct{})
	for _, t := range working {
		revenue += t.Total
		uniq[t.CustomerID] = struct{}{}
	}
	orders := len(working)
	aov := 0.0
	if orders > 0 {
		aov = revenue / float64(orders)
	}
	return &models.Snapshot{
		TotalRevenue:    int(math.Round(revenue)),
		AvgOrderValue:   int(math.Round(aov)),
		UniqueCustomers: len(uniq),
		TotalOrders:     orders,
	}
}

// monthKey buckets a timestamp into its "YYYY-MM" calendar month.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// round2 rounds a currency sum to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
