package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-analytics/pkg/config"
	"ecom-analytics/pkg/datagen"
	"ecom-analytics/pkg/models"
)

// reference instant used across the engine tests
var testNow = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func testProducts() []models.Product {
	return []models.Product{
		{ID: "PROD0001", Name: "Product 1", Category: "Electronics", Price: 100, Cost: 60},
		{ID: "PROD0002", Name: "Product 2", Category: "Clothing", Price: 50, Cost: 20},
		{ID: "PROD0003", Name: "Product 3", Category: "Books", Price: 0, Cost: 0},
	}
}

func testCustomers() []models.Customer {
	return []models.Customer{
		{ID: "CUST000001", Age: 30, Gender: "F", Channel: "Email", JoinDate: day(2023, 1, 1)},
		{ID: "CUST000002", Age: 40, Gender: "M", Channel: "Direct", JoinDate: day(2023, 1, 1)},
	}
}

func txn(id, customer string, date time.Time, total float64, channel string, items ...models.LineItem) models.Transaction {
	return models.Transaction{
		ID:         id,
		CustomerID: customer,
		Date:       date,
		Items:      items,
		Total:      total,
		Channel:    channel,
	}
}

func item(product string, qty int) models.LineItem {
	return models.LineItem{ProductID: product, Quantity: qty}
}

func newTestEngine(transactions ...models.Transaction) *Engine {
	return New(models.Dataset{
		Products:     testProducts(),
		Customers:    testCustomers(),
		Transactions: transactions,
	}, testNow, nil)
}

func TestComputeSingleTransaction(t *testing.T) {
	e := newTestEngine(
		txn("ORD000001", "CUST000001", day(2024, 6, 15), 100.00, "Email", item("PROD0001", 1)),
	)

	snap, err := e.Compute(context.Background(), models.RangeAll, models.CategoryAll)
	require.NoError(t, err)

	assert.Equal(t, 100, snap.TotalRevenue)
	assert.Equal(t, 100, snap.AvgOrderValue)
	assert.Equal(t, 1, snap.UniqueCustomers)
	assert.Equal(t, 1, snap.TotalOrders)

	require.Len(t, snap.MonthlyTrends, 1)
	assert.Equal(t, models.MonthlyTrend{Month: "2024-06", Revenue: 100, Orders: 1, Customers: 1, AOV: 100}, snap.MonthlyTrends[0])

	require.Len(t, snap.Cohorts, 1)
	assert.Equal(t, 100, snap.Cohorts[0].Month0)
}

func TestComputeEmptyWorkingSet(t *testing.T) {
	e := newTestEngine()

	snap, err := e.Compute(context.Background(), models.RangeAll, models.CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, &models.Snapshot{}, snap)

	// A filter that matches nothing must degrade the same way, not error.
	e = newTestEngine(
		txn("ORD000001", "CUST000001", day(2024, 6, 15), 100.00, "Email", item("PROD0001", 1)),
	)
	snap, err = e.Compute(context.Background(), models.RangeAll, "Toys")
	require.NoError(t, err)
	assert.Zero(t, snap.TotalRevenue)
	assert.Zero(t, snap.TotalOrders)
	assert.Empty(t, snap.MonthlyTrends)
	assert.Empty(t, snap.RFMScores)
	assert.Empty(t, snap.Cohorts)
}

func TestComputeDeterministic(t *testing.T) {
	transactions := []models.Transaction{
		txn("ORD000001", "CUST000001", day(2024, 3, 5), 250.00, "Email", item("PROD0001", 2), item("PROD0002", 1)),
		txn("ORD000002", "CUST000002", day(2024, 4, 9), 100.00, "Direct", item("PROD0001", 1)),
		txn("ORD000003", "CUST000001", day(2024, 5, 2), 150.00, "Email", item("PROD0002", 3)),
	}
	e := newTestEngine(transactions...)

	first, err := e.Compute(context.Background(), models.RangeAll, models.CategoryAll)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Compute(context.Background(), models.RangeAll, models.CategoryAll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeUnknownProduct(t *testing.T) {
	e := newTestEngine(
		txn("ORD000001", "CUST000001", day(2024, 6, 15), 100.00, "Email", item("PROD9999", 1)),
	)

	_, err := e.Compute(context.Background(), models.RangeAll, models.CategoryAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROD9999")
}

func TestComputeOnGeneratedDataset(t *testing.T) {
	g := config.Default().Generator
	g.Seed = 3
	g.Products = 20
	g.Customers = 200
	g.Transactions = 2000
	ds := datagen.Generate(g, false)
	e := New(ds, testNow, nil)

	for _, r := range []models.DateRange{models.RangeAll, models.RangeLastYear, models.RangeLast90D, models.RangeLast30D} {
		snap, err := e.Compute(context.Background(), r, models.CategoryAll)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(snap.MonthlyTrends), 12)
		assert.LessOrEqual(t, len(snap.TopProducts), 10)
		for i := 1; i < len(snap.TopProducts); i++ {
			assert.GreaterOrEqual(t, snap.TopProducts[i-1].Revenue, snap.TopProducts[i].Revenue)
		}
		assert.LessOrEqual(t, len(snap.Cohorts), 12)
		for _, row := range snap.Cohorts {
			assert.Equal(t, 100, row.Month0)
		}
		assert.Len(t, snap.RFMScores, snap.UniqueCustomers)

		share := 0
		for _, s := range snap.Segments {
			share += s.Count
		}
		assert.Equal(t, snap.UniqueCustomers, share)
	}
}

func TestParseDateRange(t *testing.T) {
	for _, valid := range []string{"all", "30d", "90d", "1y"} {
		r, err := ParseDateRange(valid)
		require.NoError(t, err)
		assert.Equal(t, models.DateRange(valid), r)
	}
	_, err := ParseDateRange("7d")
	assert.Error(t, err)
}
