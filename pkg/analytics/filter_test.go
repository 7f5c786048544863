package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-analytics/pkg/models"
)

func TestFilterDateRanges(t *testing.T) {
	old := txn("ORD000001", "CUST000001", day(2023, 6, 1), 10, "Email", item("PROD0001", 1))
	yearAgo := txn("ORD000002", "CUST000001", day(2024, 2, 1), 10, "Email", item("PROD0001", 1))
	recent := txn("ORD000003", "CUST000001", day(2024, 12, 15), 10, "Email", item("PROD0001", 1))
	e := newTestEngine(old, yearAgo, recent)

	cases := []struct {
		r    models.DateRange
		want []string
	}{
		{models.RangeAll, []string{"ORD000001", "ORD000002", "ORD000003"}},
		{models.RangeLastYear, []string{"ORD000002", "ORD000003"}},
		{models.RangeLast90D, []string{"ORD000003"}},
		{models.RangeLast30D, []string{"ORD000003"}},
	}
	for _, tc := range cases {
		got, err := e.filter(tc.r, models.CategoryAll)
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, tr := range got {
			ids = append(ids, tr.ID)
		}
		assert.Equal(t, tc.want, ids, "range %s", tc.r)
	}
}

func TestFilterCutoffIsInclusive(t *testing.T) {
	// Transactions strictly before the cutoff are excluded; the cutoff
	// instant itself survives.
	onCutoff := txn("ORD000001", "CUST000001", testNow.AddDate(0, 0, -30), 10, "Email", item("PROD0001", 1))
	justBefore := txn("ORD000002", "CUST000001", testNow.AddDate(0, 0, -30).Add(-time.Second), 10, "Email", item("PROD0001", 1))
	e := newTestEngine(justBefore, onCutoff)

	got, err := e.filter(models.RangeLast30D, models.CategoryAll)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD000001", got[0].ID)
}

func TestFilterCategoryMatchesAnyItem(t *testing.T) {
	mixed := txn("ORD000001", "CUST000001", day(2024, 6, 1), 150, "Email",
		item("PROD0002", 1), item("PROD0001", 1))
	clothingOnly := txn("ORD000002", "CUST000002", day(2024, 6, 2), 50, "Direct", item("PROD0002", 1))
	e := newTestEngine(mixed, clothingOnly)

	got, err := e.filter(models.RangeAll, "Electronics")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD000001", got[0].ID)

	got, err = e.filter(models.RangeAll, "Clothing")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	transactions := []models.Transaction{
		txn("ORD000003", "CUST000001", day(2024, 6, 3), 10, "Email", item("PROD0001", 1)),
		txn("ORD000001", "CUST000001", day(2024, 6, 1), 10, "Email", item("PROD0001", 1)),
		txn("ORD000002", "CUST000002", day(2024, 6, 2), 10, "Direct", item("PROD0001", 1)),
	}
	e := newTestEngine(transactions...)

	got, err := e.filter(models.RangeAll, models.CategoryAll)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range got {
		assert.Equal(t, transactions[i].ID, got[i].ID)
	}
}

func TestFilterUnknownProductFails(t *testing.T) {
	e := newTestEngine(
		txn("ORD000001", "CUST000001", day(2024, 6, 1), 10, "Email", item("PRODXXXX", 1)),
	)
	_, err := e.filter(models.RangeAll, "Electronics")
	assert.Error(t, err)
}
