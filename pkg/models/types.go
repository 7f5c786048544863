package models

import (
	"time"
)

/*
LOAD → immutable entity records supplied by the upstream data source
(database loader or synthetic generator).
*/

// Product is a catalog entry. Price and Cost are unit amounts.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Cost     float64
}

// Customer carries acquisition attributes; Age and Gender are opaque to the
// engine.
type Customer struct {
	ID       string
	Age      int
	Gender   string
	Channel  string
	JoinDate time.Time
}

// LineItem references a product by ID. Quantity is always >= 1.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Transaction is one order. Total is the 2-decimal rounded sum of
// price*quantity over Items; Channel is copied from the customer at order
// time. Date >= the customer's JoinDate is guaranteed by the source.
type Transaction struct {
	ID         string
	CustomerID string
	Date       time.Time
	Items      []LineItem
	Total      float64
	Channel    string
	Campaign   string // empty when the order carries no campaign label
}

// Dataset bundles the three entity collections. Referential integrity
// (customer and product lookups resolve) is the producer's contract.
type Dataset struct {
	Products     []Product
	Customers    []Customer
	Transactions []Transaction
}

/*
FILTER → query parameters for one analytics request.
*/

// DateRange selects the observation window relative to the reference
// instant.
type DateRange string

const (
	RangeAll      DateRange = "all"
	RangeLast30D  DateRange = "30d"
	RangeLast90D  DateRange = "90d"
	RangeLastYear DateRange = "1y"
)

// CategoryAll is the wildcard category filter.
const CategoryAll = "all"

/*
COMPUTE → derived result structures, recomputed for every filter
configuration and never persisted.
*/

// MonthlyTrend is one chronological revenue/order bucket ("YYYY-MM").
type MonthlyTrend struct {
	Month     string
	Revenue   int
	Orders    int
	Customers int
	AOV       int
}

// CategoryPerformance aggregates line items per product category.
// Margin is a whole percentage.
type CategoryPerformance struct {
	Category string
	Revenue  int
	Units    int
	Profit   int
	Margin   int
}

// ChannelPerformance aggregates transactions per acquisition channel.
// ConversionRate is orders per distinct customer, 2 decimals.
type ChannelPerformance struct {
	Channel        string
	Revenue        int
	Orders         int
	Customers      int
	ConversionRate float64
}

// ProductSales is one top-product ranking entry.
type ProductSales struct {
	ProductID string
	Name      string
	Category  string
	Revenue   float64
	Units     int
}

// RFMScore is the per-customer recency/frequency/monetary record with its
// three 1-5 sub-scores and segment label.
type RFMScore struct {
	CustomerID     string
	RecencyDays    int
	Frequency      int
	Monetary       float64
	RecencyScore   int
	FrequencyScore int
	MonetaryScore  int
	Segment        string
}

// SegmentCount is the distribution of customers across RFM segments.
type SegmentCount struct {
	Segment    string
	Count      int
	Percentage int
}

// CohortRow tracks retention of one first-purchase-month cohort at fixed
// month offsets. Month0 is 100 by definition; absent offsets are 0.
type CohortRow struct {
	Cohort string
	Month0 int
	Month1 int
	Month2 int
	Month3 int
	Month6 int
}

// Snapshot is the complete derived-analytics bundle for one filter
// configuration. Consumers treat it as read-only.
type Snapshot struct {
	TotalRevenue    int
	AvgOrderValue   int
	UniqueCustomers int
	TotalOrders     int

	MonthlyTrends       []MonthlyTrend
	CategoryPerformance []CategoryPerformance
	ChannelPerformance  []ChannelPerformance
	TopProducts         []ProductSales
	RFMScores           []RFMScore
	Segments            []SegmentCount
	Cohorts             []CohortRow
}
