package analytics

import (
	"fmt"
	"math"
	"sort"

	"ecom-analytics/pkg/models"
)

const (
	trendWindow = 12 // most recent months kept in the trend series
	topProductN = 10
)

// monthlyTrends groups transactions by calendar month and keeps the most
// recent trendWindow buckets in chronological order.
func monthlyTrends(working []models.Transaction) []models.MonthlyTrend {
	type acc struct {
		revenue   float64
		orders    int
		customers map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, t := range working {
		key := monthKey(t.Date)
		a := groups[key]
		if a == nil {
			a = &acc{customers: make(map[string]struct{})}
			groups[key] = a
		}
		a.revenue += t.Total
		a.orders++
		a.customers[t.CustomerID] = struct{}{}
	}

	months := make([]string, 0, len(groups))
	for m := range groups {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > trendWindow {
		months = months[len(months)-trendWindow:]
	}

	out := make([]models.MonthlyTrend, 0, len(months))
	for _, m := range months {
		a := groups[m]
		aov := 0
		if a.orders > 0 {
			aov = int(math.Round(a.revenue / float64(a.orders)))
		}
		out = append(out, models.MonthlyTrend{
			Month:     m,
			Revenue:   int(math.Round(a.revenue)),
			Orders:    a.orders,
			Customers: len(a.customers),
			AOV:       aov,
		})
	}
	return out
}

// categoryPerformance groups line items (not transactions) by product
// category. Categories with zero revenue are omitted since their margin is
// undefined. Output is sorted by revenue descending; ties keep first-seen
// order.
func (e *Engine) categoryPerformance(working []models.Transaction) ([]models.CategoryPerformance, error) {
	type acc struct {
		revenue float64
		profit  float64
		units   int
	}
	groups := make(map[string]*acc)
	var order []string
	for _, t := range working {
		for _, it := range t.Items {
			p, ok := e.products[it.ProductID]
			if !ok {
				return nil, fmt.Errorf("transaction %s: unknown product %s", t.ID, it.ProductID)
			}
			a := groups[p.Category]
			if a == nil {
				a = &acc{}
				groups[p.Category] = a
				order = append(order, p.Category)
			}
			q := float64(it.Quantity)
			a.revenue += p.Price * q
			a.profit += (p.Price - p.Cost) * q
			a.units += it.Quantity
		}
	}

	out := make([]models.CategoryPerformance, 0, len(order))
	for _, c := range order {
		a := groups[c]
		if a.revenue == 0 {
			continue
		}
		out = append(out, models.CategoryPerformance{
			Category: c,
			Revenue:  int(math.Round(a.revenue)),
			Units:    a.units,
			Profit:   int(math.Round(a.profit)),
			Margin:   int(math.Round(a.profit / a.revenue * 100)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out, nil
}

// channelPerformance groups transactions by acquisition channel. Conversion
// is orders per distinct customer, 2 decimals, zero when a channel somehow
// has no customers.
func channelPerformance(working []models.Transaction) []models.ChannelPerformance {
	type acc struct {
		revenue   float64
		orders    int
		customers map[string]struct{}
	}
	groups := make(map[string]*acc)
	var order []string
	for _, t := range working {
		a := groups[t.Channel]
		if a == nil {
			a = &acc{customers: make(map[string]struct{})}
			groups[t.Channel] = a
			order = append(order, t.Channel)
		}
		a.revenue += t.Total
		a.orders++
		a.customers[t.CustomerID] = struct{}{}
	}

	out := make([]models.ChannelPerformance, 0, len(order))
	for _, ch := range order {
		a := groups[ch]
		conversion := 0.0
		if len(a.customers) > 0 {
			conversion = round2(float64(a.orders) / float64(len(a.customers)))
		}
		out = append(out, models.ChannelPerformance{
			Channel:        ch,
			Revenue:        int(math.Round(a.revenue)),
			Orders:         a.orders,
			Customers:      len(a.customers),
			ConversionRate: conversion,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// topProducts ranks products by line-item revenue, descending, keeping the
// first topProductN. The sort is stable so revenue ties fall back to
// first-seen order.
func (e *Engine) topProducts(working []models.Transaction) ([]models.ProductSales, error) {
	type acc struct {
		name     string
		category string
		revenue  float64
		units    int
	}
	groups := make(map[string]*acc)
	var order []string
	for _, t := range working {
		for _, it := range t.Items {
			p, ok := e.products[it.ProductID]
			if !ok {
				return nil, fmt.Errorf("transaction %s: unknown product %s", t.ID, it.ProductID)
			}
			a := groups[p.ID]
			if a == nil {
				a = &acc{name: p.Name, category: p.Category}
				groups[p.ID] = a
				order = append(order, p.ID)
			}
			a.revenue += p.Price * float64(it.Quantity)
			a.units += it.Quantity
		}
	}

	out := make([]models.ProductSales, 0, len(order))
	for _, id := range order {
		a := groups[id]
		out = append(out, models.ProductSales{
			ProductID: id,
			Name:      a.name,
			Category:  a.category,
			Revenue:   round2(a.revenue),
			Units:     a.units,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > topProductN {
		out = out[:topProductN]
	}
	return out, nil
}
