package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/schollz/progressbar/v3"

	"ecom-analytics/pkg/config"
	"ecom-analytics/pkg/models"
)

// Order dates are drawn uniformly from this window; customers join during
// its first 24 months.
var (
	windowStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Generate builds a synthetic dataset. The same settings always yield the
// same dataset; the transaction count is an attempt count, attempts dated
// before the customer's join date are discarded to keep the upstream
// invariant (no orders before joining).
func Generate(g config.Generator, showProgress bool) models.Dataset {
	rng := rand.New(rand.NewSource(g.Seed))

	products := make([]models.Product, g.Products)
	for i := range products {
		price := round2(rng.Float64()*500 + 20)
		products[i] = models.Product{
			ID:       fmt.Sprintf("PROD%04d", i+1),
			Name:     fmt.Sprintf("Product %d", i+1),
			Category: g.Categories[rng.Intn(len(g.Categories))],
			Price:    price,
			Cost:     round2(price * (0.4 + rng.Float64()*0.3)),
		}
	}

	customers := make([]models.Customer, g.Customers)
	for i := range customers {
		gender := "F"
		if rng.Float64() > 0.5 {
			gender = "M"
		}
		customers[i] = models.Customer{
			ID:      fmt.Sprintf("CUST%06d", i+1),
			Age:     18 + rng.Intn(50),
			Gender:  gender,
			Channel: g.Channels[rng.Intn(len(g.Channels))],
			JoinDate: time.Date(2023, time.January+time.Month(rng.Intn(24)), 1+rng.Intn(28),
				0, 0, 0, 0, time.UTC),
		}
	}

	ds := models.Dataset{Products: products, Customers: customers}
	if g.Products == 0 || g.Customers == 0 {
		return ds
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(g.Transactions))
	}

	span := int64(windowEnd.Sub(windowStart))
	transactions := make([]models.Transaction, 0, g.Transactions)
	for i := 0; i < g.Transactions; i++ {
		if bar != nil {
			_ = bar.Add(1)
		}
		c := customers[rng.Intn(len(customers))]
		date := windowStart.Add(time.Duration(rng.Int63n(span)))
		if date.Before(c.JoinDate) {
			continue
		}

		n := 1 + rng.Intn(5)
		items := make([]models.LineItem, 0, n)
		total := 0.0
		for j := 0; j < n; j++ {
			p := products[rng.Intn(len(products))]
			qty := 1 + rng.Intn(3)
			items = append(items, models.LineItem{ProductID: p.ID, Quantity: qty})
			total += p.Price * float64(qty)
		}

		campaign := ""
		if len(g.Campaigns) > 0 && rng.Float64() > 0.3 {
			campaign = g.Campaigns[rng.Intn(len(g.Campaigns))]
		}

		transactions = append(transactions, models.Transaction{
			ID:         fmt.Sprintf("ORD%06d", len(transactions)+1),
			CustomerID: c.ID,
			Date:       date,
			Items:      items,
			Total:      round2(total),
			Channel:    c.Channel,
			Campaign:   campaign,
		})
	}
	ds.Transactions = transactions
	return ds
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
