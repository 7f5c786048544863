package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ecom-analytics/pkg/analytics"
	"ecom-analytics/pkg/config"
	"ecom-analytics/pkg/database"
	"ecom-analytics/pkg/datagen"
	"ecom-analytics/pkg/export"
	"ecom-analytics/pkg/logger"
	"ecom-analytics/pkg/models"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	dsn := flag.String("dsn", os.Getenv("ECOM_ANALYTICS_DSN"), "MariaDB/MySQL DSN for the entity store (empty: synthetic data)")
	rangeFlag := flag.String("range", string(models.RangeAll), "Date range (all, 30d, 90d, 1y)")
	category := flag.String("category", models.CategoryAll, "Category filter (all or a category name)")
	out := flag.String("out", "", "CSV report output path (empty: no export)")
	seed := flag.Int64("seed", 0, "Override generator seed (0: keep configured seed)")
	verbose := flag.Bool("v", true, "Verbose mode")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if *dsn == "" {
		*dsn = cfg.DSN
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}

	dateRange, err := analytics.ParseDateRange(*rangeFlag)
	if err != nil {
		zlog.Fatalw("invalid range flag", "err", err)
	}
	reference, err := cfg.Reference()
	if err != nil {
		zlog.Fatalw("invalid reference date", "err", err)
	}

	ctx := context.Background()

	var ds models.Dataset
	if *dsn != "" {
		db, dsnUsed, err := database.Open(*dsn)
		if err != nil {
			zlog.Fatalw("open db", "err", err)
		}
		defer db.Close()
		if *verbose {
			zlog.Infow("connected", "dsn", dsnUsed)
		}
		ds, err = database.LoadDataset(ctx, db)
		if err != nil {
			zlog.Fatalw("load dataset", "err", err)
		}
	} else {
		if *verbose {
			zlog.Infow("generating synthetic dataset",
				"seed", cfg.Generator.Seed,
				"products", cfg.Generator.Products,
				"customers", cfg.Generator.Customers,
				"attempts", cfg.Generator.Transactions,
			)
		}
		ds = datagen.Generate(cfg.Generator, *verbose)
	}
	zlog.Infow("dataset ready",
		"products", len(ds.Products),
		"customers", len(ds.Customers),
		"transactions", len(ds.Transactions),
	)

	engine := analytics.New(ds, reference, zlog)
	snap, err := engine.Compute(ctx, dateRange, *category)
	if err != nil {
		zlog.Fatalw("compute", "err", err)
	}

	fmt.Printf("total_revenue=%d ; avg_order_value=%d ; customers=%d ; orders=%d\n",
		snap.TotalRevenue, snap.AvgOrderValue, snap.UniqueCustomers, snap.TotalOrders)
	for _, m := range snap.MonthlyTrends {
		fmt.Printf("%s ; revenue=%d ; orders=%d ; customers=%d ; aov=%d\n",
			m.Month, m.Revenue, m.Orders, m.Customers, m.AOV)
	}
	for _, s := range snap.Segments {
		fmt.Printf("segment=%s ; customers=%d ; share=%d%%\n", s.Segment, s.Count, s.Percentage)
	}

	if *out != "" {
		if err := export.ExportReport(*out, snap); err != nil {
			zlog.Fatalw("export", "err", err)
		}
		zlog.Infow("report exported", "path", *out)
	}
}
