//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/extract"
	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/internal/report"
	"github.com/akhdar/akhdar-bi/internal/staging"
	"github.com/akhdar/akhdar-bi/internal/warehouse"
)

var (
	buildWorkers       int
	buildCalendarStart string
	buildCalendarEnd   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the warehouse from loaded raw extracts",
	Long: `Stage the raw extracts, run the transformation core (dimensions,
order and line facts, discount allocation, COGS estimation, margins,
customer segments) and publish the result.

The build is all-or-nothing: facts are written into a shadow schema
and renamed over the published warehouse in one transaction. A failed
build leaves the previously published warehouse untouched.

Example:
  akhdar-bi build --connection "postgres://..." --workers 8`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0,
		"number of concurrent order-fact workers")
	buildCmd.Flags().StringVar(&buildCalendarStart, "calendar-start", "",
		"first date in the date dimension (YYYY-MM-DD)")
	buildCmd.Flags().StringVar(&buildCalendarEnd, "calendar-end", "",
		"last date in the date dimension (YYYY-MM-DD)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildWorkers > 0 {
		cfg.Build.Workers = buildWorkers
	}
	if buildCalendarStart != "" {
		cfg.Build.CalendarStart = buildCalendarStart
	}
	if buildCalendarEnd != "" {
		cfg.Build.CalendarEnd = buildCalendarEnd
	}
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return buildWarehouse(ctx, pool)
}

// buildWarehouse runs the full stage-transform-publish sequence against
// an already loaded raw schema. Shared with the run command.
func buildWarehouse(ctx context.Context, pool *pgxpool.Pool) error {
	rep := report.New()

	in, err := stageRaw(ctx, pool, rep)
	if err != nil {
		return err
	}

	calendarStart, _ := time.Parse("2006-01-02", cfg.Build.CalendarStart)
	calendarEnd, _ := time.Parse("2006-01-02", cfg.Build.CalendarEnd)

	logging.Info().
		Int("orders", len(in.Orders)).
		Int("order_lines", len(in.Lines)).
		Int("workers", cfg.Build.Workers).
		Msg("Starting warehouse build")

	result := warehouse.Build(*in, warehouse.Options{
		Workers:       cfg.Build.Workers,
		CalendarStart: calendarStart,
		CalendarEnd:   calendarEnd,
	}, rep)

	if err := warehouse.WriteStaging(ctx, pool, batchConfig(), *in); err != nil {
		return err
	}
	if err := warehouse.Publish(ctx, pool, batchConfig(), result); err != nil {
		return err
	}

	rep.Log()
	if err := db.SaveBuildMetadata(ctx, pool, warehouse.PublishedSchema, rep.Summary()); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("findings", rep.Summary()).
		Msg("Warehouse build complete")
	return nil
}

// stageRaw reads the raw tables back and parses them into typed rows.
func stageRaw(ctx context.Context, pool *pgxpool.Pool, rep *report.Report) (*warehouse.Input, error) {
	required := map[string]*extract.Table{
		extract.RawOrders:        nil,
		extract.RawProducts:      nil,
		extract.RawCustomers:     nil,
		extract.RawSKUMap:        nil,
		extract.RawMaterialCosts: nil,
		extract.RawRecipes:       nil,
	}
	for name := range required {
		t, err := extract.ReadRaw(ctx, pool, name)
		if err != nil {
			return nil, fmt.Errorf("reading raw.%s: %w", name, err)
		}
		if t == nil {
			return nil, fmt.Errorf(
				"raw.%s not found; run 'akhdar-bi load' first", name)
		}
		required[name] = t
	}

	metaAds, err := extract.ReadRaw(ctx, pool, extract.RawMetaAds)
	if err != nil {
		return nil, fmt.Errorf("reading raw.%s: %w", extract.RawMetaAds, err)
	}
	gsc, err := extract.ReadRaw(ctx, pool, extract.RawGSCDaily)
	if err != nil {
		return nil, fmt.Errorf("reading raw.%s: %w", extract.RawGSCDaily, err)
	}

	orders, lines := staging.Orders(required[extract.RawOrders], rep)
	in := &warehouse.Input{
		Orders:        orders,
		Lines:         lines,
		Products:      staging.Products(required[extract.RawProducts], rep),
		Customers:     staging.Customers(required[extract.RawCustomers], rep),
		SKUMap:        staging.SKUMap(required[extract.RawSKUMap], rep),
		Materials:     staging.MaterialCosts(required[extract.RawMaterialCosts], rep),
		Recipes:       staging.Recipes(required[extract.RawRecipes], rep),
		Marketing:     staging.MetaAds(metaAds),
		SearchConsole: staging.SearchConsole(gsc),
	}
	return in, nil
}
