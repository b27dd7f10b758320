package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/extract"
	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/internal/warehouse"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load extracts and build the warehouse in one pass",
	Long: `Run the full pipeline end to end: parse and load the raw extracts,
then stage, transform and publish the warehouse. Equivalent to
'akhdar-bi load' followed by 'akhdar-bi build'.

Example:
  akhdar-bi run --connection "postgres://..."
  akhdar-bi run --connection "postgres://..." --sample`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	logging.Info().
		Str("data_dir", cfg.DataDir()).
		Bool("sample", cfg.Data.UseSample).
		Msg("Running full pipeline")

	ex, err := extract.ReadAll(cfg.DataDir(), cfg.Data.ReferenceDir, cfg.Data.UseSample)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := warehouse.CreateRawSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create raw schema: %w", err)
	}
	if err := extract.LoadRaw(ctx, pool, batchConfig(), ex); err != nil {
		return err
	}
	if err := db.SaveLoadMetadata(ctx, pool, cfg.Data.UseSample); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	return buildWarehouse(ctx, pool)
}
