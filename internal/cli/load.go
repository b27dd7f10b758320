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

var (
	loadDataDir      string
	loadReferenceDir string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load raw extracts into the database",
	Long: `Parse the storefront exports and reference sheets and load them
into the raw schema as-is. Raw tables are dropped and recreated on
every load, so re-running with updated exports is safe.

Example:
  akhdar-bi load --connection "postgres://..." --data-dir data/raw`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDataDir, "data-dir", "",
		"directory containing the storefront exports")
	loadCmd.Flags().StringVar(&loadReferenceDir, "reference-dir", "",
		"directory containing the SKU mapping sheet")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadDataDir != "" {
		cfg.Data.RawDir = loadDataDir
	}
	if loadReferenceDir != "" {
		cfg.Data.ReferenceDir = loadReferenceDir
	}
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	logging.Info().
		Str("data_dir", cfg.DataDir()).
		Bool("sample", cfg.Data.UseSample).
		Msg("Loading raw extracts")

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

	logging.Info().Msg("Raw load complete")
	return nil
}
