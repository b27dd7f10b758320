package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/internal/warehouse"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a database for warehouse builds",
	Long: `Initialize a PostgreSQL database for akhdar-bi: create the raw
extract schema and the metadata table. Safe to re-run; use
--drop-existing to wipe a previous installation first.

Example:
  akhdar-bi init --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing raw, staging and warehouse schemas before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if !initDropExisting {
		if exists, err := db.MetadataExists(ctx, pool); err == nil && exists {
			if v, err := db.GetMetadataValue(ctx, pool, "initialized"); err == nil && v == "true" {
				return fmt.Errorf("database already initialized; use --drop-existing to reinitialize")
			}
		}
	}

	if initDropExisting {
		logging.Info().Msg("Dropping existing schemas")
		for _, schema := range []string{
			warehouse.RawSchema,
			warehouse.StagingSchema,
			warehouse.PublishedSchema,
			warehouse.ShadowSchema,
			warehouse.PriorSchema,
		} {
			if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
				return fmt.Errorf("failed to drop schema %s: %w", schema, err)
			}
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	if err := warehouse.CreateRawSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create raw schema: %w", err)
	}
	if err := db.SaveMetadata(ctx, pool, map[string]string{"initialized": "true"}); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().Msg("Database initialization complete")
	return nil
}
