package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show load and build state for a database",
	Long: `Print the recorded pipeline state: builder version, when raw
extracts were last loaded, when the warehouse was last built and
published, and any findings from that build.

Example:
  akhdar-bi status --connection "postgres://..."`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	exists, err := db.MetadataExists(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to check metadata: %w", err)
	}
	if !exists {
		cmd.Println("not initialized; run 'akhdar-bi init' first")
		return nil
	}

	metadata, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd.Printf("%-18s %s\n", key, metadata[key])
	}
	return nil
}
