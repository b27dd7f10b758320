package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/sample"
)

var (
	seedOrders    int
	seedCustomers int
	seedSeed      uint64
	seedOutDir    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample extracts",
	Long: `Generate realistic sample extracts (orders, products, customers and
the reference sheets) into the sample data directory, so the pipeline
can run without real storefront exports.

Example:
  akhdar-bi seed --orders 1000
  akhdar-bi run --sample --connection "postgres://..."`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0,
		"number of sample orders to generate")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of sample customers to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible generation (0 = time-based)")
	seedCmd.Flags().StringVar(&seedOutDir, "out-dir", "",
		"output directory (default: configured sample_dir)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	genCfg := sample.DefaultConfig()
	if seedOrders > 0 {
		genCfg.Orders = seedOrders
	}
	if seedCustomers > 0 {
		genCfg.Customers = seedCustomers
	}
	if seedSeed > 0 {
		genCfg.Seed = seedSeed
	} else if seedSeed == 0 && cmd.Flags().Changed("seed") {
		genCfg.Seed = uint64(time.Now().UnixNano())
	}

	outDir := cfg.Data.SampleDir
	if seedOutDir != "" {
		outDir = seedOutDir
	}
	if outDir == "" {
		return fmt.Errorf("sample directory is required")
	}

	return sample.New(genCfg).WriteAll(outDir)
}
