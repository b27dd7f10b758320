//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for akhdar-bi.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/akhdar/akhdar-bi/internal/config"
	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string
	useSample  bool

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "akhdar-bi",
		Short: "Business intelligence warehouse builder for Akhdar Perfumes",
		Long: `akhdar-bi loads storefront exports and production reference sheets
into PostgreSQL and builds a dimensional warehouse from them: order and
line-level financial facts with allocated discounts, recipe-based COGS
estimates, margins and customer lifecycle segments, plus the reporting
marts on top.

A build is a full recompute: facts are assembled into a shadow schema
and swapped over the published warehouse atomically, so reporting
consumers never see a half-built state.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./akhdar-bi.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&useSample, "sample", false,
		"use generated sample extracts instead of real exports")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if useSample {
		cfg.Data.UseSample = true
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// batchConfig derives bulk-load batching from the build configuration.
func batchConfig() db.BatchConfig {
	bc := db.DefaultBatchConfig()
	if cfg.Build.BatchSize > 0 {
		bc.BatchSize = cfg.Build.BatchSize
	}
	return bc
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
