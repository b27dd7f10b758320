//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package main is the entry point for akhdar-bi.
package main

import (
	"fmt"
	"os"

	"github.com/akhdar/akhdar-bi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
