package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhdar/akhdar-bi/internal/logging"
)

// BatchConfig configures bulk load behavior.
type BatchConfig struct {
	// BatchSize is the number of rows per COPY chunk.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default bulk load configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:        1000,
		ProgressInterval: 100000,
	}
}

// CopyRows bulk-loads rows into schema.table via COPY, one chunk of
// cfg.BatchSize rows at a time.
func CopyRows(ctx context.Context, pool *pgxpool.Pool, cfg BatchConfig, schema, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	size := cfg.BatchSize
	if size <= 0 {
		size = DefaultBatchConfig().BatchSize
	}
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = DefaultBatchConfig().ProgressInterval
	}

	progress := NewProgressReporter(schema+"."+table, int64(len(rows)), interval)
	for start := 0; start < len(rows); start += size {
		end := batchEnd(start, size, len(rows))
		n, err := pool.CopyFrom(ctx,
			pgx.Identifier{schema, table},
			columns,
			pgx.CopyFromRows(rows[start:end]),
		)
		if err != nil {
			return fmt.Errorf("failed to copy into %s.%s: %w", schema, table, err)
		}
		progress.Update(n)
	}
	progress.Done()
	return nil
}

// batchEnd clamps a chunk boundary to the row count.
func batchEnd(start, size, total int) int {
	if end := start + size; end < total {
		return end
	}
	return total
}

// ProgressReporter tracks and reports bulk load progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rowsInserted int64) {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Loading data")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Debug().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}
