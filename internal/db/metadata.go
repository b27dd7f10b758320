//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/pkg/version"
)

const metadataTable = "akhdar_bi_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS akhdar_bi_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveMetadata upserts the given keys plus builder version into the
// metadata table, creating it on first use.
func SaveMetadata(ctx context.Context, pool *pgxpool.Pool, values map[string]string) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"version": version.Short(),
	}
	for key, value := range values {
		metadata[key] = value
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO akhdar_bi_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().Msg("Saved metadata")
	return nil
}

// SaveLoadMetadata records a completed raw load.
func SaveLoadMetadata(ctx context.Context, pool *pgxpool.Pool, sample bool) error {
	return SaveMetadata(ctx, pool, map[string]string{
		"loaded_at":   time.Now().UTC().Format(time.RFC3339),
		"sample_data": fmt.Sprintf("%t", sample),
	})
}

// SaveBuildMetadata records a completed warehouse build and the schema
// it was published under.
func SaveBuildMetadata(ctx context.Context, pool *pgxpool.Pool, schema, findings string) error {
	return SaveMetadata(ctx, pool, map[string]string{
		"built_at":         time.Now().UTC().Format(time.RFC3339),
		"published_schema": schema,
		"findings":         findings,
	})
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM akhdar_bi_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM akhdar_bi_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
